package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	model "github.com/dvornik/dealdesk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemFailure is the per-item outcome of a failed task materialization.
type ItemFailure struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ApplyResult is the aggregate outcome of applying a template to a deal.
// Both lists are always present; callers must report "created X of Y" rather
// than a single pass/fail flag, and must only claim full success when
// Failures is empty.
type ApplyResult struct {
	// BatchID identifies this application run in the activity trail.
	BatchID      string        `json:"batch_id"`
	CreatedTasks []model.Task  `json:"created_tasks"`
	Failures     []ItemFailure `json:"failures"`

	// Affected declares the aggregates this mutation touched, so the calling
	// layer decides what to refresh without the engine embedding refetch lists.
	Affected []string `json:"affected"`
}

// Summary renders the caller-facing count line.
func (r *ApplyResult) Summary() string {
	total := len(r.CreatedTasks) + len(r.Failures)
	return fmt.Sprintf("created %d of %d tasks", len(r.CreatedTasks), total)
}

// taskCreator submits one task draft; a returned error is a terminal
// per-item failure, never retried here (retries belong to the transport).
type taskCreator func(task *model.Task) error

// ApplyTemplate materializes one task per template item onto a deal: due
// dates resolved against the deal start date, status initialized to the
// not-started baseline, assignee taken from the item default. Items are
// independent, so this is a best-effort bulk operation: a failing item never
// aborts the rest, and re-applying the same template creates duplicates for
// the items that already succeeded (callers needing idempotency resubmit
// only the failed subset).
func (s *TemplateService) ApplyTemplate(dealID, templateID string) (*ApplyResult, error) {
	var deal model.Deal
	if err := s.db.First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "deal", ID: dealID}
		}
		log.Printf("[ApplyTemplate] Error fetching deal %s: %v", dealID, err)
		return nil, err
	}
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	var items []model.TemplateItem
	if err := s.db.Where("template_id = ?", templateID).Find(&items).Error; err != nil {
		log.Printf("[ApplyTemplate] Error fetching items for template %s: %v", templateID, err)
		return nil, err
	}

	batchID := uuid.NewString()
	create := func(task *model.Task) error {
		if err := s.db.Create(task).Error; err != nil {
			return err
		}
		recordActivity(s.db, dealID, "", "task created from template", "task", task.ID, map[string]interface{}{
			"batch_id":    batchID,
			"template_id": templateID,
			"title":       task.Title,
		})
		s.tasks.indexTask(*task)
		return nil
	}

	result := applyItems(deal, items, s.taxonomy, create)
	result.BatchID = batchID

	recordActivity(s.db, dealID, "", "template applied", "template", templateID, map[string]interface{}{
		"batch_id":      batchID,
		"template_name": template.Name,
		"created":       len(result.CreatedTasks),
		"failed":        len(result.Failures),
	})
	log.Printf("[ApplyTemplate] Template %s applied to deal %s: %s", templateID, dealID, result.Summary())
	return &result, nil
}

// applyItems runs the batch: one independent creation per item, dispatched
// concurrently, outcomes collected under a mutex. An empty item set is a
// legal no-op producing zero tasks and zero failures.
func applyItems(deal model.Deal, items []model.TemplateItem, taxonomy *TaxonomyService, create taskCreator) ApplyResult {
	result := ApplyResult{
		CreatedTasks: []model.Task{},
		Failures:     []ItemFailure{},
		Affected:     []string{"deal_tasks", "activity_log"},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, item := range items {
		wg.Add(1)
		go func(item model.TemplateItem) {
			defer wg.Done()

			task, reason := draftTask(deal, item, taxonomy)
			if reason == "" {
				if err := create(task); err != nil {
					reason = err.Error()
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if reason != "" {
				result.Failures = append(result.Failures, ItemFailure{ItemID: item.ID, Title: item.Title, Reason: reason})
				return
			}
			result.CreatedTasks = append(result.CreatedTasks, *task)
		}(item)
	}
	wg.Wait()
	return result
}

// draftTask builds the task draft for one item, or a human-readable reason
// why it cannot be built. Title and description are copied verbatim; the due
// date is resolved against the deal start date and stays nil without one.
func draftTask(deal model.Deal, item model.TemplateItem, taxonomy *TaxonomyService) (*model.Task, string) {
	if item.Title == "" {
		return nil, "missing required title"
	}
	if item.Phase != "" && !taxonomy.IsKnown(NamespacePhase, item.Phase) {
		return nil, fmt.Sprintf("invalid phase %q", item.Phase)
	}
	if item.Category != "" && !taxonomy.IsKnown(NamespaceCategory, item.Category) {
		return nil, fmt.Sprintf("invalid category %q", item.Category)
	}

	return &model.Task{
		DealID:      deal.ID,
		Title:       item.Title,
		Description: item.Description,
		Phase:       item.Phase,
		Category:    item.Category,
		Status:      StatusNotStarted,
		DueDate:     ResolveDueDate(deal.StartDate, item.DayOffset),
		AssignedTo:  item.DefaultAssignee,
	}, ""
}
