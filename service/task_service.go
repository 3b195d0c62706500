package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	model "github.com/dvornik/dealdesk/models"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"
)

const taskIndex = "tasks"

// TaskService handles task persistence, the completion invariant and
// full-text task search.
type TaskService struct {
	db       *gorm.DB
	esClient *elasticsearch.Client
	taxonomy *TaxonomyService
}

// NewTaskService initializes the service with a database handle and, when
// ELASTICSEARCH_URL is configured, an Elasticsearch client. Search is a
// best-effort feature: a missing or failing client never breaks task writes.
func NewTaskService(db *gorm.DB, taxonomy *TaxonomyService) (*TaskService, error) {
	esURL := os.Getenv("ELASTICSEARCH_URL")
	var esClient *elasticsearch.Client
	if esURL != "" {
		esConfig := elasticsearch.Config{
			Addresses: []string{esURL},
		}
		var err error
		esClient, err = elasticsearch.NewClient(esConfig)
		if err != nil {
			log.Printf("Warning: Failed to create Elasticsearch client: %v", err)
		}
	}
	return &TaskService{db: db, esClient: esClient, taxonomy: taxonomy}, nil
}

// TaskInput carries caller-provided task fields.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Phase       string     `json:"phase"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
}

func (s *TaskService) validateTaskInput(input TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if input.Phase != "" && !s.taxonomy.IsKnown(NamespacePhase, input.Phase) {
		return &ValidationError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", input.Phase)}
	}
	if input.Category != "" && !s.taxonomy.IsKnown(NamespaceCategory, input.Category) {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", input.Category)}
	}
	if input.Status != "" && !s.taxonomy.IsKnown(NamespaceStatus, input.Status) {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", input.Status)}
	}
	return nil
}

// CreateTask creates one task under a deal from direct user entry.
func (s *TaskService) CreateTask(dealID string, input TaskInput) (*model.Task, error) {
	if err := s.validateTaskInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = StatusNotStarted
	}
	task := model.Task{
		DealID:      dealID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Phase:       input.Phase,
		Category:    input.Category,
		Status:      status,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.db.Create(&task).Error; err != nil {
		log.Printf("[CreateTask] Error saving task for deal %s: %v", dealID, err)
		return nil, err
	}

	recordActivity(s.db, dealID, "", "task created", "task", task.ID, map[string]interface{}{
		"title": task.Title,
	})
	s.indexTask(task)
	log.Printf("[CreateTask] Task %s created for deal %s", task.ID, dealID)
	return &task, nil
}

// GetTask fetches one task by id.
func (s *TaskService) GetTask(taskID string) (*model.Task, error) {
	var task model.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "task", ID: taskID}
		}
		log.Printf("[GetTask] Error fetching task %s: %v", taskID, err)
		return nil, err
	}
	return &task, nil
}

// GetDealTasks lists all tasks of a deal.
func (s *TaskService) GetDealTasks(dealID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.Where("deal_id = ?", dealID).Order("created_at asc").Find(&tasks).Error; err != nil {
		log.Printf("[GetDealTasks] Error fetching tasks for deal %s: %v", dealID, err)
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies caller changes to a task, keeping the completion
// invariant: CompletedAt is set exactly when status reaches 'completed' and
// cleared when it leaves it.
func (s *TaskService) UpdateTask(taskID string, input TaskInput) (*model.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.validateTaskInput(input); err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	task.Phase = input.Phase
	task.Category = input.Category
	task.DueDate = input.DueDate
	task.AssignedTo = input.AssignedTo
	if input.Status != "" && input.Status != task.Status {
		applyStatus(task, input.Status)
	}

	if err := s.db.Save(task).Error; err != nil {
		log.Printf("[UpdateTask] Error updating task %s: %v", taskID, err)
		return nil, err
	}
	s.indexTask(*task)
	return task, nil
}

// applyStatus transitions a task's status and keeps CompletedAt in sync:
// set iff the status is the terminal completed value.
func applyStatus(task *model.Task, status string) {
	task.Status = status
	if status == StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}

// CompleteTask marks a task completed and stamps CompletedAt.
func (s *TaskService) CompleteTask(taskID string) (*model.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	applyStatus(task, StatusCompleted)
	if err := s.db.Save(task).Error; err != nil {
		log.Printf("[CompleteTask] Error completing task %s: %v", taskID, err)
		return nil, err
	}
	recordActivity(s.db, task.DealID, "", "task completed", "task", task.ID, nil)
	s.indexTask(*task)
	log.Printf("[CompleteTask] Task %s marked completed", taskID)
	return task, nil
}

// ReopenTask reverts a completed task: clearing the completion timestamp
// also reverts the status.
func (s *TaskService) ReopenTask(taskID string) (*model.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	applyStatus(task, StatusNotStarted)
	if err := s.db.Save(task).Error; err != nil {
		log.Printf("[ReopenTask] Error reopening task %s: %v", taskID, err)
		return nil, err
	}
	recordActivity(s.db, task.DealID, "", "task reopened", "task", task.ID, nil)
	s.indexTask(*task)
	log.Printf("[ReopenTask] Task %s reopened", taskID)
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(taskID string) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&model.Task{}, "id = ?", taskID).Error; err != nil {
		log.Printf("[DeleteTask] Error deleting task %s: %v", taskID, err)
		return err
	}
	recordActivity(s.db, task.DealID, "", "task deleted", "task", taskID, nil)
	return nil
}

// GroupDealTasks loads a deal's tasks plus the current taxonomy and owner
// sets and partitions them per the requested view mode.
func (s *TaskService) GroupDealTasks(dealID string, mode ViewMode, filters TaskFilters, dateDesc bool) ([]TaskGroup, error) {
	tasks, err := s.GetDealTasks(dealID)
	if err != nil {
		return nil, err
	}
	known, err := s.knownValues(tasks)
	if err != nil {
		return nil, err
	}
	return GroupTasks(tasks, mode, filters, known, dateDesc)
}

// knownValues assembles the group seeds: taxonomy values per namespace and
// the distinct assignees present in the task set.
func (s *TaskService) knownValues(tasks []model.Task) (KnownValues, error) {
	phases, err := s.taxonomy.ListValues(NamespacePhase)
	if err != nil {
		return KnownValues{}, err
	}
	categories, err := s.taxonomy.ListValues(NamespaceCategory)
	if err != nil {
		return KnownValues{}, err
	}

	seen := make(map[string]bool)
	var owners []string
	for _, task := range tasks {
		if task.AssignedTo != "" && !seen[task.AssignedTo] {
			seen[task.AssignedTo] = true
			owners = append(owners, task.AssignedTo)
		}
	}

	return KnownValues{
		Phases:     append(phases.Builtin, phases.Custom...),
		Categories: append(categories.Builtin, categories.Custom...),
		Owners:     owners,
	}, nil
}

// indexTask indexes a task in Elasticsearch for full-text search. Indexing
// is best-effort and never breaks the write that triggered it.
func (s *TaskService) indexTask(task model.Task) {
	if s.esClient == nil {
		return
	}

	doc := map[string]interface{}{
		"task_id":     task.ID,
		"deal_id":     task.DealID,
		"title":       task.Title,
		"description": task.Description,
		"phase":       task.Phase,
		"category":    task.Category,
		"status":      task.Status,
		"timestamp":   time.Now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("[indexTask] Error marshaling task %s for indexing: %v", task.ID, err)
		return
	}

	res, err := s.esClient.Index(
		taskIndex,
		bytes.NewReader(body),
		s.esClient.Index.WithDocumentID(task.ID),
		s.esClient.Index.WithContext(context.Background()),
	)
	if err != nil {
		log.Printf("[indexTask] Elasticsearch indexing error for task %s: %v", task.ID, err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("[indexTask] Elasticsearch indexing failed for task %s: %s", task.ID, res.String())
	}
}

// SearchTasks searches indexed tasks by free text over title and description.
func (s *TaskService) SearchTasks(query string) ([]map[string]interface{}, error) {
	if s.esClient == nil {
		return nil, fmt.Errorf("elasticsearch client is not initialized")
	}

	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "description"},
			},
		},
	}
	body, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(context.Background()),
		s.esClient.Search.WithIndex(taskIndex),
		s.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", res.String())
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hitsMap, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits structure in search response")
	}
	hitsArray, ok := hitsMap["hits"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid hits array in search response")
	}

	var tasks []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		tasks = append(tasks, source)
	}
	return tasks, nil
}
