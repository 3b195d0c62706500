package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	model "github.com/dvornik/dealdesk/models"
	"gorm.io/gorm"
)

// TemplateService handles checklist templates, their items and template
// application onto deals.
type TemplateService struct {
	db       *gorm.DB
	taxonomy *TaxonomyService
	tasks    *TaskService
}

// NewTemplateService initializes the service with a database handle, the
// taxonomy store used for authoring-time validation, and the task service
// used to index generated tasks.
func NewTemplateService(db *gorm.DB, taxonomy *TaxonomyService, tasks *TaskService) *TemplateService {
	return &TemplateService{db: db, taxonomy: taxonomy, tasks: tasks}
}

// TemplateInput carries caller-provided template fields.
type TemplateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
	OwnerID     string `json:"owner_id"`
}

// TemplateItemInput carries caller-provided template item fields.
type TemplateItemInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Phase           string `json:"phase"`
	Category        string `json:"category"`
	DayOffset       int    `json:"day_offset"`
	DefaultAssignee string `json:"default_assignee"`
}

// CreateTemplate creates a named template.
func (s *TemplateService) CreateTemplate(input TemplateInput) (*model.DiligenceTemplate, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	template := model.DiligenceTemplate{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsDefault:   input.IsDefault,
		OwnerID:     input.OwnerID,
	}
	if err := s.db.Create(&template).Error; err != nil {
		log.Printf("[CreateTemplate] Error saving template: %v", err)
		return nil, err
	}
	log.Printf("[CreateTemplate] Template %s created", template.ID)
	return &template, nil
}

// GetTemplate fetches one template by id.
func (s *TemplateService) GetTemplate(templateID string) (*model.DiligenceTemplate, error) {
	var template model.DiligenceTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "template", ID: templateID}
		}
		log.Printf("[GetTemplate] Error fetching template %s: %v", templateID, err)
		return nil, err
	}
	return &template, nil
}

// GetAllTemplates lists every template.
func (s *TemplateService) GetAllTemplates() ([]model.DiligenceTemplate, error) {
	var templates []model.DiligenceTemplate
	if err := s.db.Order("created_at desc").Find(&templates).Error; err != nil {
		log.Printf("[GetAllTemplates] Error fetching templates: %v", err)
		return nil, err
	}
	return templates, nil
}

// GetDefaultTemplate returns the template preselected for new deals. When
// several carry the default flag the most recently updated wins.
func (s *TemplateService) GetDefaultTemplate() (*model.DiligenceTemplate, error) {
	var template model.DiligenceTemplate
	err := s.db.Where("is_default = ?", true).Order("updated_at desc").First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "default template", ID: ""}
	}
	if err != nil {
		log.Printf("[GetDefaultTemplate] Error fetching default template: %v", err)
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate applies caller changes to a template.
func (s *TemplateService) UpdateTemplate(templateID string, input TemplateInput) (*model.DiligenceTemplate, error) {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		template.Name = strings.TrimSpace(input.Name)
	}
	template.Description = input.Description
	template.IsDefault = input.IsDefault
	if err := s.db.Save(template).Error; err != nil {
		log.Printf("[UpdateTemplate] Error updating template %s: %v", templateID, err)
		return nil, err
	}
	return template, nil
}

// DeleteTemplate removes a template together with all of its items, so no
// dangling item references survive.
func (s *TemplateService) DeleteTemplate(templateID string) error {
	if _, err := s.GetTemplate(templateID); err != nil {
		return err
	}
	if err := s.db.Where("template_id = ?", templateID).Delete(&model.TemplateItem{}).Error; err != nil {
		log.Printf("[DeleteTemplate] Error deleting items for template %s: %v", templateID, err)
		return err
	}
	if err := s.db.Delete(&model.DiligenceTemplate{}, "id = ?", templateID).Error; err != nil {
		log.Printf("[DeleteTemplate] Error deleting template %s: %v", templateID, err)
		return err
	}
	log.Printf("[DeleteTemplate] Template %s and its items deleted", templateID)
	return nil
}

func (s *TemplateService) validateItemInput(input TemplateItemInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if input.DayOffset < 0 || input.DayOffset > model.MaxDayOffset {
		return &ValidationError{Field: "day_offset", Message: fmt.Sprintf("day_offset must be between 0 and %d", model.MaxDayOffset)}
	}
	if input.Phase != "" && !s.taxonomy.IsKnown(NamespacePhase, input.Phase) {
		return &ValidationError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", input.Phase)}
	}
	if input.Category != "" && !s.taxonomy.IsKnown(NamespaceCategory, input.Category) {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", input.Category)}
	}
	return nil
}

// AddTemplateItem appends a blueprint row to a template. Taxonomy values are
// validated here, at authoring time; application copies them verbatim.
func (s *TemplateService) AddTemplateItem(templateID string, input TemplateItemInput) (*model.TemplateItem, error) {
	if _, err := s.GetTemplate(templateID); err != nil {
		return nil, err
	}
	if err := s.validateItemInput(input); err != nil {
		return nil, err
	}
	item := model.TemplateItem{
		TemplateID:      templateID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Phase:           input.Phase,
		Category:        input.Category,
		DayOffset:       input.DayOffset,
		DefaultAssignee: input.DefaultAssignee,
	}
	if err := s.db.Create(&item).Error; err != nil {
		log.Printf("[AddTemplateItem] Error saving item for template %s: %v", templateID, err)
		return nil, err
	}
	return &item, nil
}

// GetTemplateItems lists the items of a template.
func (s *TemplateService) GetTemplateItems(templateID string) ([]model.TemplateItem, error) {
	if _, err := s.GetTemplate(templateID); err != nil {
		return nil, err
	}
	var items []model.TemplateItem
	if err := s.db.Where("template_id = ?", templateID).Order("day_offset asc").Find(&items).Error; err != nil {
		log.Printf("[GetTemplateItems] Error fetching items for template %s: %v", templateID, err)
		return nil, err
	}
	return items, nil
}

// UpdateTemplateItem applies caller changes to one item.
func (s *TemplateService) UpdateTemplateItem(itemID string, input TemplateItemInput) (*model.TemplateItem, error) {
	var item model.TemplateItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "template item", ID: itemID}
		}
		log.Printf("[UpdateTemplateItem] Error fetching item %s: %v", itemID, err)
		return nil, err
	}
	if err := s.validateItemInput(input); err != nil {
		return nil, err
	}
	item.Title = strings.TrimSpace(input.Title)
	item.Description = input.Description
	item.Phase = input.Phase
	item.Category = input.Category
	item.DayOffset = input.DayOffset
	item.DefaultAssignee = input.DefaultAssignee
	if err := s.db.Save(&item).Error; err != nil {
		log.Printf("[UpdateTemplateItem] Error updating item %s: %v", itemID, err)
		return nil, err
	}
	return &item, nil
}

// DeleteTemplateItem removes one item.
func (s *TemplateService) DeleteTemplateItem(itemID string) error {
	result := s.db.Delete(&model.TemplateItem{}, "id = ?", itemID)
	if result.Error != nil {
		log.Printf("[DeleteTemplateItem] Error deleting item %s: %v", itemID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "template item", ID: itemID}
	}
	return nil
}
