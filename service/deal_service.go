package services

import (
	"errors"
	"log"
	"strings"
	"time"

	model "github.com/dvornik/dealdesk/models"
	"gorm.io/gorm"
)

// dealStatuses is the closed lifecycle vocabulary for deals. Unlike task
// taxonomies it is not user-extensible.
var dealStatuses = []string{"open", "active", "completed", "cancelled"}

// DealService handles deal lifecycle logic.
type DealService struct {
	db *gorm.DB
}

// NewDealService initializes the service with a database handle.
func NewDealService(db *gorm.DB) *DealService {
	return &DealService{db: db}
}

// DealInput carries caller-provided deal fields. Updates are full replaces:
// every field is taken from the input, so omitting StartDate clears it (and
// the derived end date) rather than keeping the old value.
type DealInput struct {
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date"`
}

func validateDealStatus(status string) error {
	for _, s := range dealStatuses {
		if s == status {
			return nil
		}
	}
	return &ValidationError{Field: "status", Message: "status must be one of " + strings.Join(dealStatuses, ", ")}
}

// CreateDeal creates a deal. The end date is derived from the start date
// plus the review window; it is never taken from the caller.
func (s *DealService) CreateDeal(input DealInput) (*model.Deal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	status := input.Status
	if status == "" {
		status = "open"
	}
	if err := validateDealStatus(status); err != nil {
		return nil, err
	}

	deal := model.Deal{
		Name:      strings.TrimSpace(input.Name),
		Status:    status,
		StartDate: input.StartDate,
	}
	deal.EndDate = deal.DerivedEndDate()

	if err := s.db.Create(&deal).Error; err != nil {
		log.Printf("[CreateDeal] Error saving deal: %v", err)
		return nil, err
	}
	log.Printf("[CreateDeal] Deal %s created", deal.ID)
	return &deal, nil
}

// GetDeal fetches one deal by id.
func (s *DealService) GetDeal(dealID string) (*model.Deal, error) {
	var deal model.Deal
	if err := s.db.First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "deal", ID: dealID}
		}
		log.Printf("[GetDeal] Error fetching deal %s: %v", dealID, err)
		return nil, err
	}
	return &deal, nil
}

// GetAllDeals lists every deal, newest first.
func (s *DealService) GetAllDeals() ([]model.Deal, error) {
	var deals []model.Deal
	if err := s.db.Order("created_at desc").Find(&deals).Error; err != nil {
		log.Printf("[GetAllDeals] Error fetching deals: %v", err)
		return nil, err
	}
	return deals, nil
}

// applyDealInput replaces a deal's fields from caller input and recomputes
// the derived end date. All fields are replaced uniformly, so name and
// status must be valid on every update.
func applyDealInput(deal *model.Deal, input DealInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	if err := validateDealStatus(input.Status); err != nil {
		return err
	}
	deal.Name = name
	deal.Status = input.Status
	deal.StartDate = input.StartDate
	deal.EndDate = deal.DerivedEndDate()
	return nil
}

// UpdateDeal replaces a deal's fields with the caller's input. The end date
// is recomputed from the new start date, never taken from the caller.
func (s *DealService) UpdateDeal(dealID string, input DealInput) (*model.Deal, error) {
	deal, err := s.GetDeal(dealID)
	if err != nil {
		return nil, err
	}
	if err := applyDealInput(deal, input); err != nil {
		return nil, err
	}

	if err := s.db.Save(deal).Error; err != nil {
		log.Printf("[UpdateDeal] Error updating deal %s: %v", dealID, err)
		return nil, err
	}
	log.Printf("[UpdateDeal] Deal %s updated", dealID)
	return deal, nil
}

// DeleteDeal removes a deal together with its tasks and activity trail.
func (s *DealService) DeleteDeal(dealID string) error {
	if _, err := s.GetDeal(dealID); err != nil {
		return err
	}
	if err := s.db.Where("deal_id = ?", dealID).Delete(&model.Task{}).Error; err != nil {
		log.Printf("[DeleteDeal] Error deleting tasks for deal %s: %v", dealID, err)
		return err
	}
	if err := s.db.Where("deal_id = ?", dealID).Delete(&model.ActivityLog{}).Error; err != nil {
		log.Printf("[DeleteDeal] Error deleting activity for deal %s: %v", dealID, err)
		return err
	}
	if err := s.db.Delete(&model.Deal{}, "id = ?", dealID).Error; err != nil {
		log.Printf("[DeleteDeal] Error deleting deal %s: %v", dealID, err)
		return err
	}
	log.Printf("[DeleteDeal] Deal %s deleted", dealID)
	return nil
}

// GetDealActivity lists the activity trail for a deal, newest first.
func (s *DealService) GetDealActivity(dealID string) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	if err := s.db.Where("deal_id = ?", dealID).Order("created_at desc").Find(&entries).Error; err != nil {
		log.Printf("[GetDealActivity] Error fetching activity for deal %s: %v", dealID, err)
		return nil, err
	}
	return entries, nil
}
