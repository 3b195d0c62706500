package services

import (
	"encoding/json"
	"log"

	model "github.com/dvornik/dealdesk/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordActivity appends one audit trail entry for a deal. It is
// fire-and-forget: failures are logged and swallowed so the mutation being
// described never fails because its audit entry could not be written.
func recordActivity(db *gorm.DB, dealID, userID, action, entityType, entityID string, details map[string]interface{}) {
	entry := model.ActivityLog{
		DealID:     dealID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    datatypes.JSON(marshalDetails(details)),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[recordActivity] Error appending activity %q for deal %s: %v", action, dealID, err)
	}
}

// Helper to marshal details into JSON bytes.
func marshalDetails(details map[string]interface{}) []byte {
	if details == nil {
		return []byte("{}")
	}
	bytes, err := json.Marshal(details)
	if err != nil {
		log.Printf("[marshalDetails] Error marshaling details: %v", err)
		return []byte("{}")
	}
	return bytes
}
