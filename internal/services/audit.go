package services

import (
	"encoding/json"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
)

// AuditEntry is the write-side view of one audit event.
type AuditEntry struct {
	EventType   models.EventType
	ActorID     string
	TargetID    string
	ChallengeID string
	IPAddress   string
	Details     map[string]interface{}
}

func (e AuditEntry) row() models.AuditLog {
	details := "{}"
	if e.Details != nil {
		if b, err := json.Marshal(e.Details); err == nil {
			details = string(b)
		}
	}
	row := models.AuditLog{
		ID:        utils.GenerateID(),
		CreatedAt: time.Now(),
		EventType: e.EventType,
		IPAddress: e.IPAddress,
		Details:   details,
	}
	if e.ActorID != "" {
		row.ActorID = &e.ActorID
	}
	if e.TargetID != "" {
		row.TargetID = &e.TargetID
	}
	if e.ChallengeID != "" {
		row.ChallengeID = &e.ChallengeID
	}
	return row
}

// RecordAudit writes an audit row inside the caller's transaction, so
// the event commits or rolls back together with the mutation it
// describes.
func RecordAudit(tx *gorm.DB, entry AuditEntry) error {
	row := entry.row()
	return tx.Create(&row).Error
}

// RecordAuditAsync writes an audit row on its own connection. Used for
// events that must survive a rolled-back transaction (manipulation
// blocks) and for observers that must never sit on the scoring path.
// Failure here is logged, never propagated.
func RecordAuditAsync(entry AuditEntry) {
	row := entry.row()
	if err := database.DB.Create(&row).Error; err != nil {
		logger.Error().Err(err).Str("event_type", string(entry.EventType)).Msg("Failed to write audit event")
	}
}
