package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const RunStatusCompleted = "completed"

// ReconciliationRun summarizes one auto-match pass.
type ReconciliationRun struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TriggeredByID   *uint          `json:"triggered_by_id"`
	TotalCandidates int            `json:"total_candidates"`
	MatchedCount    int            `json:"matched_count"`
	ConflictCount   int            `json:"conflict_count"`
	FailedCount     int            `json:"failed_count"`
	Status          string         `gorm:"size:20" json:"status"`
	Details         datatypes.JSON `json:"details"`
	StartedAt       time.Time      `json:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
}

// TableName overrides the table name
func (ReconciliationRun) TableName() string {
	return "reconciliation_runs"
}
