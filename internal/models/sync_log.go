package models

import "time"

type SyncAction string

const (
	ActionQueued           SyncAction = "queued"
	ActionSyncStart        SyncAction = "sync-start"
	ActionSyncSuccess      SyncAction = "sync-success"
	ActionSyncFail         SyncAction = "sync-fail"
	ActionConflictDetected SyncAction = "conflict-detected"
	ActionConflictResolved SyncAction = "conflict-resolved"
)

// SyncLogCap bounds the log: once exceeded, oldest entries are dropped.
const SyncLogCap = 100

// SyncLogEntry is one append-only lifecycle event for a reservation.
type SyncLogEntry struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ReservationID string     `gorm:"not null;index" json:"reservation_id"`
	Action        SyncAction `gorm:"type:varchar(20);not null" json:"action"`
	Detail        string     `json:"detail"`
	CreatedAt     time.Time  `json:"created_at"`
}
