package models

import "time"

type ConflictType string

const (
	ConflictOverbooking ConflictType = "overbooking"
	ConflictDateOverlap ConflictType = "date-overlap"
)

type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "high"
	SeverityMedium ConflictSeverity = "medium"
)

type Resolution string

const (
	ResolveKeepLocal  Resolution = "keep-local"
	ResolveKeepRemote Resolution = "keep-remote"
	ResolveMerge      Resolution = "merge"
	ResolveDismiss    Resolution = "dismiss"
)

// SyncConflict records a collision between one local and one channel
// reservation. Conflicts are never deleted; resolving one stamps Resolution
// and ResolvedAt so the audit trail survives.
type SyncConflict struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	LocalID     string           `gorm:"not null;index" json:"local_id"`
	ChannelID   string           `gorm:"not null;index" json:"channel_id"`
	Type        ConflictType     `gorm:"type:varchar(20);not null" json:"type"`
	Severity    ConflictSeverity `gorm:"type:varchar(10);not null" json:"severity"`
	Description string           `json:"description"`
	Resolution  Resolution       `gorm:"type:varchar(20)" json:"resolution,omitempty"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Resolved reports whether the conflict has already been acted on.
func (c *SyncConflict) Resolved() bool {
	return c.Resolution != ""
}
