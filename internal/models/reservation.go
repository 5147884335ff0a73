package models

import "time"

type SyncStatus string

const (
	StatusPending  SyncStatus = "pending"
	StatusSyncing  SyncStatus = "syncing"
	StatusSynced   SyncStatus = "synced"
	StatusConflict SyncStatus = "conflict"
	StatusError    SyncStatus = "error"
)

type Channel string

const (
	ChannelBooking Channel = "booking"
	ChannelExpedia Channel = "expedia"
	ChannelAgoda   Channel = "agoda"
	ChannelDirect  Channel = "direct"
	ChannelPhone   Channel = "phone"
	ChannelWalkin  Channel = "walkin"
)

// OfflineReservation is a reservation captured while the channel-manager
// connection was unavailable. It is owned by the sync queue until synced.
type OfflineReservation struct {
	LocalID          string     `gorm:"primaryKey;type:uuid" json:"local_id"`
	ConfirmationCode string     `gorm:"not null" json:"confirmation_code"`
	GuestName        string     `gorm:"not null" json:"guest_name"`
	GuestEmail       string     `json:"guest_email"`
	GuestPhone       string     `json:"guest_phone"`
	RoomCategory     string     `gorm:"not null" json:"room_category"`
	CheckIn          time.Time  `gorm:"type:date;not null" json:"check_in"`
	CheckOut         time.Time  `gorm:"type:date;not null" json:"check_out"`
	Adults           int        `gorm:"not null;default:1" json:"adults"`
	Children         int        `json:"children"`
	TotalAmount      float64    `json:"total_amount"`
	Notes            string     `json:"notes"`
	SyncStatus       SyncStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"sync_status"`
	SyncError        string     `json:"sync_error,omitempty"`
	CreatedOffline   bool       `gorm:"not null;default:true" json:"created_offline"`
	SyncedAt         *time.Time `json:"synced_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ChannelReservation is a reservation reported by an external distribution
// channel. It is external truth: the reconciler reads it, never edits it.
type ChannelReservation struct {
	ChannelID        string    `gorm:"primaryKey" json:"channel_id"`
	Channel          Channel   `gorm:"type:varchar(20);not null" json:"channel"`
	ConfirmationCode string    `json:"confirmation_code"`
	GuestName        string    `json:"guest_name"`
	RoomCategory     string    `gorm:"not null" json:"room_category"`
	CheckIn          time.Time `gorm:"type:date;not null" json:"check_in"`
	CheckOut         time.Time `gorm:"type:date;not null" json:"check_out"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
