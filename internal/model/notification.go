package model

import "time"

// Notification types. The enum is closed; nothing else is ever written.
const (
	NotifRequestReceived = "request_received"
	NotifRequestApproved = "request_approved"
	NotifRequestRejected = "request_rejected"
	NotifNewMessage      = "new_message"
	NotifMachineVerified = "machine_verified"
	NotifMachineRejected = "machine_rejected"
	NotifAdminQuestion   = "admin_question"
)

// Notification is an append-only event record addressed to one user.
// Read is the only field that ever changes after creation.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Priority  bool      `gorm:"not null;default:false" json:"priority"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Message   string    `gorm:"not null" json:"message"`
	RelatedID *uint     `json:"relatedId"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
