package model

import "time"

// Message is a peer-to-peer text message between a buyer and a supplier,
// optionally anchored to a machine request. This is a separate mechanism
// from the verification draft's embedded conversation: any two registered
// users may exchange Messages, while draft messages are restricted to the
// admin and the owning supplier.
type Message struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SenderID         uint      `gorm:"not null;index" json:"senderId"`
	RecipientID      uint      `gorm:"not null;index" json:"recipientId"`
	MachineRequestID *uint     `json:"machineRequestId"`
	Content          string    `gorm:"not null" json:"content"`
	SenderRole       string    `gorm:"size:16;not null" json:"senderRole"`
	Read             bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt        time.Time `json:"createdAt"`

	Sender    User `gorm:"foreignKey:SenderID" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}
