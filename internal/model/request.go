package model

import "time"

// Machine request statuses.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestContacted = "contacted"
)

// MachineRequest is a buyer's request for a published machine, routed to
// the machine's owning supplier.
type MachineRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BuyerID      uint      `gorm:"not null;index" json:"buyerId"`
	MachineID    uint      `gorm:"not null;index" json:"machineId"`
	SellerID     uint      `gorm:"not null;index" json:"sellerId"`
	Status       string    `gorm:"size:16;not null;default:pending" json:"status"`
	BuyerMessage string    `json:"buyerMessage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Buyer   User    `gorm:"foreignKey:BuyerID" json:"-"`
	Seller  User    `gorm:"foreignKey:SellerID" json:"-"`
	Machine Machine `gorm:"foreignKey:MachineID" json:"-"`
}
