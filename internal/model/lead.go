package model

import "time"

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadClosed    = "closed"
)

// Lead is a buyer's expression of interest in a machine, visible to the
// machine's owning supplier.
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"not null;index" json:"buyerId"`
	MSMEID    *uint     `gorm:"column:msme_id" json:"msmeId"`
	MachineID uint      `gorm:"not null;index" json:"machineId"`
	Message   string    `json:"message"`
	Status    string    `gorm:"size:16;not null;default:new" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Buyer   User    `gorm:"foreignKey:BuyerID" json:"-"`
	Machine Machine `gorm:"foreignKey:MachineID" json:"-"`
}
