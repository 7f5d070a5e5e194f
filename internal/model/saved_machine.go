package model

import "time"

// SavedMachine is a buyer's bookmark of a catalog listing. A buyer can
// save a given machine at most once.
type SavedMachine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"not null;uniqueIndex:idx_saved_buyer_machine" json:"buyerId"`
	MachineID uint      `gorm:"not null;uniqueIndex:idx_saved_buyer_machine" json:"machineId"`
	CreatedAt time.Time `json:"createdAt"`

	Machine Machine `gorm:"foreignKey:MachineID" json:"machine"`
}
