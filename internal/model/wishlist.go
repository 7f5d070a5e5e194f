package model

import "time"

// Wishlist is an MSME buyer's wishlist entry. Distinct from SavedMachine:
// the two surfaces evolved separately in the product and report duplicate
// inserts differently.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"not null;uniqueIndex:idx_wishlist_buyer_machine" json:"buyerId"`
	MachineID uint      `gorm:"not null;uniqueIndex:idx_wishlist_buyer_machine" json:"machineId"`
	CreatedAt time.Time `json:"addedAt"`

	Machine Machine `gorm:"foreignKey:MachineID" json:"machine"`
}
