package model

import "time"

// Verification draft statuses.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Conversation message senders.
const (
	SenderAdmin  = "admin"
	SenderSeller = "seller"
)

// MachineVerification is a supplier-submitted machine draft awaiting
// administrator review. Approval publishes a verified Machine and records
// its ID back on the draft; rejection stores a reason. The conversation is
// a child table, append-only, ordered by insertion.
type MachineVerification struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	SellerID        uint                  `gorm:"not null;index" json:"sellerId"`
	MachineID       *uint                 `json:"machineId"`
	Name            string                `gorm:"size:256;not null" json:"name"`
	Slug            string                `gorm:"size:256;not null;index" json:"slug"`
	Description     string                `gorm:"not null" json:"description"`
	Manufacturer    string                `gorm:"size:256;not null" json:"manufacturer"`
	IndustrySlug    string                `gorm:"size:128;not null" json:"industrySlug"`
	SubIndustrySlug string                `gorm:"size:128;not null" json:"subIndustrySlug"`
	Features        StringList            `gorm:"serializer:json" json:"features"`
	Specs           SpecList              `gorm:"serializer:json" json:"specs"`
	Photos          StringList            `gorm:"serializer:json" json:"photos"`
	MinOrderQty     string                `gorm:"size:64" json:"minOrderQty"`
	LeadTimeDays    string                `gorm:"size:64" json:"leadTimeDays"`
	Condition       string                `gorm:"size:16;default:new" json:"condition"`
	PriceRange      string                `gorm:"size:128" json:"priceRange"`
	WarrantyMonths  *int                  `json:"warrantyMonths"`
	Status          string                `gorm:"size:16;not null;default:pending;index" json:"status"`
	RejectionReason string                `json:"rejectionReason"`
	Messages        []VerificationMessage `gorm:"foreignKey:VerificationID" json:"messages"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`

	Seller User `gorm:"foreignKey:SellerID" json:"-"`
}

// AwaitingResponse reports whether the ball is in the seller's court:
// true exactly when the most recent conversation message is admin-authored.
// Derived on read, never stored.
func (v *MachineVerification) AwaitingResponse() bool {
	if len(v.Messages) == 0 {
		return false
	}
	return v.Messages[len(v.Messages)-1].Sender == SenderAdmin
}

// VerificationMessage is one entry in a draft's admin/seller conversation.
// Messages are never edited or deleted after creation.
type VerificationMessage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VerificationID uint      `gorm:"not null;index" json:"verificationId"`
	Sender         string    `gorm:"size:16;not null" json:"sender"`
	Content        string    `gorm:"not null" json:"content"`
	Priority       bool      `gorm:"not null;default:false" json:"priority"`
	CreatedAt      time.Time `json:"createdAt"`
}
