package model

import "time"

// User roles. "buyer" and "msme" are two labels for the same buyer class;
// "supplier" owns catalog listings and verification drafts.
const (
	RoleBuyer    = "buyer"
	RoleMSME     = "msme"
	RoleSupplier = "supplier"
)

// IsBuyerRole reports whether the role belongs to the buyer class.
func IsBuyerRole(role string) bool {
	return role == RoleBuyer || role == RoleMSME
}

// RolesMatch reports whether a user's role satisfies a required role,
// treating buyer and msme as equivalent.
func RolesMatch(required, actual string) bool {
	if required == "" || actual == "" {
		return false
	}
	if required == actual {
		return true
	}
	return IsBuyerRole(required) && IsBuyerRole(actual)
}

// User is a registered account (buyer, msme or supplier).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Role         string    `gorm:"size:16;not null;index" json:"role"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Email        string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:32;not null" json:"phone"`
	CompanyName  string    `gorm:"size:256" json:"companyName"`
	Industry     string    `gorm:"size:128" json:"industry"`
	SubIndustry  string    `gorm:"size:128" json:"subIndustry"`
	Location     string    `gorm:"size:256" json:"location"`
	GSTIN        string    `gorm:"size:32" json:"gstin"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicProfile is the subset of a user shared with counterparties in
// conversations, requests and leads.
type PublicProfile struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
}

// Public returns the user's shareable profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Name:        u.Name,
		CompanyName: u.CompanyName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
	}
}

// Label returns the name shown to counterparties in notifications.
func (u *User) Label() string {
	if u.CompanyName != "" {
		return u.CompanyName
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "A user"
}
