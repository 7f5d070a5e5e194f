package model

import (
	"strings"
	"time"
)

// Machine conditions.
const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionRefurbished = "refurbished"
)

// NormalizeCondition maps arbitrary input onto the condition enum,
// defaulting to "new".
func NormalizeCondition(value string) string {
	switch value {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return value
	default:
		return ConditionNew
	}
}

// Spec is a single key/value technical specification.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SpecList and StringList are stored as JSON columns; nothing queries
// inside them.
type SpecList []Spec

type StringList []string

// CleanStrings drops blank entries and trims the rest.
func CleanStrings(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CleanSpecs drops incomplete specs and trims key and value.
func CleanSpecs(specs []Spec) SpecList {
	out := make(SpecList, 0, len(specs))
	for _, spec := range specs {
		key := strings.TrimSpace(spec.Key)
		value := strings.TrimSpace(spec.Value)
		if key != "" && value != "" {
			out = append(out, Spec{Key: key, Value: value})
		}
	}
	return out
}

// Machine is a published, buyer-visible catalog listing. It is immutable
// once created; there is no update endpoint.
type Machine struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:256;not null" json:"name"`
	Slug           string     `gorm:"size:256;uniqueIndex;not null" json:"slug"`
	Description    string     `gorm:"not null" json:"description"`
	IndustrySlug   string     `gorm:"size:128;not null;index" json:"industrySlug"`
	SubIndustrySlug string    `gorm:"size:128;not null;index" json:"subIndustrySlug"`
	OwnerUserID    uint       `gorm:"index" json:"ownerUserId"`
	Manufacturer   string     `gorm:"size:256" json:"manufacturer"`
	Verified       bool       `gorm:"not null;default:false" json:"verified"`
	Features       StringList `gorm:"serializer:json" json:"features"`
	Specs          SpecList   `gorm:"serializer:json" json:"specs"`
	Photos         StringList `gorm:"serializer:json" json:"photos"`
	MinOrderQty    string     `gorm:"size:64" json:"minOrderQty"`
	LeadTimeDays   string     `gorm:"size:64" json:"leadTimeDays"`
	Condition      string     `gorm:"size:16;default:new" json:"condition"`
	PriceRange     string     `gorm:"size:128" json:"priceRange"`
	WarrantyMonths *int       `json:"warrantyMonths"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
