package model

import "time"

// SubIndustry is a classification entry embedded in its parent industry.
type SubIndustry struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// SubIndustryList is stored as a JSON column.
type SubIndustryList []SubIndustry

// Industry is a top-level machine classification browsable in the catalog.
type Industry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:128;not null" json:"name"`
	Slug          string          `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description   string          `json:"description"`
	SubIndustries SubIndustryList `gorm:"serializer:json" json:"subIndustries"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
