package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"induslink-backend/internal/model"
	"induslink-backend/internal/slug"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// MachineFilter narrows public catalog listings.
type MachineFilter struct {
	IndustrySlug    string
	SubIndustrySlug string
	VerifiedOnly    bool
}

// Store defines the catalog and industry operations shared by the public
// API and the verification workflow.
type Store interface {
	DB() *gorm.DB

	ListIndustries(ctx context.Context) ([]model.Industry, error)
	GetIndustry(ctx context.Context, slug string) (*model.Industry, error)

	// CreateMachine assigns a unique catalog slug derived from the
	// machine's name and persists the listing.
	CreateMachine(ctx context.Context, m *model.Machine) error
	ListMachines(ctx context.Context, f MachineFilter) ([]model.Machine, error)
	ListMachinesByOwner(ctx context.Context, ownerID uint) ([]model.Machine, error)
	// GetMachine resolves a machine by numeric ID or by slug.
	GetMachine(ctx context.Context, idOrSlug string) (*model.Machine, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListIndustries(ctx context.Context) ([]model.Industry, error) {
	var industries []model.Industry
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&industries).Error; err != nil {
		return nil, err
	}
	return industries, nil
}

func (s *gormStore) GetIndustry(ctx context.Context, industrySlug string) (*model.Industry, error) {
	var industry model.Industry
	err := s.db.WithContext(ctx).First(&industry, "slug = ?", industrySlug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &industry, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unique, err := UniqueMachineSlug(tx, m.Name)
		if err != nil {
			return fmt.Errorf("failed to derive machine slug: %w", err)
		}
		m.Slug = unique
		return tx.Create(m).Error
	})
}

func (s *gormStore) ListMachines(ctx context.Context, f MachineFilter) ([]model.Machine, error) {
	q := s.db.WithContext(ctx).Model(&model.Machine{})
	if f.IndustrySlug != "" {
		q = q.Where("industry_slug = ?", f.IndustrySlug)
	}
	if f.SubIndustrySlug != "" {
		q = q.Where("sub_industry_slug = ?", f.SubIndustrySlug)
	}
	if f.VerifiedOnly {
		q = q.Where("verified = ?", true)
	}
	var machines []model.Machine
	if err := q.Order("created_at DESC").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (s *gormStore) ListMachinesByOwner(ctx context.Context, ownerID uint) ([]model.Machine, error) {
	var machines []model.Machine
	err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (s *gormStore) GetMachine(ctx context.Context, idOrSlug string) (*model.Machine, error) {
	q := s.db.WithContext(ctx)
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		q = q.Where("id = ? OR slug = ?", uint(id), idOrSlug)
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}
	var machine model.Machine
	err := q.First(&machine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

// UniqueMachineSlug derives a catalog slug from a machine name, retrying
// with numeric suffixes until it is free. Both the direct creation path and
// the verification approval path go through here so the two share one
// uniqueness guarantee.
func UniqueMachineSlug(tx *gorm.DB, name string) (string, error) {
	return slug.Unique(name, func(candidate string) (bool, error) {
		var count int64
		if err := tx.Model(&model.Machine{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
}
