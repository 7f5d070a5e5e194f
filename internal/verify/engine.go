// Package verify implements the machine verification workflow: suppliers
// submit listing drafts, an administrator reviews them in a queue, and an
// approval publishes a verified catalog entry while a rejection records a
// reason. A draft carries its own admin/seller conversation, separate from
// the general peer-to-peer messaging system.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"induslink-backend/internal/model"
	"induslink-backend/internal/notification"
	"induslink-backend/internal/slug"
	"induslink-backend/internal/store"
)

// Workflow errors, mapped to HTTP statuses by the API layer.
var (
	ErrNotFound   = errors.New("verification not found")
	ErrNotOwner   = errors.New("draft belongs to another supplier")
	ErrNotPending = errors.New("draft is no longer pending")
	// ErrConflict marks a transition attempt out of a terminal state, or a
	// conversation append on an approved draft.
	ErrConflict = errors.New("draft is in a terminal state")
)

// ValidationError carries the itemized rule violations of a submission.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// messagePreviewLimit bounds the notification preview of an admin question.
const messagePreviewLimit = 220

// Engine orchestrates the draft lifecycle against the shared database.
// Notifications are emitted after the primary write commits and are never
// allowed to fail a transition.
type Engine struct {
	db       *gorm.DB
	notifier notification.Notifier
}

// NewEngine creates a verification workflow engine.
func NewEngine(db *gorm.DB, notifier notification.Notifier) *Engine {
	return &Engine{db: db, notifier: notifier}
}

// SubmitInput is the supplier-provided draft content.
type SubmitInput struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Manufacturer    string       `json:"manufacturer"`
	IndustrySlug    string       `json:"industrySlug"`
	SubIndustrySlug string       `json:"subIndustrySlug"`
	Features        []string     `json:"features"`
	Specs           []model.Spec `json:"specs"`
	Photos          []string     `json:"photos"`
	MinOrderQty     string       `json:"minOrderQty"`
	LeadTimeDays    string       `json:"leadTimeDays"`
	Condition       string       `json:"condition"`
	PriceRange      string       `json:"priceRange"`
	WarrantyMonths  *int         `json:"warrantyMonths"`
}

func (in *SubmitInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.IndustrySlug = strings.TrimSpace(in.IndustrySlug)
	in.SubIndustrySlug = strings.TrimSpace(in.SubIndustrySlug)
	in.MinOrderQty = strings.TrimSpace(in.MinOrderQty)
	in.LeadTimeDays = strings.TrimSpace(in.LeadTimeDays)
	in.Condition = model.NormalizeCondition(strings.TrimSpace(in.Condition))
	in.PriceRange = strings.TrimSpace(in.PriceRange)
	if in.WarrantyMonths != nil && *in.WarrantyMonths < 0 {
		in.WarrantyMonths = nil
	}
}

func (in *SubmitInput) validate() []string {
	var details []string
	if len(in.Name) < 2 {
		details = append(details, "Machine name must be at least 2 characters")
	}
	if len(in.Description) < 5 {
		details = append(details, "Description must be at least 5 characters")
	}
	if len(in.Manufacturer) < 2 {
		details = append(details, "Manufacturer must be at least 2 characters")
	}
	if in.IndustrySlug == "" {
		details = append(details, "Industry is required")
	}
	if in.SubIndustrySlug == "" {
		details = append(details, "Sub-industry is required")
	}
	return details
}

// Submit validates the draft content and persists it with status pending
// and an empty conversation. Nothing is written on validation failure.
func (e *Engine) Submit(ctx context.Context, sellerID uint, in SubmitInput) (*model.MachineVerification, error) {
	in.normalize()
	if details := in.validate(); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	draft := model.MachineVerification{
		SellerID:        sellerID,
		Name:            in.Name,
		Slug:            slug.Draft(),
		Description:     in.Description,
		Manufacturer:    in.Manufacturer,
		IndustrySlug:    in.IndustrySlug,
		SubIndustrySlug: in.SubIndustrySlug,
		Features:        model.CleanStrings(in.Features),
		Specs:           model.CleanSpecs(in.Specs),
		Photos:          model.CleanStrings(in.Photos),
		MinOrderQty:     in.MinOrderQty,
		LeadTimeDays:    in.LeadTimeDays,
		Condition:       in.Condition,
		PriceRange:      in.PriceRange,
		WarrantyMonths:  in.WarrantyMonths,
		Status:          model.VerificationPending,
	}
	if err := e.db.WithContext(ctx).Create(&draft).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification draft: %w", err)
	}
	draft.Messages = []model.VerificationMessage{}
	return &draft, nil
}

// Get loads a draft with its conversation in append order.
func (e *Engine) Get(ctx context.Context, id uint) (*model.MachineVerification, error) {
	var draft model.MachineVerification
	err := e.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&draft, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// ListForSeller returns the supplier's own drafts, newest first.
func (e *Engine) ListForSeller(ctx context.Context, sellerID uint) ([]model.MachineVerification, error) {
	var drafts []model.MachineVerification
	err := e.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// ListQueue returns drafts for the admin review queue, optionally filtered
// by status, newest first.
func (e *Engine) ListQueue(ctx context.Context, status string) ([]model.MachineVerification, error) {
	q := e.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Seller")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var drafts []model.MachineVerification
	if err := q.Order("created_at DESC").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// Delete removes a supplier's own draft while it is still pending.
func (e *Engine) Delete(ctx context.Context, sellerID, id uint) error {
	draft, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	if draft.SellerID != sellerID {
		return ErrNotOwner
	}
	if draft.Status != model.VerificationPending {
		return ErrNotPending
	}
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("verification_id = ?", draft.ID).Delete(&model.VerificationMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.MachineVerification{}, draft.ID).Error
	})
}

// ApproveResult reports the outcome of an approval action.
type ApproveResult struct {
	Draft           *model.MachineVerification
	Machine         *model.Machine
	AlreadyApproved bool
}

// Approve publishes a pending draft as a verified catalog entry. The
// machine insert and the draft's status flip happen in one transaction,
// with the flip as a conditional update on status so that a concurrent
// approval cannot publish twice: the loser of the race observes zero
// affected rows and rolls its machine back. Re-approving an approved draft
// is an idempotent no-op; approving a rejected draft is a conflict.
func (e *Engine) Approve(ctx context.Context, id uint) (*ApproveResult, error) {
	draft, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch draft.Status {
	case model.VerificationApproved:
		return e.alreadyApproved(ctx, draft)
	case model.VerificationRejected:
		return nil, ErrConflict
	}

	machine := machineFromDraft(draft)
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unique, err := store.UniqueMachineSlug(tx, draft.Name)
		if err != nil {
			return fmt.Errorf("failed to derive catalog slug: %w", err)
		}
		machine.Slug = unique
		if err := tx.Create(machine).Error; err != nil {
			return fmt.Errorf("failed to publish machine: %w", err)
		}

		res := tx.Model(&model.MachineVerification{}).
			Where("id = ? AND status = ?", draft.ID, model.VerificationPending).
			Updates(map[string]any{
				"status":           model.VerificationApproved,
				"rejection_reason": "",
				"machine_id":       machine.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errLostRace
		}
		return nil
	})
	if errors.Is(err, errLostRace) {
		// Someone else moved the draft first. Reload and report its state.
		current, getErr := e.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == model.VerificationApproved {
			return e.alreadyApproved(ctx, current)
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	draft.Status = model.VerificationApproved
	draft.RejectionReason = ""
	draft.MachineID = &machine.ID

	e.notifier.Emit(ctx, model.Notification{
		UserID:    draft.SellerID,
		Type:      model.NotifMachineVerified,
		Title:     "Machine Verified",
		Message:   fmt.Sprintf("Your machine %q has been verified and is now live.", draft.Name),
		RelatedID: &machine.ID,
	})

	return &ApproveResult{Draft: draft, Machine: machine}, nil
}

var errLostRace = errors.New("draft left pending state concurrently")

func (e *Engine) alreadyApproved(ctx context.Context, draft *model.MachineVerification) (*ApproveResult, error) {
	result := &ApproveResult{Draft: draft, AlreadyApproved: true}
	if draft.MachineID != nil {
		var machine model.Machine
		if err := e.db.WithContext(ctx).First(&machine, *draft.MachineID).Error; err == nil {
			result.Machine = &machine
		}
	}
	return result, nil
}

// Reject marks a draft rejected with an optional reason. Rejecting an
// already-rejected draft is a repeated transition (the reason may change
// and the supplier is re-notified); rejecting an approved draft is a
// conflict. The status write is conditional on not being approved so a
// racing approval cannot be clobbered.
func (e *Engine) Reject(ctx context.Context, id uint, reason string) (*model.MachineVerification, error) {
	draft, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == model.VerificationApproved {
		return nil, ErrConflict
	}

	reason = strings.TrimSpace(reason)
	res := e.db.WithContext(ctx).Model(&model.MachineVerification{}).
		Where("id = ? AND status <> ?", draft.ID, model.VerificationApproved).
		Updates(map[string]any{
			"status":           model.VerificationRejected,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	draft.Status = model.VerificationRejected
	draft.RejectionReason = reason

	message := fmt.Sprintf("Your machine %q was rejected.", draft.Name)
	if reason != "" {
		message += " Reason: " + reason
	}
	e.notifier.Emit(ctx, model.Notification{
		UserID:    draft.SellerID,
		Type:      model.NotifMachineRejected,
		Title:     "Machine Rejected",
		Message:   message,
		RelatedID: &draft.ID,
	})

	return draft, nil
}

// AdminMessage appends an admin question to the draft's conversation and
// notifies the supplier. priority defaults to true when unspecified.
func (e *Engine) AdminMessage(ctx context.Context, id uint, content string, priority *bool) (*model.MachineVerification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Details: []string{"content is required"}}
	}

	draft, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == model.VerificationApproved {
		return nil, ErrConflict
	}

	pri := true
	if priority != nil {
		pri = *priority
	}

	msg := model.VerificationMessage{
		VerificationID: draft.ID,
		Sender:         model.SenderAdmin,
		Content:        content,
		Priority:       pri,
	}
	if err := e.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append admin message: %w", err)
	}
	draft.Messages = append(draft.Messages, msg)

	title := "Admin Question"
	if pri {
		title = "Priority: Admin Question"
	}
	e.notifier.Emit(ctx, model.Notification{
		UserID:    draft.SellerID,
		Type:      model.NotifAdminQuestion,
		Priority:  pri,
		Title:     title,
		Message:   preview(content),
		RelatedID: &draft.ID,
	})

	return draft, nil
}

// SellerMessage appends the owning supplier's reply to the conversation.
// No notification is emitted toward the admin channel; the review queue is
// polled.
func (e *Engine) SellerMessage(ctx context.Context, sellerID, id uint, content string) (*model.MachineVerification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Details: []string{"content is required"}}
	}

	draft, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if draft.Status == model.VerificationApproved {
		return nil, ErrConflict
	}

	msg := model.VerificationMessage{
		VerificationID: draft.ID,
		Sender:         model.SenderSeller,
		Content:        content,
		Priority:       false,
	}
	if err := e.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append seller message: %w", err)
	}
	draft.Messages = append(draft.Messages, msg)

	return draft, nil
}

// preview truncates an admin question for its notification.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLimit {
		return content
	}
	return string(runes[:messagePreviewLimit]) + "…"
}

// machineFromDraft copies the draft's content into a verified catalog
// entry. The slug is assigned by the caller inside the publish transaction.
func machineFromDraft(draft *model.MachineVerification) *model.Machine {
	return &model.Machine{
		Name:            draft.Name,
		Description:     draft.Description,
		IndustrySlug:    draft.IndustrySlug,
		SubIndustrySlug: draft.SubIndustrySlug,
		OwnerUserID:     draft.SellerID,
		Manufacturer:    draft.Manufacturer,
		Verified:        true,
		Features:        draft.Features,
		Specs:           draft.Specs,
		Photos:          draft.Photos,
		MinOrderQty:     draft.MinOrderQty,
		LeadTimeDays:    draft.LeadTimeDays,
		Condition:       model.NormalizeCondition(draft.Condition),
		PriceRange:      draft.PriceRange,
		WarrantyMonths:  draft.WarrantyMonths,
	}
}
