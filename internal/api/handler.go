// Package api exposes the marketplace over HTTP: public catalog reads,
// cookie-session auth, buyer/supplier surfaces, peer messaging and the
// admin verification queue.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"induslink-backend/config"
	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
	"induslink-backend/internal/notification"
	"induslink-backend/internal/store"
	"induslink-backend/internal/verify"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	engine   *verify.Engine
	notifier notification.Notifier
	sessions *mw.SessionAuth
	cfg      *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *verify.Engine, notifier notification.Notifier, sessions *mw.SessionAuth, cfg *config.Config) *Handler {
	return &Handler{
		store:    s,
		engine:   engine,
		notifier: notifier,
		sessions: sessions,
		cfg:      cfg,
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.SessionCookie, token, int(h.cfg.Auth.TokenTTL.Seconds()), "/", "", h.cfg.Auth.SecureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.SessionCookie, "", -1, "/", "", h.cfg.Auth.SecureCookies, true)
}

// verifyError maps verification workflow errors onto HTTP responses.
// Storage errors never leak to callers; fallback is the generic message
// for the endpoint.
func verifyError(c *gin.Context, err error, fallback string) {
	var vErr *verify.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": vErr.Details})
	case errors.Is(err, verify.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found."})
	case errors.Is(err, verify.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized."})
	case errors.Is(err, verify.ErrNotPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Can only delete pending verifications."})
	case errors.Is(err, verify.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Verification is already finalized."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// draftResponse decorates a verification draft with its derived
// conversation state.
type draftResponse struct {
	*model.MachineVerification
	AwaitingResponse bool `json:"awaitingResponse"`
}

func newDraftResponse(draft *model.MachineVerification) draftResponse {
	if draft.Messages == nil {
		draft.Messages = []model.VerificationMessage{}
	}
	return draftResponse{MachineVerification: draft, AwaitingResponse: draft.AwaitingResponse()}
}

// machineRef is the compact machine projection embedded in leads,
// requests and conversations.
type machineRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func newMachineRef(m *model.Machine) machineRef {
	return machineRef{ID: m.ID, Name: m.Name, Slug: m.Slug}
}
