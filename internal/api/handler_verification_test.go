package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"induslink-backend/internal/model"
)

func submitDraft(t *testing.T, ts *testServer, cookie, name string) map[string]any {
	t.Helper()
	w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/supplier/verify-machine", cookie: cookie, body: map[string]any{
		"name":            name,
		"description":     "High precision machine for metal work.",
		"manufacturer":    "Acme Machines",
		"industrySlug":    "metal-fabrication",
		"subIndustrySlug": "laser-plasma-cutting",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["data"].(map[string]any)
}

func TestSubmitVerification(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "supplier", "verify-supplier@example.com")

	draft := submitDraft(t, ts, cookie, "Plasma Cutter PC-3000")
	assert.Equal(t, "pending", draft["status"])
	assert.Equal(t, false, draft["awaitingResponse"])
	assert.Empty(t, draft["messages"])
	assert.NotNil(t, draft["messages"], "conversation starts empty, not null")

	t.Run("validation failures are itemized", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/supplier/verify-machine", cookie: cookie, body: map[string]any{
			"name": "X",
		}})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Validation failed", body["error"])
		details := body["details"].([]any)
		assert.Contains(t, details, "Machine name must be at least 2 characters")
		assert.Contains(t, details, "Industry is required")
	})

	t.Run("listing shows own drafts only", func(t *testing.T) {
		otherCookie := ts.register(t, "supplier", "verify-other@example.com")
		w := ts.do(t, testRequest{method: http.MethodGet, path: "/api/supplier/verify-machines", cookie: otherCookie})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeBody(t, w)["data"])

		w = ts.do(t, testRequest{method: http.MethodGet, path: "/api/supplier/verify-machines", cookie: cookie})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody(t, w)["data"].([]any), 1)
	})
}

func TestDeleteVerification(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "supplier", "del-supplier@example.com")
	draft := submitDraft(t, ts, cookie, "Welder W-220")
	draftID := int(draft["id"].(float64))

	t.Run("another supplier is refused", func(t *testing.T) {
		otherCookie := ts.register(t, "supplier", "del-other@example.com")
		w := ts.do(t, testRequest{method: http.MethodDelete, path: "/api/supplier/verify-machines/" + itoa(draftID), cookie: otherCookie})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner deletes a pending draft", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodDelete, path: "/api/supplier/verify-machines/" + itoa(draftID), cookie: cookie})
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.do(t, testRequest{method: http.MethodDelete, path: "/api/supplier/verify-machines/" + itoa(draftID), cookie: cookie})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("approved drafts cannot be deleted", func(t *testing.T) {
		draft := submitDraft(t, ts, cookie, "Welder W-221")
		draftID := int(draft["id"].(float64))
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "approved"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(t, testRequest{method: http.MethodDelete, path: "/api/supplier/verify-machines/" + itoa(draftID), cookie: cookie})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminReview(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "supplier", "review-supplier@example.com")
	draft := submitDraft(t, ts, cookie, "Boring Mill BM-5")
	draftID := int(draft["id"].(float64))

	t.Run("queue carries seller contact", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodGet, path: "/api/admin/verify-machines?status=pending", adminKey: ts.cfg.Admin.Key})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]any)
		require.Len(t, data, 1)
		entry := data[0].(map[string]any)
		assert.Equal(t, "review-supplier@example.com", entry["seller"].(map[string]any)["email"])
	})

	t.Run("invalid queue filter", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodGet, path: "/api/admin/verify-machines?status=bogus", adminKey: ts.cfg.Admin.Key})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid decision", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "pending"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("approve publishes a verified machine", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "approved"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "Machine verified and published.", body["message"])
		data := body["data"].(map[string]any)
		machine := data["machine"].(map[string]any)
		assert.Equal(t, "boring-mill-bm-5", machine["slug"])
		assert.Equal(t, true, machine["verified"])
		assert.Equal(t, "approved", data["verification"].(map[string]any)["status"])

		pub := ts.do(t, testRequest{method: http.MethodGet, path: "/api/machines/boring-mill-bm-5"})
		assert.Equal(t, http.StatusOK, pub.Code)

		notifications := notificationsFor(t, ts, "review-supplier@example.com")
		require.NotEmpty(t, notifications)
		assert.Equal(t, model.NotifMachineVerified, notifications[len(notifications)-1].Type)
	})

	t.Run("re-approval is acknowledged without a second machine", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "approved"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Machine verification already approved.", decodeBody(t, w)["message"])

		var count int64
		require.NoError(t, ts.db.Model(&model.Machine{}).Where("slug LIKE ?", "boring-mill-bm-5%").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rejecting an approved draft conflicts", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "rejected", "rejectionReason": "too late"}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown draft", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/99999",
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "approved"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRejectFlow(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "supplier", "reject-supplier@example.com")
	draft := submitDraft(t, ts, cookie, "Sorter SR-1")
	draftID := int(draft["id"].(float64))

	w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
		adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "rejected", "rejectionReason": "  Photos are missing.  "}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "rejected", body["data"].(map[string]any)["status"])
	assert.Equal(t, "Photos are missing.", body["data"].(map[string]any)["rejectionReason"])

	notifications := notificationsFor(t, ts, "reject-supplier@example.com")
	require.NotEmpty(t, notifications)
	last := notifications[len(notifications)-1]
	assert.Equal(t, model.NotifMachineRejected, last.Type)
	assert.Contains(t, last.Message, "Reason: Photos are missing.")

	t.Run("approving a rejected draft conflicts", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPatch, path: "/api/admin/verify-machines/" + itoa(draftID),
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"status": "approved"}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDraftConversationEndpoints(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "supplier", "conv-supplier@example.com")
	draft := submitDraft(t, ts, cookie, "Polisher P-40")
	draftID := int(draft["id"].(float64))

	t.Run("admin question defaults to priority", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/admin/verify-machines/" + itoa(draftID) + "/message",
			adminKey: ts.cfg.Admin.Key, body: map[string]any{"content": "Please attach a compliance certificate."}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["awaitingResponse"])
		messages := data["messages"].([]any)
		require.Len(t, messages, 1)
		assert.Equal(t, true, messages[0].(map[string]any)["priority"])

		notifications := notificationsFor(t, ts, "conv-supplier@example.com")
		require.Len(t, notifications, 1)
		assert.Equal(t, model.NotifAdminQuestion, notifications[0].Type)
		assert.Equal(t, "Priority: Admin Question", notifications[0].Title)
	})

	t.Run("seller reply flips awaitingResponse", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/supplier/verify-machines/" + itoa(draftID) + "/message",
			cookie: cookie, body: map[string]any{"content": "Certificate attached to the photos."}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, false, data["awaitingResponse"])
		assert.Len(t, data["messages"].([]any), 2)

		// No new notification for the admin channel
		notifications := notificationsFor(t, ts, "conv-supplier@example.com")
		assert.Len(t, notifications, 1)
	})

	t.Run("stranger cannot reply", func(t *testing.T) {
		otherCookie := ts.register(t, "supplier", "conv-other@example.com")
		w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/supplier/verify-machines/" + itoa(draftID) + "/message",
			cookie: otherCookie, body: map[string]any{"content": "Not my draft."}})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("blank content", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/supplier/verify-machines/" + itoa(draftID) + "/message",
			cookie: cookie, body: map[string]any{"content": "   "}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPushEndpoints(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.register(t, "buyer", "push-buyer@example.com")

	t.Run("vapid key unavailable when push disabled", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodGet, path: "/api/push/vapid_public_key"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("subscription lifecycle", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPut, path: "/api/push/subscriptions", cookie: cookie,
			body: map[string]any{"endpoint": "https://push.example.com/ep1", "p256dh": "key", "auth": "secret"}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = ts.do(t, testRequest{method: http.MethodGet, path: "/api/push/subscriptions", cookie: cookie})
		require.Equal(t, http.StatusOK, w.Code)
		endpoints := decodeBody(t, w)["endpoints"].([]any)
		require.Len(t, endpoints, 1)

		w = ts.do(t, testRequest{method: http.MethodDelete, path: "/api/push/subscriptions", cookie: cookie,
			body: map[string]any{"endpoint": "https://push.example.com/ep1"}})
		require.Equal(t, http.StatusNoContent, w.Code)

		var count int64
		require.NoError(t, ts.db.Model(&model.PushSubscription{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("requires a session", func(t *testing.T) {
		w := ts.do(t, testRequest{method: http.MethodPut, path: "/api/push/subscriptions",
			body: map[string]any{"endpoint": "https://push.example.com/ep2", "p256dh": "key", "auth": "secret"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
