package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"induslink-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache memory database so every pooled connection sees
	// the same schema.
	dsn := fmt.Sprintf("file:notiftest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Notification{}, &model.PushSubscription{}))
	return db
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	wp.Dispatch(123)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, uint(123), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	wp := NewWorkerPool(1, newTestDB(t), &webpush.Options{})

	// Overfill the queue; the surplus dispatches must return immediately.
	for i := 0; i < 50; i++ {
		wp.Dispatch(uint(i))
	}
}

func TestWorkerPool_DeliversToSubscriptions(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	n := model.Notification{
		UserID:   7,
		Type:     model.NotifMachineVerified,
		Title:    "Machine Verified",
		Message:  `Your machine "Cutting Machine X" has been verified and is now live.`,
		Priority: false,
	}
	require.NoError(t, db.Create(&n).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/push",
		UserID:   7,
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
	}).Error)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", sub.Endpoint)

			var got pushPayload
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, model.NotifMachineVerified, got.Type)
			assert.Equal(t, "Machine Verified", got.Title)
			return pushResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(n.ID)
	wg.Wait()
}

func TestWorkerPool_PrunesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	n := model.Notification{UserID: 9, Type: model.NotifAdminQuestion, Title: "Admin Question", Message: "Please share ISO certification", Priority: true}
	require.NoError(t, db.Create(&n).Error)
	require.NoError(t, db.Create(&model.PushSubscription{
		Endpoint: "https://example.com/expired",
		UserID:   9,
		P256DH:   "p",
		Auth:     "a",
	}).Error)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			return pushResponse(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(n.ID)
	wg.Wait()

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&model.PushSubscription{}).Count(&count)
		return count == 0
	}, 2*time.Second, 20*time.Millisecond, "expired subscription should be pruned")
}

func TestService_EmitRecordsAndDispatches(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})
	svc := NewService(db, wp)

	svc.Emit(context.Background(), model.Notification{
		UserID:  3,
		Type:    model.NotifMachineRejected,
		Title:   "Machine Rejected",
		Message: "Reason: Missing compliance certificate",
	})

	var stored model.Notification
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, uint(3), stored.UserID)
	assert.False(t, stored.Read)

	select {
	case id := <-wp.Jobs():
		assert.Equal(t, stored.ID, id)
	case <-time.After(time.Second):
		t.Fatal("expected a push job to be dispatched")
	}
}
