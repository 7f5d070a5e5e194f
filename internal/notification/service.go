package notification

import (
	"context"
	"log"

	"gorm.io/gorm"

	"induslink-backend/internal/model"
)

// Notifier records an event for a user. Implementations must be safe to
// call after the triggering state transition has committed; a failed
// emission never propagates back to the caller.
type Notifier interface {
	Emit(ctx context.Context, n model.Notification)
}

// Service is the production Notifier: it durably records the notification
// row and then hands the ID to the worker pool for best-effort push
// delivery. Either half may fail independently; both failures are logged
// and swallowed.
type Service struct {
	db   *gorm.DB
	pool *WorkerPool
}

// NewService creates a notification service. pool may be nil when push
// delivery is disabled.
func NewService(db *gorm.DB, pool *WorkerPool) *Service {
	return &Service{db: db, pool: pool}
}

// Emit records the notification and queues its push delivery.
func (s *Service) Emit(ctx context.Context, n model.Notification) {
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Printf("Failed to record %s notification for user %d: %v", n.Type, n.UserID, err)
		return
	}
	if s.pool != nil {
		s.pool.Dispatch(n.ID)
	}
}
