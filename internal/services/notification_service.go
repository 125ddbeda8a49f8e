// file: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Toast durations in milliseconds
const (
	DurationShort = 3000
	DurationLong  = 5000
)

// subscriberBuffer is the per-stream backlog before notifications are dropped
const subscriberBuffer = 16

// BadgeUnlockedMessage is the text shown when a badge is awarded
func BadgeUnlockedMessage(title, icon string) string {
	return fmt.Sprintf("New badge unlocked: %s %s!", title, icon)
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[string]map[chan *models.Notification]struct{}
}

// NewNotificationService creates the notification service and, when bus is
// not nil, subscribes it to the domain events it turns into notifications.
func NewNotificationService(repo repositories.NotificationRepository, bus events.EventBus, logger *zap.Logger) (NotificationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &notificationService{
		repo:        repo,
		logger:      logger.Named("notifications"),
		subscribers: make(map[string]map[chan *models.Notification]struct{}),
	}
	if bus != nil {
		if err := s.register(bus); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Notify stores a notification for userID and pushes it to live streams
func (s *notificationService) Notify(ctx context.Context, userID, message, severity string, durationMs int) *models.Notification {
	id, err := uuid.NewV4()
	if err != nil {
		s.logger.Error("Failed to generate notification id", zap.Error(err))
		return nil
	}

	n := &models.Notification{
		ID:         id.String(),
		UserID:     userID,
		Message:    message,
		Severity:   severity,
		DurationMs: durationMs,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to store notification", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Debug("Notification",
		zap.String("user_id", userID),
		zap.String("severity", severity),
		zap.String("message", message),
	)
	s.broadcast(n)
	return n
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) []*models.Notification {
	return s.repo.ListByUser(ctx, userID, limit)
}

// Subscribe opens a live stream of userID's notifications. The returned
// function closes it.
func (s *notificationService) Subscribe(userID string) (<-chan *models.Notification, func()) {
	ch := make(chan *models.Notification, subscriberBuffer)

	s.mu.Lock()
	if s.subscribers[userID] == nil {
		s.subscribers[userID] = make(map[chan *models.Notification]struct{})
	}
	s.subscribers[userID][ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[userID], ch)
			if len(s.subscribers[userID]) == 0 {
				delete(s.subscribers, userID)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *notificationService) broadcast(n *models.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers[n.UserID] {
		select {
		case ch <- n:
		default:
			s.logger.Warn("Dropping notification for slow stream", zap.String("user_id", n.UserID))
		}
	}
}

// ===============================
// EVENT HANDLERS
// ===============================

func (s *notificationService) register(bus events.EventBus) error {
	handlers := map[string]events.EventHandler{
		events.TypeBadgeAwarded: events.NewTypedEventHandler("notify.badge",
			func(ctx context.Context, e *events.BadgeAwardedEvent) error {
				s.Notify(ctx, e.UserID, BadgeUnlockedMessage(e.Title, e.Icon), models.SeveritySuccess, DurationLong)
				return nil
			}),
		events.TypeUserRegistered: events.NewTypedEventHandler("notify.welcome_new",
			func(ctx context.Context, e *events.UserEvent) error {
				s.Notify(ctx, e.UserID, fmt.Sprintf("Welcome to LinkedOut, %s!", e.Name), models.SeveritySuccess, DurationShort)
				return nil
			}),
		events.TypeUserLoggedIn: events.NewTypedEventHandler("notify.welcome",
			func(ctx context.Context, e *events.UserEvent) error {
				s.Notify(ctx, e.UserID, fmt.Sprintf("Welcome %s!", e.Name), models.SeveritySuccess, DurationShort)
				return nil
			}),
		events.TypeSkillEndorsed: events.NewTypedEventHandler("notify.endorsement",
			func(ctx context.Context, e *events.SkillEndorsedEvent) error {
				s.Notify(ctx, e.UserID,
					fmt.Sprintf("%s endorsed your skill %q", e.EndorserName, e.Skill),
					models.SeverityInfo, DurationShort)
				return nil
			}),
		events.TypePostLiked: events.NewTypedEventHandler("notify.like",
			func(ctx context.Context, e *events.PostEvent) error {
				if e.ActorID != e.UserID {
					s.Notify(ctx, e.UserID, fmt.Sprintf("%s liked your post", e.ActorName), models.SeverityInfo, DurationShort)
				}
				return nil
			}),
		events.TypeCommentCreated: events.NewTypedEventHandler("notify.comment",
			func(ctx context.Context, e *events.PostEvent) error {
				if e.ActorID != e.UserID {
					s.Notify(ctx, e.UserID, fmt.Sprintf("%s commented on your post", e.ActorName), models.SeverityInfo, DurationShort)
				}
				return nil
			}),
		events.TypeConnectionRequest: events.NewTypedEventHandler("notify.connection_request",
			func(ctx context.Context, e *events.ConnectionEvent) error {
				s.Notify(ctx, e.UserID, fmt.Sprintf("%s wants to join your network", e.OtherName), models.SeverityInfo, DurationShort)
				return nil
			}),
		events.TypeConnectionAccepted: events.NewTypedEventHandler("notify.connection_accepted",
			func(ctx context.Context, e *events.ConnectionEvent) error {
				s.Notify(ctx, e.UserID, fmt.Sprintf("%s accepted your connection request", e.OtherName), models.SeveritySuccess, DurationShort)
				return nil
			}),
	}

	for eventType, h := range handlers {
		if err := bus.Subscribe(eventType, h); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
		}
	}
	return nil
}
