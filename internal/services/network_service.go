// file: internal/services/network_service.go
package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"linkedout/internal/badges"
	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultSuggestions is the number of recommended connections returned
const DefaultSuggestions = 6

var defaultSuggestionReasons = []string{
	"Expert in slacking off, just like you",
	"Professional unemployed profile",
	"Could share a few procrastination techniques",
	"Compatible laziness level",
	"Ideal candidate for your network",
}

type networkService struct {
	users    repositories.UserRepository
	requests repositories.ConnectionRequestRepository
	sessions SessionManager
	badges   BadgeService
	events   events.EventBus
	now      func() time.Time
	intn     func(int) int
	logger   *zap.Logger
}

// NewNetworkService creates the connections service
func NewNetworkService(
	users repositories.UserRepository,
	requests repositories.ConnectionRequestRepository,
	sessions SessionManager,
	badgeService BadgeService,
	bus events.EventBus,
	logger *zap.Logger,
) NetworkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &networkService{
		users:    users,
		requests: requests,
		sessions: sessions,
		badges:   badgeService,
		events:   bus,
		now:      time.Now,
		intn:     rand.Intn,
		logger:   logger.Named("network"),
	}
}

// ===============================
// REQUESTS
// ===============================

// SendRequest invites toUserID. It fails when a request already exists in
// either direction or the two members are already connected.
func (s *networkService) SendRequest(ctx context.Context, sess *session.Session, toUserID string) (*models.ConnectionRequest, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if toUserID == sess.UserID {
		return nil, NewValidationError("you cannot connect with yourself", nil)
	}

	me, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, EntityNotFoundError("user", sess.UserID)
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, EntityNotFoundError("user", toUserID)
	}
	if me.IsConnectedTo(toUserID) {
		return nil, NewConflictError("you are already connected", "ALREADY_CONNECTED")
	}
	if s.pendingBetween(ctx, sess.UserID, toUserID) {
		return nil, NewConflictError("a connection request already exists", "REQUEST_EXISTS")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate request id")
	}
	req := &models.ConnectionRequest{
		ID:         "req_" + id.String(),
		FromUserID: sess.UserID,
		ToUserID:   toUserID,
		Timestamp:  s.now(),
		Status:     models.StatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error("Failed to store connection request", zap.Error(err))
		return nil, NewInternalError("failed to send connection request")
	}

	s.logger.Info("Connection request sent",
		zap.String("from_user_id", req.FromUserID),
		zap.String("to_user_id", req.ToUserID),
	)
	s.publish(ctx, events.NewConnectionEvent(events.TypeConnectionRequest, toUserID, req.ID, me.ID, me.Name))
	return req, nil
}

func (s *networkService) pendingBetween(ctx context.Context, a, b string) bool {
	if _, err := s.requests.FindBetween(ctx, a, b); err == nil {
		return true
	}
	_, err := s.requests.FindBetween(ctx, b, a)
	return err == nil
}

// AcceptRequest connects both members and removes the request. Only the
// recipient may accept.
func (s *networkService) AcceptRequest(ctx context.Context, sess *session.Session, requestID string) error {
	req, err := s.ownRequest(ctx, sess, requestID)
	if err != nil {
		return err
	}

	link := func(other string) func(*models.User) error {
		return func(u *models.User) error {
			if !u.IsConnectedTo(other) {
				u.Connections = append(u.Connections, other)
			}
			return nil
		}
	}

	me, err := s.users.Mutate(ctx, req.ToUserID, link(req.FromUserID))
	if err != nil {
		return EntityNotFoundError("user", req.ToUserID)
	}
	if _, err := s.users.Mutate(ctx, req.FromUserID, link(req.ToUserID)); err != nil {
		s.logger.Warn("Requester disappeared before acceptance", zap.String("user_id", req.FromUserID))
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		s.logger.Warn("Failed to delete accepted request", zap.String("request_id", req.ID), zap.Error(err))
	}

	if s.sessions != nil {
		if err := s.sessions.Refresh(ctx, sess, me); err != nil {
			s.logger.Warn("Failed to refresh session", zap.Error(err))
		}
	}

	s.logger.Info("Connection request accepted",
		zap.String("request_id", req.ID),
		zap.String("from_user_id", req.FromUserID),
		zap.String("to_user_id", req.ToUserID),
	)
	s.publish(ctx, events.NewConnectionEvent(events.TypeConnectionAccepted, req.FromUserID, req.ID, me.ID, me.Name))

	if s.badges != nil {
		s.badges.AutoCheck(ctx, sess)
		s.badges.CheckAndAward(ctx, sess, req.FromUserID)
	}
	return nil
}

// RejectRequest drops the request without connecting
func (s *networkService) RejectRequest(ctx context.Context, sess *session.Session, requestID string) error {
	req, err := s.ownRequest(ctx, sess, requestID)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, req.ID); err != nil {
		return EntityNotFoundError("connection request", requestID)
	}
	s.logger.Info("Connection request rejected", zap.String("request_id", req.ID))
	return nil
}

func (s *networkService) ownRequest(ctx context.Context, sess *session.Session, requestID string) (*models.ConnectionRequest, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, EntityNotFoundError("connection request", requestID)
	}
	if req.ToUserID != sess.UserID {
		return nil, InsufficientPermissionsError("answer", "connection request")
	}
	return req, nil
}

// PendingRequests lists incoming pending requests with their senders
func (s *networkService) PendingRequests(ctx context.Context, sess *session.Session) ([]*PendingRequest, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}

	pending := s.requests.ListPendingFor(ctx, sess.UserID)
	out := make([]*PendingRequest, 0, len(pending))
	for _, req := range pending {
		entry := &PendingRequest{ConnectionRequest: req}
		if from, err := s.users.GetByID(ctx, req.FromUserID); err == nil {
			entry.From = from.Public()
		}
		out = append(out, entry)
	}
	return out, nil
}

// ===============================
// GRAPH QUERIES
// ===============================

func (s *networkService) Connections(ctx context.Context, userID string) ([]*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return publicAll(s.users.GetByIDs(ctx, user.Connections)), nil
}

// MutualConnections returns the session user's connections that userID
// shares, in the session user's order.
func (s *networkService) MutualConnections(ctx context.Context, sess *session.Session, userID string) ([]string, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	me, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, EntityNotFoundError("user", sess.UserID)
	}
	other, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return mutual(me, other), nil
}

func mutual(me, other *models.User) []string {
	out := []string{}
	for _, id := range me.Connections {
		if other.IsConnectedTo(id) {
			out = append(out, id)
		}
	}
	return out
}

// Suggestions ranks members the session user is not connected to
func (s *networkService) Suggestions(ctx context.Context, sess *session.Session, limit int) ([]*Suggestion, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}
	me, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, EntityNotFoundError("user", sess.UserID)
	}

	now := s.now()
	myDays := badges.DaysSince(me.UnemploymentStart, now)
	mySkills := make(map[string]bool, len(me.Skills))
	for _, sk := range me.Skills {
		mySkills[strings.ToLower(sk.Name)] = true
	}

	var out []*Suggestion
	for _, u := range s.users.List(ctx) {
		if u.ID == me.ID || me.IsConnectedTo(u.ID) {
			continue
		}

		var common []string
		for _, sk := range u.Skills {
			if mySkills[strings.ToLower(sk.Name)] {
				common = append(common, sk.Name)
			}
		}
		daysDiff := int(math.Abs(float64(badges.DaysSince(u.UnemploymentStart, now) - myDays)))
		shared := mutual(me, u)
		endorsements := 0
		for _, sk := range u.Skills {
			endorsements += sk.Endorsements
		}

		score := len(common)*10 + len(shared)*5
		switch {
		case daysDiff < 50:
			score += 15
		case daysDiff < 100:
			score += 10
		case daysDiff < 200:
			score += 5
		}
		switch {
		case endorsements > 50:
			score += 10
		case endorsements > 20:
			score += 5
		}

		out = append(out, &Suggestion{
			User:   u.Public(),
			Score:  score,
			Reason: s.reason(common, daysDiff, len(shared)),
			Mutual: len(shared),
		})
	}

	slices.SortStableFunc(out, func(a, b *Suggestion) int { return b.Score - a.Score })
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []*Suggestion{}
	}
	return out, nil
}

func (s *networkService) reason(common []string, daysDiff, mutualCount int) string {
	var reasons []string
	if len(common) > 0 {
		reasons = append(reasons, fmt.Sprintf("Similar skills: %s", common[0]))
	}
	if daysDiff < 100 {
		reasons = append(reasons, "Similar unemployment period")
	}
	if mutualCount > 0 {
		reasons = append(reasons, "Connections in common")
	}
	if len(reasons) == 0 {
		return defaultSuggestionReasons[s.intn(len(defaultSuggestionReasons))]
	}
	return strings.Join(reasons, " • ")
}

// Insights summarises the session user's network
func (s *networkService) Insights(ctx context.Context, sess *session.Session) (*NetworkInsights, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	me, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, EntityNotFoundError("user", sess.UserID)
	}

	connections := s.users.GetByIDs(ctx, me.Connections)
	insights := &NetworkInsights{
		TotalConnections: len(connections),
		PendingRequests:  len(s.requests.ListPendingFor(ctx, me.ID)),
		TopSkill:         "None",
	}

	extended := make(map[string]bool)
	for _, id := range me.Connections {
		extended[id] = true
	}
	now := s.now()
	totalDays := 0
	var skillOrder []string
	skillCounts := make(map[string]int)
	for _, c := range connections {
		totalDays += badges.DaysSince(c.UnemploymentStart, now)
		for _, id := range c.Connections {
			if id != me.ID {
				extended[id] = true
			}
		}
		for _, sk := range c.Skills {
			if _, seen := skillCounts[sk.Name]; !seen {
				skillOrder = append(skillOrder, sk.Name)
			}
			skillCounts[sk.Name]++
		}
	}
	insights.ExtendedNetwork = len(extended)

	if len(connections) > 0 {
		insights.AvgUnemploymentDays = int(math.Round(float64(totalDays) / float64(len(connections))))
	}
	// Ties go to the skill seen last
	best := 0
	for _, name := range skillOrder {
		if skillCounts[name] >= best {
			best = skillCounts[name]
			insights.TopSkill = name
		}
	}
	return insights, nil
}

func (s *networkService) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", e.GetEventType()), zap.Error(err))
	}
}

func publicAll(users []*models.User) []*models.User {
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}
