// file: internal/services/job_service.go
package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"linkedout/internal/events"
	"linkedout/internal/models"
	"linkedout/internal/repositories"
	"linkedout/internal/session"
	"linkedout/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ApplyMessages are shown after a successful application
var ApplyMessages = []string{
	"Application sent into the void!",
	"Congratulations! You just lost 30 seconds of your life.",
	"Your application was added to the \"never read\" pile.",
	"Well done! You excel at the art of pointlessness.",
	"Application received! (It will be ignored professionally)",
}

type jobService struct {
	jobs         repositories.JobRepository
	applications repositories.JobApplicationRepository
	events       events.EventBus
	now          func() time.Time
	intn         func(int) int
	logger       *zap.Logger
}

// NewJobService creates the job board service
func NewJobService(
	jobs repositories.JobRepository,
	applications repositories.JobApplicationRepository,
	bus events.EventBus,
	logger *zap.Logger,
) JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobService{
		jobs:         jobs,
		applications: applications,
		events:       bus,
		now:          time.Now,
		intn:         rand.Intn,
		logger:       logger.Named("jobs"),
	}
}

// ListJobs searches title, company, description, location and tags, then
// filters and sorts the board.
func (s *jobService) ListJobs(ctx context.Context, req *ListJobsRequest) (*models.PaginatedResponse[*models.Job], error) {
	if req == nil {
		req = &ListJobsRequest{}
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid job search", err)
	}

	q := strings.ToLower(strings.TrimSpace(req.Query))
	company := strings.ToLower(strings.TrimSpace(req.Company))

	jobs := []*models.Job{}
	for _, j := range s.jobs.List(ctx) {
		if q != "" && !jobMatches(j, q) {
			continue
		}
		if req.Type != "" && j.Type != req.Type {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(j.Company), company) {
			continue
		}
		jobs = append(jobs, j)
	}

	switch req.Sort {
	case SortDate:
		slices.SortStableFunc(jobs, func(a, b *models.Job) int { return b.Posted.Compare(a.Posted) })
	case SortApplications:
		slices.SortStableFunc(jobs, func(a, b *models.Job) int { return b.Applications - a.Applications })
	}

	page := models.Paginate(jobs, req.PaginationParams)
	page.Filters = map[string]any{"q": req.Query, "type": req.Type, "company": req.Company, "sort": req.Sort}
	return page, nil
}

func jobMatches(j *models.Job, q string) bool {
	for _, field := range []string{j.Title, j.Company, j.Description, j.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return slices.ContainsFunc(j.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, EntityNotFoundError("job", jobID)
	}
	return job, nil
}

// Apply records one application per member and job
func (s *jobService) Apply(ctx context.Context, sess *session.Session, jobID string) (*ApplyResult, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	if _, err := s.applications.Find(ctx, jobID, sess.UserID); err == nil {
		return nil, NewConflictError("you already applied to this job", "ALREADY_APPLIED")
	}

	job, err := s.jobs.Mutate(ctx, jobID, func(j *models.Job) error {
		j.Applications++
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, EntityNotFoundError("job", jobID)
		}
		return nil, NewInternalError("failed to apply")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, NewInternalError("failed to generate application id")
	}
	app := &models.JobApplication{
		ID:        "app_" + id.String(),
		JobID:     jobID,
		UserID:    sess.UserID,
		Status:    models.StatusPending,
		AppliedAt: s.now(),
	}
	if err := s.applications.Create(ctx, app); err != nil {
		s.logger.Error("Failed to store application", zap.String("job_id", jobID), zap.Error(err))
		return nil, NewInternalError("failed to apply")
	}

	s.logger.Info("Applied to job",
		zap.String("job_id", jobID),
		zap.String("user_id", sess.UserID),
		zap.Int("applications", job.Applications),
	)
	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewJobAppliedEvent(sess.UserID, job.ID, job.Title, job.Company)); err != nil {
			s.logger.Warn("Failed to publish job applied event", zap.Error(err))
		}
	}

	return &ApplyResult{
		Application: app,
		Job:         job,
		Message:     ApplyMessages[s.intn(len(ApplyMessages))],
	}, nil
}

func (s *jobService) Applications(ctx context.Context, sess *session.Session) ([]*models.JobApplication, error) {
	if sess == nil {
		return nil, NewUnauthorizedError("authentication required")
	}
	return s.applications.ListByUser(ctx, sess.UserID), nil
}

// Stats summarises the board. Every application is still pending.
func (s *jobService) Stats(ctx context.Context, sess *session.Session) *JobStats {
	jobs := s.jobs.List(ctx)
	stats := &JobStats{Total: len(jobs)}
	if sess != nil {
		stats.Applied = len(s.applications.ListByUser(ctx, sess.UserID))
		stats.Pending = stats.Applied
	}

	for _, j := range jobs {
		if stats.NewestJob == nil || j.Posted.After(stats.NewestJob.Posted) {
			stats.NewestJob = j
		}
		if stats.HottestJob == nil || j.Applications > stats.HottestJob.Applications {
			stats.HottestJob = j
		}
	}
	return stats
}
