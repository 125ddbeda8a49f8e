// file: internal/repositories/job_repository.go
package repositories

import (
	"context"

	"linkedout/internal/models"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

type jobRepository struct {
	doc *document[models.Job]
}

func cloneJob(j *models.Job) *models.Job {
	cp := *j
	cp.Requirements = append([]string{}, j.Requirements...)
	cp.Tags = append([]string{}, j.Tags...)
	return &cp
}

// NewJobRepository creates a job repository over the "jobs" document
func NewJobRepository(adapter *storage.Adapter, logger *zap.Logger) JobRepository {
	return &jobRepository{
		doc: newDocument(adapter, storage.KeyJobs,
			func(j *models.Job) string { return j.ID },
			cloneJob,
			logger,
		),
	}
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return r.doc.get(ctx, id)
}

func (r *jobRepository) List(ctx context.Context) []*models.Job {
	return r.doc.list(ctx, nil)
}

func (r *jobRepository) Mutate(ctx context.Context, id string, fn func(*models.Job) error) (*models.Job, error) {
	return r.doc.mutate(ctx, id, fn)
}

// ===============================
// APPLICATIONS
// ===============================

type jobApplicationRepository struct {
	doc *document[models.JobApplication]
}

// NewJobApplicationRepository creates a repository over the "jobApplications" document
func NewJobApplicationRepository(adapter *storage.Adapter, logger *zap.Logger) JobApplicationRepository {
	return &jobApplicationRepository{
		doc: newDocument[models.JobApplication](adapter, storage.KeyJobApplications,
			func(a *models.JobApplication) string { return a.ID },
			nil,
			logger,
		),
	}
}

func (r *jobApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	return r.doc.insert(ctx, app, false)
}

func (r *jobApplicationRepository) Find(ctx context.Context, jobID, userID string) (*models.JobApplication, error) {
	matches := r.doc.list(ctx, func(a *models.JobApplication) bool {
		return a.JobID == jobID && a.UserID == userID
	})
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

func (r *jobApplicationRepository) ListByUser(ctx context.Context, userID string) []*models.JobApplication {
	return r.doc.list(ctx, func(a *models.JobApplication) bool { return a.UserID == userID })
}
