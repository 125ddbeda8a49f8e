// file: internal/handlers/api/v1/jobs/jobs_controller.go
package jobs

import (
	"net/http"

	"linkedout/internal/response"
	"linkedout/internal/services"
	"linkedout/internal/session"
	"linkedout/internal/utils"

	"go.uber.org/zap"
)

// JobController handles the job board
type JobController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	paginationParser  *response.PaginationParser
}

// NewJobController creates a new job controller
func NewJobController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *JobController {
	return &JobController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		paginationParser:  response.NewPaginationParser(nil),
	}
}

// ListJobs searches the board - GET /api/v1/jobs?q=&type=&company=&sort=
func (c *JobController) ListJobs(w http.ResponseWriter, r *http.Request) {
	pagination, err := c.paginationParser.ParseFromRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	query := r.URL.Query()
	page, err := c.serviceCollection.JobService.ListJobs(r.Context(), &services.ListJobsRequest{
		Query:            query.Get("q"),
		Type:             query.Get("type"),
		Company:          query.Get("company"),
		Sort:             query.Get("sort"),
		PaginationParams: pagination,
	})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	response.QuickPaginated(w, r, page)
}

// GetJob returns one posting - GET /api/v1/jobs/{id}
func (c *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	job, err := c.serviceCollection.JobService.GetJob(r.Context(), jobID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, job)
}

// Apply submits an application - POST /api/v1/jobs/{id}/apply
func (c *JobController) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.RequirePathVar(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.serviceCollection.JobService.Apply(r.Context(), session.FromContext(r.Context()), jobID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Job application submitted",
		zap.String("job_id", jobID),
		zap.String("status", result.Application.Status),
	)
	c.responseBuilder.WriteCreated(w, r, result)
}

// Applications lists the caller's applications - GET /api/v1/jobs/applications
func (c *JobController) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := c.serviceCollection.JobService.Applications(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, apps)
}

// Stats summarises the board for the caller - GET /api/v1/jobs/stats
func (c *JobController) Stats(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.serviceCollection.JobService.Stats(r.Context(), session.FromContext(r.Context())))
}
