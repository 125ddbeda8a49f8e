package services

import (
	"context"
	"testing"

	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobIDs(jobs []*models.Job) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}

func TestListJobs(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *ListJobsRequest
		want []string
	}{
		{"all", &ListJobsRequest{}, []string{"job_1", "job_2", "job_3", "job_4", "job_5"}},
		{"by type", &ListJobsRequest{Type: "Permanent"}, []string{"job_1", "job_4"}},
		{"by query", &ListJobsRequest{Query: "NAP"}, []string{"job_3"}},
		{"sort by applications", &ListJobsRequest{Sort: SortApplications}, []string{"job_3", "job_4", "job_1", "job_2", "job_5"}},
		{"sort by date", &ListJobsRequest{Sort: SortDate}, []string{"job_1", "job_2", "job_3", "job_4", "job_5"}},
		{"by company", &ListJobsRequest{Company: "sleep"}, []string{"job_3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := sc.JobService.ListJobs(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, jobIDs(page.Data))
		})
	}

	_, err := sc.JobService.ListJobs(ctx, &ListJobsRequest{Sort: "salary"})
	assert.True(t, IsValidationError(err))
}

func TestApply(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_1")
	sc.JobService.(*jobService).intn = func(int) int { return 0 }

	result, err := sc.JobService.Apply(ctx, sess, "job_5")
	require.NoError(t, err)
	assert.Equal(t, 79, result.Job.Applications)
	assert.Equal(t, ApplyMessages[0], result.Message)
	assert.Equal(t, models.StatusPending, result.Application.Status)

	_, err = sc.JobService.Apply(ctx, sess, "job_5")
	assert.Equal(t, "ALREADY_APPLIED", GetServiceError(err).Code)
	job, err := sc.JobService.GetJob(ctx, "job_5")
	require.NoError(t, err)
	assert.Equal(t, 79, job.Applications)

	_, err = sc.JobService.Apply(ctx, sess, "job_404")
	assert.True(t, IsNotFoundError(err))

	apps, err := sc.JobService.Applications(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestJobStats(t *testing.T) {
	sc := newTestServices(t, nil)
	ctx := context.Background()
	sess := loginAs(t, sc, "user_2")

	_, err := sc.JobService.Apply(ctx, sess, "job_1")
	require.NoError(t, err)

	stats := sc.JobService.Stats(ctx, sess)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 1, stats.Pending)
	assert.Zero(t, stats.Rejected)
	assert.Equal(t, "job_1", stats.NewestJob.ID)
	assert.Equal(t, "job_3", stats.HottestJob.ID)

	anon := sc.JobService.Stats(ctx, nil)
	assert.Zero(t, anon.Applied)
}
