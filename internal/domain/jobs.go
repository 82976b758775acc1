package domain

import (
	"context"
	"fmt"
)

// JobService handles posting and reading jobs.
type JobService struct {
	store Store
}

// NewJobService creates a new JobService.
func NewJobService(store Store) *JobService {
	return &JobService{store: store}
}

// Post creates a job owned by recruiterID. Title and a positive
// applicant limit are required.
func (s *JobService) Post(ctx context.Context, job *Job) (*Job, error) {
	if job.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidJob)
	}
	if job.MaxApplicants <= 0 {
		return nil, fmt.Errorf("%w: max_applicants must be positive", ErrInvalidJob)
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get retrieves a job by ID.
func (s *JobService) Get(ctx context.Context, id int64) (*Job, error) {
	return s.store.GetJob(ctx, id)
}

// Open lists open postings, newest first.
func (s *JobService) Open(ctx context.Context, limit int) ([]Job, error) {
	jobs, err := s.store.ListOpenJobs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, nil
}
