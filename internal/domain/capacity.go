package domain

import "context"

// CapacityGuard decides whether a user may apply to a job. It is a
// pure read-then-decide check with no side effects; the authoritative
// check is repeated inside the store's insert transaction, so passing
// the guard does not by itself reserve a slot.
type CapacityGuard struct {
	jobs JobRepository
	apps ApplicationRepository
}

// NewCapacityGuard creates a new CapacityGuard.
func NewCapacityGuard(jobs JobRepository, apps ApplicationRepository) *CapacityGuard {
	return &CapacityGuard{jobs: jobs, apps: apps}
}

// CanApply returns nil if userID may apply to jobID, or one of
// ErrJobNotFound, ErrDuplicateApplication, ErrCapacityExceeded.
// Counts are taken from live rows, not the job's cached counter.
func (g *CapacityGuard) CanApply(ctx context.Context, jobID, userID int64) error {
	job, err := g.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	dup, err := g.apps.HasActiveApplication(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicateApplication
	}

	count, err := g.apps.CountApplications(ctx, jobID)
	if err != nil {
		return err
	}
	if count >= job.MaxApplicants {
		return ErrCapacityExceeded
	}
	return nil
}
