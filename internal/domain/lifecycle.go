package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LifecycleService orchestrates application intake and status
// transitions, keeping the job counters consistent with the rows that
// back them.
type LifecycleService struct {
	store    Store
	guard    *CapacityGuard
	notifier *Notifier
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(store Store) *LifecycleService {
	return &LifecycleService{
		store:    store,
		guard:    NewCapacityGuard(store, store),
		notifier: NewNotifier(store),
	}
}

// Apply submits an application for userID against jobID and returns
// the new application. A first-time applicant with no profile gets one
// synthesized from their email. The capacity check, the insert and the
// counter bump happen in one store transaction; the applicant
// notification is best-effort after commit.
func (s *LifecycleService) Apply(ctx context.Context, userID, jobID int64) (*Application, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanApply(ctx, jobID, userID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureApplicant(ctx, user); err != nil {
		return nil, err
	}

	app, err := s.store.InsertApplication(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyBestEffort(ctx, userID,
		fmt.Sprintf("Your application for %q has been submitted.", job.Title))
	return app, nil
}

// ensureApplicant lazily creates an applicant profile on first
// application. The default display name is the email local part.
func (s *LifecycleService) ensureApplicant(ctx context.Context, user *User) error {
	_, err := s.store.GetApplicantByUser(ctx, user.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrApplicantNotFound) {
		return err
	}

	name := user.Email
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return s.store.CreateApplicant(ctx, &Applicant{UserID: user.ID, Name: name})
}

// SetStatus transitions an application to status. The previous status
// is read fresh inside the store transaction, so repeating the same
// transition never double-adjusts the accepted counter. The applicant
// notification is best-effort after commit.
func (s *LifecycleService) SetStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	app, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your application is now %s.", status)
	if job, err := s.store.GetJob(ctx, app.JobID); err == nil {
		msg = fmt.Sprintf("Your application for %q is now %s.", job.Title, status)
	}
	s.notifier.NotifyBestEffort(ctx, app.UserID, msg)
	return app, nil
}

// Cancel is the applicant-initiated transition to cancelled.
func (s *LifecycleService) Cancel(ctx context.Context, id int64) (*Application, error) {
	return s.SetStatus(ctx, id, StatusCancelled)
}

// Get retrieves an application by ID.
func (s *LifecycleService) Get(ctx context.Context, id int64) (*Application, error) {
	return s.store.GetApplication(ctx, id)
}
