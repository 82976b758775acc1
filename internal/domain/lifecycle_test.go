package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// mockStore implements Store in memory, mirroring the repository's
// counter and guard semantics.
type mockStore struct {
	users      map[int64]*User
	applicants map[int64]*Applicant // by user ID
	recruiters map[int64]*Recruiter // by user ID
	jobs       map[int64]*Job
	apps       map[int64]*Application
	notes      []Notification
	nextID     int64

	notifyErr error
	jobErr    error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:      make(map[int64]*User),
		applicants: make(map[int64]*Applicant),
		recruiters: make(map[int64]*Recruiter),
		jobs:       make(map[int64]*Job),
		apps:       make(map[int64]*Application),
		nextID:     1,
	}
}

func (m *mockStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *mockStore) CreateJob(ctx context.Context, job *Job) error {
	job.ID = m.id()
	m.jobs[job.ID] = job
	return nil
}

func (m *mockStore) GetJob(ctx context.Context, id int64) (*Job, error) {
	if m.jobErr != nil {
		return nil, m.jobErr
	}
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (m *mockStore) ListOpenJobs(ctx context.Context, limit int) ([]Job, error) {
	var jobs []Job
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
		if len(jobs) >= limit {
			break
		}
	}
	return jobs, nil
}

func (m *mockStore) JobsWithApplicantCount(ctx context.Context, recruiterID int64) ([]JobApplicantCount, error) {
	var counts []JobApplicantCount
	for _, job := range m.jobs {
		if job.RecruiterID != recruiterID {
			continue
		}
		n := 0
		for _, app := range m.apps {
			if app.JobID == job.ID {
				n++
			}
		}
		counts = append(counts, JobApplicantCount{JobID: job.ID, Title: job.Title, TotalApplicants: n})
	}
	return counts, nil
}

func (m *mockStore) ReconcileCounters(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockStore) InsertApplication(ctx context.Context, userID, jobID int64) (*Application, error) {
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	n := 0
	for _, app := range m.apps {
		if app.JobID == jobID {
			n++
		}
		if app.JobID == jobID && app.UserID == userID && app.Status != StatusCancelled {
			return nil, ErrDuplicateApplication
		}
	}
	if n >= job.MaxApplicants {
		return nil, ErrCapacityExceeded
	}
	app := &Application{
		ID:                m.id(),
		UserID:            userID,
		RecruiterID:       job.RecruiterID,
		JobID:             jobID,
		Status:            StatusApplied,
		DateOfApplication: time.Now(),
	}
	m.apps[app.ID] = app
	job.ActiveApplications++
	return app, nil
}

func (m *mockStore) GetApplication(ctx context.Context, id int64) (*Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func (m *mockStore) UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	old := app.Status
	if old != status {
		app.Status = status
		job := m.jobs[app.JobID]
		if status == StatusAccepted {
			job.AcceptedCandidates++
		} else if old == StatusAccepted && job.AcceptedCandidates > 0 {
			job.AcceptedCandidates--
		}
	}
	return app, nil
}

func (m *mockStore) CountApplications(ctx context.Context, jobID int64) (int, error) {
	n := 0
	for _, app := range m.apps {
		if app.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) HasActiveApplication(ctx context.Context, userID, jobID int64) (bool, error) {
	for _, app := range m.apps {
		if app.UserID == userID && app.JobID == jobID && app.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ListApplicationsByUser(ctx context.Context, userID int64) ([]ApplicantApplication, error) {
	var out []ApplicantApplication
	for _, app := range m.apps {
		if app.UserID != userID {
			continue
		}
		job := m.jobs[app.JobID]
		out = append(out, ApplicantApplication{
			ApplicationID:     app.ID,
			JobTitle:          job.Title,
			Location:          job.Location,
			Status:            app.Status,
			DateOfApplication: app.DateOfApplication,
		})
	}
	return out, nil
}

func (m *mockStore) ListApplicationsByRecruiter(ctx context.Context, recruiterID int64, limit int) ([]RecruiterApplication, error) {
	var out []RecruiterApplication
	for _, app := range m.apps {
		if app.RecruiterID != recruiterID {
			continue
		}
		job := m.jobs[app.JobID]
		out = append(out, RecruiterApplication{
			ApplicationID:     app.ID,
			JobTitle:          job.Title,
			Status:            app.Status,
			DateOfApplication: app.DateOfApplication,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) CreateUser(ctx context.Context, user *User) error {
	user.ID = m.id()
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) GetUser(ctx context.Context, id int64) (*User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (m *mockStore) CreateApplicant(ctx context.Context, a *Applicant) error {
	a.ID = m.id()
	m.applicants[a.UserID] = a
	return nil
}

func (m *mockStore) GetApplicantByUser(ctx context.Context, userID int64) (*Applicant, error) {
	a, ok := m.applicants[userID]
	if !ok {
		return nil, ErrApplicantNotFound
	}
	return a, nil
}

func (m *mockStore) CreateRecruiter(ctx context.Context, rec *Recruiter) error {
	rec.ID = m.id()
	m.recruiters[rec.UserID] = rec
	return nil
}

func (m *mockStore) GetRecruiterByUser(ctx context.Context, userID int64) (*Recruiter, error) {
	rec, ok := m.recruiters[userID]
	if !ok {
		return nil, ErrRecruiterNotFound
	}
	return rec, nil
}

func (m *mockStore) AddNotification(ctx context.Context, userID int64, message string) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.notes = append(m.notes, Notification{
		ID:        m.id(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockStore) RecentNotifications(ctx context.Context, userID int64, limit int) ([]Notification, error) {
	var out []Notification
	for i := len(m.notes) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notes[i].UserID == userID {
			out = append(out, m.notes[i])
		}
	}
	return out, nil
}

// seedApplyFixture sets up a recruiter, a job and an applicant user.
func seedApplyFixture(t *testing.T, store *mockStore, maxApplicants int) (*Job, *User) {
	t.Helper()
	ctx := context.Background()

	owner := &User{Email: "hr@acme.test", UserType: RoleRecruiter}
	store.CreateUser(ctx, owner)
	rec := &Recruiter{UserID: owner.ID, Name: "Acme Hiring"}
	store.CreateRecruiter(ctx, rec)
	job := &Job{RecruiterID: rec.ID, Title: "Backend Engineer", MaxApplicants: maxApplicants}
	store.CreateJob(ctx, job)

	user := &User{Email: "alice@example.test", UserType: RoleApplicant}
	store.CreateUser(ctx, user)
	return job, user
}

func TestLifecycle_Apply(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	job, user := seedApplyFixture(t, store, 5)

	app, err := svc.Apply(context.Background(), user.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if app.Status != StatusApplied {
		t.Errorf("status = %q, want %q", app.Status, StatusApplied)
	}
	if job.ActiveApplications != 1 {
		t.Errorf("active applications = %d, want 1", job.ActiveApplications)
	}

	if len(store.notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.notes))
	}
	if !strings.Contains(store.notes[0].Message, "Backend Engineer") {
		t.Errorf("notification %q does not mention the job title", store.notes[0].Message)
	}
}

func TestLifecycle_Apply_LazyApplicantProfile(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	job, user := seedApplyFixture(t, store, 5)

	if _, err := svc.Apply(context.Background(), user.ID, job.ID); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	a, err := store.GetApplicantByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("no applicant profile created: %v", err)
	}
	if a.Name != "alice" {
		t.Errorf("profile name = %q, want %q (email local part)", a.Name, "alice")
	}
	if a.Skills != "" {
		t.Errorf("profile skills = %q, want empty", a.Skills)
	}
}

func TestLifecycle_Apply_KeepsExistingProfile(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	job, user := seedApplyFixture(t, store, 5)

	existing := &Applicant{UserID: user.ID, Name: "Alice Liddell", Skills: "Go"}
	store.CreateApplicant(context.Background(), existing)

	if _, err := svc.Apply(context.Background(), user.ID, job.ID); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	a, _ := store.GetApplicantByUser(context.Background(), user.ID)
	if a.Name != "Alice Liddell" {
		t.Errorf("profile name = %q, existing profile was replaced", a.Name)
	}
}

func TestLifecycle_Apply_JobNotFound(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	_, user := seedApplyFixture(t, store, 5)

	_, err := svc.Apply(context.Background(), user.ID, 999)
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Apply() error = %v, want %v", err, ErrJobNotFound)
	}
	if len(store.apps) != 0 {
		t.Errorf("applications = %d, want 0", len(store.apps))
	}
}

func TestLifecycle_Apply_UserNotFound(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	job, _ := seedApplyFixture(t, store, 5)

	_, err := svc.Apply(context.Background(), 999, job.ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Apply() error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestLifecycle_Apply_GuardFailures(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 1)

	if _, err := svc.Apply(ctx, user.ID, job.ID); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Same user again: duplicate wins over capacity.
	if _, err := svc.Apply(ctx, user.ID, job.ID); !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("duplicate Apply() error = %v, want %v", err, ErrDuplicateApplication)
	}

	other := &User{Email: "bob@example.test", UserType: RoleApplicant}
	store.CreateUser(ctx, other)
	if _, err := svc.Apply(ctx, other.ID, job.ID); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("full-job Apply() error = %v, want %v", err, ErrCapacityExceeded)
	}
}

func TestLifecycle_Apply_NotificationFailureIsNonFatal(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	job, user := seedApplyFixture(t, store, 5)

	store.notifyErr = errors.New("notification table on fire")

	app, err := svc.Apply(context.Background(), user.ID, job.ID)
	if err != nil {
		t.Fatalf("Apply() error = %v, want success despite notify failure", err)
	}
	if app == nil || app.ID == 0 {
		t.Error("Apply() returned no application")
	}
}

func TestLifecycle_SetStatus(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)
	app, _ := svc.Apply(ctx, user.ID, job.ID)

	updated, err := svc.SetStatus(ctx, app.ID, StatusAccepted)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if updated.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", updated.Status, StatusAccepted)
	}
	if job.AcceptedCandidates != 1 {
		t.Errorf("accepted candidates = %d, want 1", job.AcceptedCandidates)
	}

	last := store.notes[len(store.notes)-1]
	if !strings.Contains(last.Message, "accepted") {
		t.Errorf("notification %q does not mention the new status", last.Message)
	}
	if !strings.Contains(last.Message, "Backend Engineer") {
		t.Errorf("notification %q does not mention the job title", last.Message)
	}
}

func TestLifecycle_SetStatus_TitleLookupFailure(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)
	app, _ := svc.Apply(ctx, user.ID, job.ID)

	// When the job cannot be re-read the notification drops the title
	// clause rather than naming an empty title.
	store.jobErr = errors.New("boom")
	if _, err := svc.SetStatus(ctx, app.ID, StatusAccepted); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	last := store.notes[len(store.notes)-1]
	if strings.Contains(last.Message, `""`) {
		t.Errorf("notification %q quotes an empty title", last.Message)
	}
	if !strings.Contains(last.Message, "accepted") {
		t.Errorf("notification %q does not mention the new status", last.Message)
	}
}

func TestLifecycle_SetStatus_InvalidStatus(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)
	app, _ := svc.Apply(ctx, user.ID, job.ID)

	_, err := svc.SetStatus(ctx, app.ID, Status("promoted"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("SetStatus() error = %v, want %v", err, ErrInvalidStatus)
	}
	if got, _ := store.GetApplication(ctx, app.ID); got.Status != StatusApplied {
		t.Errorf("status = %q, unknown value was persisted", got.Status)
	}
}

func TestLifecycle_SetStatus_NotFound(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)

	_, err := svc.SetStatus(context.Background(), 42, StatusAccepted)
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("SetStatus() error = %v, want %v", err, ErrApplicationNotFound)
	}
}

func TestLifecycle_Cancel(t *testing.T) {
	store := newMockStore()
	svc := NewLifecycleService(store)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)
	app, _ := svc.Apply(ctx, user.ID, job.ID)

	cancelled, err := svc.Cancel(ctx, app.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %q, want %q", cancelled.Status, StatusCancelled)
	}
}
