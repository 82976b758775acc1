package domain

import (
	"context"
	"errors"
	"testing"
)

func TestDashboard_RecruiterView(t *testing.T) {
	store := newMockStore()
	svc := NewDashboardService(store, 10)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)

	if _, err := store.InsertApplication(ctx, user.ID, job.ID); err != nil {
		t.Fatalf("InsertApplication() error = %v", err)
	}

	// The recruiter owning the job was created by the fixture with
	// user ID 1.
	view, err := svc.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if view.Role != RoleRecruiter {
		t.Fatalf("role = %q, want %q", view.Role, RoleRecruiter)
	}
	if view.Recruiter == nil || view.Applicant != nil {
		t.Fatal("recruiter view not exclusively set")
	}

	if len(view.Recruiter.JobsWithApplicantCount) != 1 {
		t.Fatalf("jobs = %d, want 1", len(view.Recruiter.JobsWithApplicantCount))
	}
	if view.Recruiter.JobsWithApplicantCount[0].TotalApplicants != 1 {
		t.Errorf("total applicants = %d, want 1", view.Recruiter.JobsWithApplicantCount[0].TotalApplicants)
	}
	if len(view.Recruiter.RecentApplications) != 1 {
		t.Errorf("recent applications = %d, want 1", len(view.Recruiter.RecentApplications))
	}
}

func TestDashboard_ApplicantView(t *testing.T) {
	store := newMockStore()
	svc := NewDashboardService(store, 10)
	ctx := context.Background()
	job, user := seedApplyFixture(t, store, 5)

	if _, err := store.InsertApplication(ctx, user.ID, job.ID); err != nil {
		t.Fatalf("InsertApplication() error = %v", err)
	}
	store.AddNotification(ctx, user.ID, "welcome")

	view, err := svc.Dashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if view.Role != RoleApplicant {
		t.Fatalf("role = %q, want %q", view.Role, RoleApplicant)
	}
	if view.Applicant == nil || view.Recruiter != nil {
		t.Fatal("applicant view not exclusively set")
	}

	if len(view.Applicant.MyApplications) != 1 {
		t.Errorf("my applications = %d, want 1", len(view.Applicant.MyApplications))
	}
	if len(view.Applicant.RecentJobs) != 1 {
		t.Errorf("recent jobs = %d, want 1", len(view.Applicant.RecentJobs))
	}
	if len(view.Applicant.Notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(view.Applicant.Notifications))
	}
}

func TestDashboard_ApplicantView_EmptySlicesNotNil(t *testing.T) {
	store := newMockStore()
	svc := NewDashboardService(store, 10)
	ctx := context.Background()

	user := &User{Email: "new@example.test", UserType: RoleApplicant}
	store.CreateUser(ctx, user)

	view, err := svc.Dashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if view.Applicant.MyApplications == nil || view.Applicant.RecentJobs == nil || view.Applicant.Notifications == nil {
		t.Error("empty applicant view contains nil slices")
	}
}

func TestDashboard_RecruiterWithoutRowGetsEmptyView(t *testing.T) {
	store := newMockStore()
	svc := NewDashboardService(store, 10)
	ctx := context.Background()

	// Account says recruiter but no recruiter row exists yet.
	user := &User{Email: "new-hr@acme.test", UserType: RoleRecruiter}
	store.CreateUser(ctx, user)

	view, err := svc.Dashboard(ctx, user.ID)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if view.Role != RoleRecruiter {
		t.Fatalf("role = %q, want %q", view.Role, RoleRecruiter)
	}
	if view.Recruiter == nil {
		t.Fatal("recruiter view is nil")
	}
	if len(view.Recruiter.JobsWithApplicantCount) != 0 || len(view.Recruiter.RecentApplications) != 0 {
		t.Error("empty recruiter view is not empty")
	}
	if view.Recruiter.JobsWithApplicantCount == nil || view.Recruiter.RecentApplications == nil {
		t.Error("empty recruiter view contains nil slices")
	}
}

func TestDashboard_UserNotFound(t *testing.T) {
	store := newMockStore()
	svc := NewDashboardService(store, 10)

	_, err := svc.Dashboard(context.Background(), 999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Dashboard() error = %v, want %v", err, ErrUserNotFound)
	}
}
