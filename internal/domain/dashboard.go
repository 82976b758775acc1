package domain

import (
	"context"
	"errors"
)

// RoleRecruiter and RoleApplicant are the two dashboard roles.
const (
	RoleRecruiter = "recruiter"
	RoleApplicant = "applicant"
)

// RecruiterView is the recruiter-shaped dashboard payload.
type RecruiterView struct {
	JobsWithApplicantCount []JobApplicantCount    `json:"jobsWithApplicantCount"`
	RecentApplications     []RecruiterApplication `json:"recentApplications"`
}

// ApplicantView is the applicant-shaped dashboard payload.
type ApplicantView struct {
	MyApplications []ApplicantApplication `json:"myApplications"`
	RecentJobs     []Job                  `json:"recentJobs"`
	Notifications  []Notification         `json:"notifications"`
}

// DashboardView is a tagged union: exactly one of Recruiter and
// Applicant is set, according to Role.
type DashboardView struct {
	Role      string
	Recruiter *RecruiterView
	Applicant *ApplicantView
}

// DashboardService builds read-only dashboard projections. It never
// mutates application, job or notification state.
type DashboardService struct {
	store       Store
	recentLimit int
}

// NewDashboardService creates a new DashboardService. recentLimit
// bounds the "recent" slices in both views.
func NewDashboardService(store Store, recentLimit int) *DashboardService {
	return &DashboardService{store: store, recentLimit: recentLimit}
}

// Dashboard resolves the user's role and builds the matching view.
// A user is a recruiter iff a recruiter row exists for them; a user
// whose account says recruiter but has no recruiter row yet gets an
// empty-shaped recruiter view rather than an error.
func (s *DashboardService) Dashboard(ctx context.Context, userID int64) (*DashboardView, error) {
	rec, err := s.store.GetRecruiterByUser(ctx, userID)
	switch {
	case err == nil:
		view, err := s.recruiterView(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		return &DashboardView{Role: RoleRecruiter, Recruiter: view}, nil

	case errors.Is(err, ErrRecruiterNotFound):
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.UserType == RoleRecruiter {
			return &DashboardView{
				Role: RoleRecruiter,
				Recruiter: &RecruiterView{
					JobsWithApplicantCount: []JobApplicantCount{},
					RecentApplications:     []RecruiterApplication{},
				},
			}, nil
		}
		view, err := s.applicantView(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &DashboardView{Role: RoleApplicant, Applicant: view}, nil

	default:
		return nil, err
	}
}

func (s *DashboardService) recruiterView(ctx context.Context, recruiterID int64) (*RecruiterView, error) {
	jobs, err := s.store.JobsWithApplicantCount(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.ListApplicationsByRecruiter(ctx, recruiterID, s.recentLimit)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []JobApplicantCount{}
	}
	if recent == nil {
		recent = []RecruiterApplication{}
	}
	return &RecruiterView{JobsWithApplicantCount: jobs, RecentApplications: recent}, nil
}

func (s *DashboardService) applicantView(ctx context.Context, userID int64) (*ApplicantView, error) {
	apps, err := s.store.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.ListOpenJobs(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}
	notes, err := s.store.RecentNotifications(ctx, userID, s.recentLimit)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []ApplicantApplication{}
	}
	if jobs == nil {
		jobs = []Job{}
	}
	if notes == nil {
		notes = []Notification{}
	}
	return &ApplicantView{MyApplications: apps, RecentJobs: jobs, Notifications: notes}, nil
}

// ApplicantApplications lists a user's applications, newest first.
func (s *DashboardService) ApplicantApplications(ctx context.Context, userID int64) ([]ApplicantApplication, error) {
	apps, err := s.store.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []ApplicantApplication{}
	}
	return apps, nil
}

// RecruiterApplications lists applications across a recruiter's jobs,
// newest first. A limit of 0 means no limit.
func (s *DashboardService) RecruiterApplications(ctx context.Context, recruiterID int64) ([]RecruiterApplication, error) {
	apps, err := s.store.ListApplicationsByRecruiter(ctx, recruiterID, 0)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []RecruiterApplication{}
	}
	return apps, nil
}
