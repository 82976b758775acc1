package domain

import "context"

// JobRepository is the driven port for job persistence.
type JobRepository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListOpenJobs(ctx context.Context, limit int) ([]Job, error)
	JobsWithApplicantCount(ctx context.Context, recruiterID int64) ([]JobApplicantCount, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

// ApplicationRepository is the driven port for application persistence.
//
// InsertApplication must perform the capacity check, the insert and the
// active_applications increment in one transaction, so that of two
// racing appliers contending for the last open slot exactly one wins.
// UpdateStatus must read the previous status and adjust the job's
// accepted_candidates counter in the same transaction as the status
// write.
type ApplicationRepository interface {
	InsertApplication(ctx context.Context, userID, jobID int64) (*Application, error)
	GetApplication(ctx context.Context, id int64) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error)
	CountApplications(ctx context.Context, jobID int64) (int, error)
	HasActiveApplication(ctx context.Context, userID, jobID int64) (bool, error)
	ListApplicationsByUser(ctx context.Context, userID int64) ([]ApplicantApplication, error)
	ListApplicationsByRecruiter(ctx context.Context, recruiterID int64, limit int) ([]RecruiterApplication, error)
}

// ProfileRepository is the driven port for user, applicant and
// recruiter rows.
type ProfileRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateApplicant(ctx context.Context, applicant *Applicant) error
	GetApplicantByUser(ctx context.Context, userID int64) (*Applicant, error)
	CreateRecruiter(ctx context.Context, recruiter *Recruiter) error
	GetRecruiterByUser(ctx context.Context, userID int64) (*Recruiter, error)
}

// NotificationRepository is the driven port for notification rows.
type NotificationRepository interface {
	AddNotification(ctx context.Context, userID int64, message string) error
	RecentNotifications(ctx context.Context, userID int64, limit int) ([]Notification, error)
}

// Store is the full persistence surface the services run against.
type Store interface {
	JobRepository
	ApplicationRepository
	ProfileRepository
	NotificationRepository
}
