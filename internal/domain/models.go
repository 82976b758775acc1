package domain

import "time"

// Status represents the lifecycle state of an application.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusShortlisted  Status = "shortlisted"
	StatusInterviewing Status = "interviewing"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusCancelled    Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusInterviewing,
		StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// User is an account row. Role is resolved separately via the
// recruiters table; UserType is only a hint used as a defensive
// fallback when the recruiter row is missing.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// Recruiter is a recruiter profile, 1:1 with a User.
type Recruiter struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Bio           string `json:"bio"`
}

// Applicant is an applicant profile, 1:1 with a User. Created lazily
// on first application if the user never filled one in.
type Applicant struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Skills  string `json:"skills"`
	Resume  string `json:"resume"`
	Profile string `json:"profile"`
}

// Job is a posting owned by a recruiter. ActiveApplications and
// AcceptedCandidates are derived counters maintained in the same
// transaction as the application writes that change them.
type Job struct {
	ID                 int64      `json:"id"`
	RecruiterID        int64      `json:"recruiter_id"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	Location           string     `json:"location"`
	JobType            string     `json:"job_type"`
	Salary             int64      `json:"salary"`
	Duration           string     `json:"duration"`
	Deadline           *time.Time `json:"deadline"`
	MaxApplicants      int        `json:"max_applicants"`
	MaxPositions       int        `json:"max_positions"`
	ActiveApplications int        `json:"active_applications"`
	AcceptedCandidates int        `json:"accepted_candidates"`
}

// Application links an applicant to a job. RecruiterID denormalizes
// the job's owner. Rows are never deleted by the lifecycle engine;
// cancellation is just another status.
type Application struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	RecruiterID       int64     `json:"recruiter_id"`
	JobID             int64     `json:"job_id"`
	Status            Status    `json:"status"`
	DateOfApplication time.Time `json:"date_of_application"`
}

// Notification is an append-only message for a user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// JobApplicantCount is the per-job row of the recruiter dashboard.
type JobApplicantCount struct {
	JobID           int64  `json:"job_id"`
	Title           string `json:"title"`
	TotalApplicants int    `json:"total_applicants"`
}

// RecruiterApplication is an application as the recruiter sees it.
type RecruiterApplication struct {
	ApplicationID     int64     `json:"application_id"`
	ApplicantName     string    `json:"applicant_name"`
	JobTitle          string    `json:"job_title"`
	Status            Status    `json:"status"`
	DateOfApplication time.Time `json:"date_of_application"`
}

// ApplicantApplication is an application as the applicant sees it,
// joined against the job and its recruiter.
type ApplicantApplication struct {
	ApplicationID     int64      `json:"application_id"`
	JobTitle          string     `json:"job_title"`
	CompanyName       string     `json:"company_name"`
	Location          string     `json:"location"`
	Deadline          *time.Time `json:"deadline"`
	Status            Status     `json:"status"`
	DateOfApplication time.Time  `json:"date_of_application"`
}
