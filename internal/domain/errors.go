package domain

import "errors"

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrApplicantNotFound    = errors.New("applicant profile not found")
	ErrRecruiterNotFound    = errors.New("recruiter profile not found")
	ErrCapacityExceeded     = errors.New("job has reached its applicant limit")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrInvalidStatus        = errors.New("invalid application status")
	ErrInvalidJob           = errors.New("invalid job posting")
)
