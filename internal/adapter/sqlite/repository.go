package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wadeedkhan1/HireHub-sub000/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    email     TEXT NOT NULL UNIQUE,
    user_type TEXT NOT NULL DEFAULT 'applicant'
);
CREATE TABLE IF NOT EXISTS recruiters (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL UNIQUE REFERENCES users(id),
    name           TEXT NOT NULL,
    contact_number TEXT NOT NULL DEFAULT '',
    bio            TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS applicants (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
    name    TEXT NOT NULL,
    skills  TEXT NOT NULL DEFAULT '',
    resume  TEXT NOT NULL DEFAULT '',
    profile TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS jobs (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    recruiter_id        INTEGER NOT NULL REFERENCES recruiters(id),
    title               TEXT NOT NULL,
    category            TEXT NOT NULL DEFAULT '',
    location            TEXT NOT NULL DEFAULT '',
    job_type            TEXT NOT NULL DEFAULT '',
    salary              INTEGER NOT NULL DEFAULT 0,
    duration            TEXT NOT NULL DEFAULT '',
    deadline            DATETIME,
    max_applicants      INTEGER NOT NULL DEFAULT 0,
    max_positions       INTEGER NOT NULL DEFAULT 0,
    active_applications INTEGER NOT NULL DEFAULT 0,
    accepted_candidates INTEGER NOT NULL DEFAULT 0,
    created_at          DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS applications (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id             INTEGER NOT NULL REFERENCES users(id),
    recruiter_id        INTEGER NOT NULL REFERENCES recruiters(id),
    job_id              INTEGER NOT NULL REFERENCES jobs(id),
    status              TEXT NOT NULL DEFAULT 'applied',
    date_of_application DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id);
CREATE INDEX IF NOT EXISTS idx_applications_user ON applications(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_active_once
    ON applications(user_id, job_id) WHERE status != 'cancelled';
CREATE TABLE IF NOT EXISTS notifications (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    message    TEXT NOT NULL,
    is_read    INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Repository implements domain.Store using SQLite.
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository, initializing the schema if needed.
func New(dbPath string) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// The pragmas ride the DSN so every pooled connection gets them:
	// concurrent appliers contend on the job row and must wait for
	// locks instead of failing with SQLITE_BUSY. Transactions start
	// immediate so a read-then-write tx never deadlocks on the
	// SHARED to RESERVED upgrade.
	dsn := dbPath + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// --- jobs ---

// CreateJob inserts a job posting and fills in its assigned ID.
func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) (err error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (recruiter_id, title, category, location, job_type, salary,
		                   duration, deadline, max_applicants, max_positions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.RecruiterID, job.Title, job.Category, job.Location, job.JobType,
		job.Salary, job.Duration, job.Deadline, job.MaxApplicants, job.MaxPositions,
	)
	if err != nil {
		return err
	}
	job.ID, err = result.LastInsertId()
	return err
}

// GetJob retrieves a job by ID.
func (r *Repository) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, recruiter_id, title, category, location, job_type, salary,
		        duration, deadline, max_applicants, max_positions,
		        active_applications, accepted_candidates
		 FROM jobs WHERE id = ?`, id,
	)
	return scanJob(row)
}

// ListOpenJobs returns postings whose deadline has not passed, newest
// first.
func (r *Repository) ListOpenJobs(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recruiter_id, title, category, location, job_type, salary,
		        duration, deadline, max_applicants, max_positions,
		        active_applications, accepted_candidates
		 FROM jobs
		 WHERE deadline IS NULL OR deadline >= ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		time.Now(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// JobsWithApplicantCount returns each of the recruiter's jobs with its
// live application count.
func (r *Repository) JobsWithApplicantCount(ctx context.Context, recruiterID int64) ([]domain.JobApplicantCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT j.id, j.title,
		        (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)
		 FROM jobs j WHERE j.recruiter_id = ?
		 ORDER BY j.id`, recruiterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.JobApplicantCount
	for rows.Next() {
		var c domain.JobApplicantCount
		if err := rows.Scan(&c.JobID, &c.Title, &c.TotalApplicants); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ReconcileCounters recomputes both derived job counters from live row
// counts and returns how many job rows were repaired.
func (r *Repository) ReconcileCounters(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET
		    active_applications = (SELECT COUNT(*) FROM applications a
		                           WHERE a.job_id = jobs.id),
		    accepted_candidates = (SELECT COUNT(*) FROM applications a
		                           WHERE a.job_id = jobs.id AND a.status = 'accepted')
		WHERE active_applications != (SELECT COUNT(*) FROM applications a
		                              WHERE a.job_id = jobs.id)
		   OR accepted_candidates != (SELECT COUNT(*) FROM applications a
		                              WHERE a.job_id = jobs.id AND a.status = 'accepted')`,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- applications ---

// InsertApplication inserts an application for (userID, jobID) with
// status applied and bumps the job's active_applications, all in one
// transaction. The capacity check is part of the INSERT itself, so a
// racing applier that loses the last slot gets ErrCapacityExceeded.
func (r *Repository) InsertApplication(ctx context.Context, userID, jobID int64) (*domain.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO applications (user_id, recruiter_id, job_id, status, date_of_application)
		 SELECT ?, j.recruiter_id, j.id, 'applied', ?
		 FROM jobs j
		 WHERE j.id = ?
		   AND (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) < j.max_applicants`,
		userID, now, jobID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateApplication
		}
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either the job does not exist or it is full.
		var max int
		err := tx.QueryRowContext(ctx,
			`SELECT max_applicants FROM jobs WHERE id = ?`, jobID).Scan(&max)
		if err == sql.ErrNoRows {
			return nil, domain.ErrJobNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, domain.ErrCapacityExceeded
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jobs SET active_applications = active_applications + 1 WHERE id = ?`,
		jobID,
	); err != nil {
		return nil, err
	}

	var recruiterID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT recruiter_id FROM applications WHERE id = ?`, id).Scan(&recruiterID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &domain.Application{
		ID:                id,
		UserID:            userID,
		RecruiterID:       recruiterID,
		JobID:             jobID,
		Status:            domain.StatusApplied,
		DateOfApplication: now,
	}, nil
}

// GetApplication retrieves an application by ID.
func (r *Repository) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, recruiter_id, job_id, status, date_of_application
		 FROM applications WHERE id = ?`, id,
	)
	return scanApplication(row)
}

// UpdateStatus persists the new status, adjusting the job's
// accepted_candidates in the same transaction. The previous status is
// read inside the transaction, so repeating a transition is a no-op
// for the counter and decrements never go below zero.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	app := &domain.Application{ID: id}
	var old string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, recruiter_id, job_id, status, date_of_application
		 FROM applications WHERE id = ?`, id,
	).Scan(&app.UserID, &app.RecruiterID, &app.JobID, &old, &app.DateOfApplication)
	if err == sql.ErrNoRows {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}

	oldStatus := domain.Status(old)
	if oldStatus != status {
		if _, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = ? WHERE id = ?`, status, id,
		); err != nil {
			if isUniqueViolation(err) {
				// Un-cancelling would collide with a newer application
				// for the same (user, job) pair.
				return nil, domain.ErrDuplicateApplication
			}
			return nil, err
		}

		switch {
		case status == domain.StatusAccepted:
			if _, err := tx.ExecContext(ctx,
				`UPDATE jobs SET accepted_candidates = accepted_candidates + 1 WHERE id = ?`,
				app.JobID,
			); err != nil {
				return nil, err
			}
		case oldStatus == domain.StatusAccepted:
			if _, err := tx.ExecContext(ctx,
				`UPDATE jobs SET accepted_candidates = MAX(accepted_candidates - 1, 0) WHERE id = ?`,
				app.JobID,
			); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	app.Status = status
	return app, nil
}

// CountApplications returns the number of application rows for a job.
func (r *Repository) CountApplications(ctx context.Context, jobID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ?`, jobID).Scan(&n)
	return n, err
}

// HasActiveApplication reports whether a non-cancelled application
// exists for (userID, jobID).
func (r *Repository) HasActiveApplication(ctx context.Context, userID, jobID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications
		 WHERE user_id = ? AND job_id = ? AND status != 'cancelled'`,
		userID, jobID).Scan(&n)
	return n > 0, err
}

// ListApplicationsByUser returns a user's applications joined against
// job and recruiter, newest first.
func (r *Repository) ListApplicationsByUser(ctx context.Context, userID int64) ([]domain.ApplicantApplication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, j.title, r.name, j.location, j.deadline, a.status, a.date_of_application
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN recruiters r ON r.id = a.recruiter_id
		 WHERE a.user_id = ?
		 ORDER BY a.date_of_application DESC, a.id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.ApplicantApplication
	for rows.Next() {
		var a domain.ApplicantApplication
		var status string
		var deadline sql.NullTime
		if err := rows.Scan(&a.ApplicationID, &a.JobTitle, &a.CompanyName,
			&a.Location, &deadline, &status, &a.DateOfApplication); err != nil {
			return nil, err
		}
		a.Status = domain.Status(status)
		if deadline.Valid {
			t := deadline.Time
			a.Deadline = &t
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListApplicationsByRecruiter returns applications across the
// recruiter's jobs with applicant names, newest first. limit <= 0
// means no limit.
func (r *Repository) ListApplicationsByRecruiter(ctx context.Context, recruiterID int64, limit int) ([]domain.RecruiterApplication, error) {
	q := `SELECT a.id, COALESCE(ap.name, ''), j.title, a.status, a.date_of_application
	      FROM applications a
	      JOIN jobs j ON j.id = a.job_id
	      LEFT JOIN applicants ap ON ap.user_id = a.user_id
	      WHERE a.recruiter_id = ?
	      ORDER BY a.date_of_application DESC, a.id DESC`
	args := []any{recruiterID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.RecruiterApplication
	for rows.Next() {
		var a domain.RecruiterApplication
		var status string
		if err := rows.Scan(&a.ApplicationID, &a.ApplicantName, &a.JobTitle,
			&status, &a.DateOfApplication); err != nil {
			return nil, err
		}
		a.Status = domain.Status(status)
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// --- profiles ---

// CreateUser inserts a user and fills in its assigned ID.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (err error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, user_type) VALUES (?, ?)`,
		user.Email, user.UserType,
	)
	if err != nil {
		return err
	}
	user.ID, err = result.LastInsertId()
	return err
}

// GetUser retrieves a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, user_type FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.UserType)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateApplicant inserts an applicant profile and fills in its ID.
func (r *Repository) CreateApplicant(ctx context.Context, a *domain.Applicant) (err error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO applicants (user_id, name, skills, resume, profile)
		 VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Skills, a.Resume, a.Profile,
	)
	if err != nil {
		return err
	}
	a.ID, err = result.LastInsertId()
	return err
}

// GetApplicantByUser retrieves the applicant profile for a user.
func (r *Repository) GetApplicantByUser(ctx context.Context, userID int64) (*domain.Applicant, error) {
	var a domain.Applicant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, skills, resume, profile
		 FROM applicants WHERE user_id = ?`, userID,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Skills, &a.Resume, &a.Profile)
	if err == sql.ErrNoRows {
		return nil, domain.ErrApplicantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateRecruiter inserts a recruiter profile and fills in its ID.
func (r *Repository) CreateRecruiter(ctx context.Context, rec *domain.Recruiter) (err error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO recruiters (user_id, name, contact_number, bio)
		 VALUES (?, ?, ?, ?)`,
		rec.UserID, rec.Name, rec.ContactNumber, rec.Bio,
	)
	if err != nil {
		return err
	}
	rec.ID, err = result.LastInsertId()
	return err
}

// GetRecruiterByUser retrieves the recruiter profile for a user.
func (r *Repository) GetRecruiterByUser(ctx context.Context, userID int64) (*domain.Recruiter, error) {
	var rec domain.Recruiter
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, contact_number, bio
		 FROM recruiters WHERE user_id = ?`, userID,
	).Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.ContactNumber, &rec.Bio)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRecruiterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- notifications ---

// AddNotification appends a notification row.
func (r *Repository) AddNotification(ctx context.Context, userID int64, message string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message) VALUES (?, ?)`,
		userID, message,
	)
	return err
}

// RecentNotifications returns a user's notifications, newest first.
func (r *Repository) RecentNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, is_read, created_at
		 FROM notifications WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// --- helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	var job domain.Job
	var deadline sql.NullTime
	err := row.Scan(&job.ID, &job.RecruiterID, &job.Title, &job.Category,
		&job.Location, &job.JobType, &job.Salary, &job.Duration, &deadline,
		&job.MaxApplicants, &job.MaxPositions,
		&job.ActiveApplications, &job.AcceptedCandidates)
	if err == sql.ErrNoRows {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		t := deadline.Time
		job.Deadline = &t
	}
	return &job, nil
}

func scanApplication(row scanner) (*domain.Application, error) {
	var app domain.Application
	var status string
	err := row.Scan(&app.ID, &app.UserID, &app.RecruiterID, &app.JobID,
		&status, &app.DateOfApplication)
	if err == sql.ErrNoRows {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	app.Status = domain.Status(status)
	return &app, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
