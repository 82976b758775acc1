package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/wadeedkhan1/HireHub-sub000/internal/domain"
)

// Server is the HTTP adapter for the job board.
type Server struct {
	lifecycle *domain.LifecycleService
	dashboard *domain.DashboardService
	jobs      *domain.JobService
	mux       *http.ServeMux
	server    *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(lifecycle *domain.LifecycleService, dashboard *domain.DashboardService, jobs *domain.JobService, addr string) *Server {
	s := &Server{
		lifecycle: lifecycle,
		dashboard: dashboard,
		jobs:      jobs,
		mux:       http.NewServeMux(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:    addr,
		Handler: withRequestLog(s.mux),
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /jobs/{jobId}/apply", s.handleApply)
	s.mux.HandleFunc("POST /applications/jobs/{jobId}/apply", s.handleApply)
	s.mux.HandleFunc("PATCH /applications/{applicationId}/cancel", s.handleCancel)
	s.mux.HandleFunc("PATCH /applications/{applicationId}/status", s.handleUpdateStatus)
	s.mux.HandleFunc("GET /applications/user/{userId}", s.handleUserApplications)
	s.mux.HandleFunc("GET /applications/recruiter/{recruiterId}", s.handleRecruiterApplications)
	s.mux.HandleFunc("GET /users/{id}/dashboard", s.handleDashboard)
	s.mux.HandleFunc("POST /jobs", s.handleCreateJob)
	s.mux.HandleFunc("GET /jobs", s.handleListJobs)
	s.mux.HandleFunc("GET /jobs/{jobId}", s.handleGetJob)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// applyRequest is the request body for the apply endpoints.
type applyRequest struct {
	UserID int64 `json:"user_id"`
}

// statusRequest is the request body for the status endpoint.
type statusRequest struct {
	Status string `json:"status"`
}

// messageResponse is the success envelope for mutating endpoints.
type messageResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// errorResponse is the JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == 0 {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	app, err := s.lifecycle.Apply(r.Context(), req.UserID, jobID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, messageResponse{
		Message: "application submitted",
		Result:  app.ID,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid application ID")
		return
	}

	if _, err := s.lifecycle.Cancel(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "application cancelled"})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicationId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid application ID")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Status == "" {
		s.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	app, err := s.lifecycle.SetStatus(r.Context(), id, domain.Status(req.Status))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{
		Message: "application status updated to " + string(app.Status),
	})
}

func (s *Server) handleUserApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	apps, err := s.dashboard.ApplicantApplications(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleRecruiterApplications(w http.ResponseWriter, r *http.Request) {
	recruiterID, err := pathID(r, "recruiterId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid recruiter ID")
		return
	}

	apps, err := s.dashboard.RecruiterApplications(r.Context(), recruiterID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	view, err := s.dashboard.Dashboard(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// The two roles get structurally different payloads from the same
	// endpoint.
	if view.Role == domain.RoleRecruiter {
		s.writeJSON(w, http.StatusOK, view.Recruiter)
		return
	}
	s.writeJSON(w, http.StatusOK, view.Applicant)
}

// createJobRequest is the request body for POST /jobs.
type createJobRequest struct {
	RecruiterID   int64      `json:"recruiter_id"`
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	JobType       string     `json:"job_type"`
	Salary        int64      `json:"salary"`
	Duration      string     `json:"duration"`
	Deadline      *time.Time `json:"deadline"`
	MaxApplicants int        `json:"max_applicants"`
	MaxPositions  int        `json:"max_positions"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	job, err := s.jobs.Post(r.Context(), &domain.Job{
		RecruiterID:   req.RecruiterID,
		Title:         req.Title,
		Category:      req.Category,
		Location:      req.Location,
		JobType:       req.JobType,
		Salary:        req.Salary,
		Duration:      req.Duration,
		Deadline:      req.Deadline,
		MaxApplicants: req.MaxApplicants,
		MaxPositions:  req.MaxPositions,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	jobs, err := s.jobs.Open(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// writeDomainError maps domain sentinels to status codes. Anything
// unrecognized is a 500 with a generic message; the detail is logged,
// not exposed.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrApplicantNotFound),
		errors.Is(err, domain.ErrRecruiterNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrDuplicateApplication):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidJob):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.server.Addr
}
