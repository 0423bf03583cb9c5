package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type ApplicationService struct {
	Applications ApplicationStore
	Jobs         JobStore
	Policy       TransitionPolicy
	Recorder     Recorder
}

func NewApplicationService(apps ApplicationStore, jobs JobStore, policy TransitionPolicy, rec Recorder) *ApplicationService {
	if policy == nil {
		policy = permissivePolicy{}
	}
	return &ApplicationService{
		Applications: apps,
		Jobs:         jobs,
		Policy:       policy,
		Recorder:     rec,
	}
}

// Apply records a pending application for the calling student and adds them
// to the job's applicant set. Both writes happen in the store's transaction.
func (s *ApplicationService) Apply(ctx context.Context, jobID uuid.UUID) (*models.JobApplication, error) {
	app, err := s.apply(ctx, jobID)
	record(s.Recorder, "apply", err)
	return app, err
}

func (s *ApplicationService) apply(ctx context.Context, jobID uuid.UUID) (*models.JobApplication, error) {
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can apply for jobs")
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	_, err = s.Applications.FindApplication(ctx, jobID, p.UserID)
	switch {
	case err == nil:
		return nil, models.ErrAlreadyApplied
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	app := &models.JobApplication{
		JobID:     job.ID,
		StudentID: p.UserID,
		Status:    models.StatusPending,
	}
	if err := s.Applications.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	app.Job = job
	return app, nil
}

func (s *ApplicationService) ListMyApplications(ctx context.Context) ([]models.JobApplication, error) {
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can view their applications")
	if err != nil {
		return nil, err
	}
	return s.Applications.ListApplicationsByStudent(ctx, p.UserID)
}

// ListForAlumni returns applications to every job the caller posted.
func (s *ApplicationService) ListForAlumni(ctx context.Context) ([]models.JobApplication, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can view applications to their jobs")
	if err != nil {
		return nil, err
	}
	return s.Applications.ListApplicationsByPoster(ctx, p.UserID)
}

func (s *ApplicationService) CheckApplication(ctx context.Context, jobID uuid.UUID) (*dtos.CheckApplicationResponse, error) {
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can check applications")
	if err != nil {
		return nil, err
	}
	app, err := s.Applications.FindApplication(ctx, jobID, p.UserID)
	if apperr.Is(err, apperr.KindNotFound) {
		return &dtos.CheckApplicationResponse{HasApplied: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dtos.CheckApplicationResponse{HasApplied: true, Application: app}, nil
}

// SetStatus lets the job's poster accept or reject an application.
func (s *ApplicationService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.JobApplication, error) {
	app, err := s.setStatus(ctx, id, status)
	record(s.Recorder, "application_status", err)
	return app, err
}

func (s *ApplicationService) setStatus(ctx context.Context, id uuid.UUID, status string) (*models.JobApplication, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	to, err := parseDecision(status)
	if err != nil {
		return nil, err
	}
	app, err := s.Applications.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Job == nil || app.Job.PostedBy != p.UserID {
		return nil, apperr.Forbidden("Not authorized to update this application")
	}
	if err := checkTransition(s.Policy, app.Status, to); err != nil {
		return nil, err
	}
	return s.Applications.SetApplicationStatus(ctx, id, to, s.Policy.AllowedFrom(to))
}
