package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type JobService struct {
	Jobs     JobStore
	Users    UserStore
	Recorder Recorder
}

func NewJobService(jobs JobStore, users UserStore, rec Recorder) *JobService {
	return &JobService{
		Jobs:     jobs,
		Users:    users,
		Recorder: rec,
	}
}

// CreateJob posts a job for the calling alumni. The role is checked before
// anything in the request is looked at.
func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	job, err := s.createJob(ctx, req)
	record(s.Recorder, "job_post", err)
	return job, err
}

func (s *JobService) createJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can post jobs")
	if err != nil {
		return nil, err
	}
	jobType, err := validateJob(req)
	if err != nil {
		return nil, err
	}
	poster, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:        strings.TrimSpace(req.Title),
		Company:      strings.TrimSpace(req.Company),
		Description:  strings.TrimSpace(req.Description),
		Requirements: strings.TrimSpace(req.Requirements),
		Location:     strings.TrimSpace(req.Location),
		Salary:       strings.TrimSpace(req.Salary),
		Type:         jobType,
		PostedBy:     poster.ID,
		// snapshot of the poster, never refreshed afterwards
		PostingSnapshot: models.PostingSnapshot{
			AlumniName:  poster.Name,
			AlumniEmail: poster.Email,
		},
		Applicants: []models.User{},
	}
	if err := s.Jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func validateJob(req *dtos.JobCreationRequest) (models.JobType, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", req.Title},
		{"company", req.Company},
		{"description", req.Description},
		{"requirements", req.Requirements},
		{"location", req.Location},
		{"salary", req.Salary},
		{"type", req.Type},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", apperr.BadRequest("Missing required fields: " + strings.Join(missing, ", "))
	}
	t, err := models.ParseJobType(req.Type)
	if err != nil {
		return "", apperr.New(apperr.KindBadRequest, "Invalid job type", err)
	}
	return t, nil
}

func (s *JobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.Jobs.ListJobs(ctx)
}

// ListAlumniJobs returns the caller's own postings with their applicants.
func (s *JobService) ListAlumniJobs(ctx context.Context) ([]models.Job, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can view their posted jobs")
	if err != nil {
		return nil, err
	}
	return s.Jobs.ListJobsByPoster(ctx, p.UserID)
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.Jobs.GetJob(ctx, id)
}

func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	err := s.deleteJob(ctx, id)
	record(s.Recorder, "job_delete", err)
	return err
}

func (s *JobService) deleteJob(ctx context.Context, id uuid.UUID) error {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can delete jobs")
	if err != nil {
		return err
	}
	job, err := s.Jobs.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.PostedBy != p.UserID {
		return apperr.Forbidden("You can only delete your own jobs")
	}
	return s.Jobs.DeleteJob(ctx, id)
}
