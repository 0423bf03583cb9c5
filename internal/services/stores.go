package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/models"
)

// Stores return *apperr.Error values: NotFound for missing rows, Conflict for
// uniqueness violations, Internal for anything the database reports.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type JobStore interface {
	CreateJob(ctx context.Context, job *models.Job) error
	// GetJob loads the job with its poster and applicants.
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListJobsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
}

type ApplicationStore interface {
	// CreateApplication inserts app and adds its student to the job's
	// applicant set in one transaction. A duplicate pair yields ErrAlreadyApplied.
	CreateApplication(ctx context.Context, app *models.JobApplication) error
	FindApplication(ctx context.Context, jobID, studentID uuid.UUID) (*models.JobApplication, error)
	// GetApplication loads the application with its job.
	GetApplication(ctx context.Context, id uuid.UUID) (*models.JobApplication, error)
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.JobApplication, error)
	ListApplicationsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.JobApplication, error)
	// SetApplicationStatus writes to only if the current status is in from
	// (any status when from is empty). ErrAlreadyDecided when nothing matched.
	SetApplicationStatus(ctx context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.JobApplication, error)
}

type MentorshipStore interface {
	// CreateRequest yields ErrAlreadyRequested for a duplicate (mentor, student) pair.
	CreateRequest(ctx context.Context, req *models.MentorshipRequest) error
	FindRequest(ctx context.Context, mentorID, studentID uuid.UUID) (*models.MentorshipRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.MentorshipRequest, error)
	ListRequestsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.MentorshipRequest, error)
	ListRequestsByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.MentorshipRequest, error)
	SetRequestStatus(ctx context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.MentorshipRequest, error)
}

type WorkshopStore interface {
	CreateWorkshop(ctx context.Context, w *models.Workshop) error
	// GetWorkshop loads the workshop with its poster and registered students.
	GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error)
	// UpdateWorkshop rewrites the editable fields. ErrCapacityBelowTaken when
	// the new capacity is lower than the current registration count.
	UpdateWorkshop(ctx context.Context, w *models.Workshop) error
	DeleteWorkshop(ctx context.Context, id uuid.UUID) error
	ListWorkshops(ctx context.Context) ([]models.Workshop, error)
	ListWorkshopsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.Workshop, error)
	ListWorkshopsByRegistrant(ctx context.Context, studentID uuid.UUID) ([]models.Workshop, error)
	// Register adds studentID to the registered set as one atomic step:
	// NotFound, ErrAlreadyRegistered or ErrWorkshopFull on rejection.
	Register(ctx context.Context, workshopID, studentID uuid.UUID) error
}

// Recorder counts workflow outcomes. A nil Recorder is allowed.
type Recorder interface {
	Record(workflow, outcome string)
}

func record(r Recorder, workflow string, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.Record(workflow, outcomeOf(err))
		return
	}
	r.Record(workflow, "ok")
}
