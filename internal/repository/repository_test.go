package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/config"
	"github.com/justsurfingit/alumni-hub/internal/database"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "Job", nil))
	assert.True(t, apperr.Is(translate(gorm.ErrRecordNotFound, "Job", nil), apperr.KindNotFound))
	assert.Equal(t, "Job not found", apperr.MessageOf(translate(gorm.ErrRecordNotFound, "Job", nil)))
	assert.Same(t, models.ErrAlreadyApplied, translate(gorm.ErrDuplicatedKey, "Application", models.ErrAlreadyApplied))
	assert.True(t, apperr.Is(translate(gorm.ErrDuplicatedKey, "Job", nil), apperr.KindConflict))
	assert.Same(t, models.ErrWorkshopFull, translate(fmt.Errorf("tx: %w", models.ErrWorkshopFull), "Workshop", nil))

	err := translate(errors.New("connection reset"), "Job", nil)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.Equal(t, "database error", apperr.MessageOf(err))
}

// openTestDB connects to TEST_DATABASE_URL and resets every table.
func openTestDB(t *testing.T) *Stores {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.Connect(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, db.Exec(`TRUNCATE job_applicants, workshop_registrations, job_applications,
		mentorship_requests, workshops, jobs, users CASCADE`).Error)
	t.Cleanup(func() { _ = database.Close(db) })
	return New(db)
}

func seedUser(t *testing.T, s *Stores, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "user-" + uuid.NewString()[:8],
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, s.Users.CreateUser(context.Background(), u))
	return u
}

func seedJob(t *testing.T, s *Stores, poster *models.User) *models.Job {
	t.Helper()
	job := &models.Job{
		Title: "Backend Engineer", Company: "Acme", Description: "d", Requirements: "r",
		Location: "Remote", Salary: "100k", Type: models.JobTypeFullTime, PostedBy: poster.ID,
		PostingSnapshot: models.PostingSnapshot{AlumniName: poster.Name, AlumniEmail: poster.Email},
	}
	require.NoError(t, s.Jobs.CreateJob(context.Background(), job))
	return job
}

func TestUsers(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, s, models.RoleAlumni)

	dup := &models.User{Name: "x", Email: u.Email, PasswordHash: "x", Role: models.RoleStudent}
	assert.Same(t, models.ErrEmailTaken, s.Users.CreateUser(ctx, dup))

	got, err := s.Users.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, got.Role)

	got.Name = "Renamed"
	got.Profile = datatypes.NewJSONType(models.Profile{Skills: []string{"go", "sql"}})
	require.NoError(t, s.Users.UpdateUser(ctx, got))

	alumni, err := s.Users.ListUsersByRole(ctx, models.RoleAlumni)
	require.NoError(t, err)
	require.Len(t, alumni, 1)
	assert.Equal(t, "Renamed", alumni[0].Name)
	assert.Equal(t, []string{"go", "sql"}, alumni[0].Profile.Data().Skills)
}

func TestApplications(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	alumni := seedUser(t, s, models.RoleAlumni)
	student := seedUser(t, s, models.RoleStudent)
	job := seedJob(t, s, alumni)

	app := &models.JobApplication{JobID: job.ID, StudentID: student.ID}
	require.NoError(t, s.Applications.CreateApplication(ctx, app))
	assert.Equal(t, models.StatusPending, app.Status)

	again := &models.JobApplication{JobID: job.ID, StudentID: student.ID}
	assert.Same(t, models.ErrAlreadyApplied, s.Applications.CreateApplication(ctx, again))

	loaded, err := s.Jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Applicants, 1)
	assert.Equal(t, student.ID, loaded.Applicants[0].ID)
	assert.Equal(t, student.Email, loaded.Applicants[0].Email)
	assert.Zero(t, loaded.Applicants[0].CreatedAt, "applicants are loaded with member columns only")

	forAlumni, err := s.Applications.ListApplicationsByPoster(ctx, alumni.ID)
	require.NoError(t, err)
	require.Len(t, forAlumni, 1)
	assert.Equal(t, student.Email, forAlumni[0].Student.Email)

	strict := []models.Status{models.StatusPending}
	updated, err := s.Applications.SetApplicationStatus(ctx, app.ID, models.StatusAccepted, strict)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = s.Applications.SetApplicationStatus(ctx, app.ID, models.StatusRejected, strict)
	assert.Same(t, models.ErrAlreadyDecided, err)

	updated, err = s.Applications.SetApplicationStatus(ctx, app.ID, models.StatusRejected, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	_, err = s.Applications.SetApplicationStatus(ctx, uuid.New(), models.StatusRejected, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, s.Jobs.DeleteJob(ctx, job.ID))
	_, err = s.Applications.GetApplication(ctx, app.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMentorshipUniquePair(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	mentor := seedUser(t, s, models.RoleAlumni)
	student := seedUser(t, s, models.RoleStudent)

	require.NoError(t, s.Mentorship.CreateRequest(ctx, &models.MentorshipRequest{MentorID: mentor.ID, StudentID: student.ID}))
	err := s.Mentorship.CreateRequest(ctx, &models.MentorshipRequest{MentorID: mentor.ID, StudentID: student.ID})
	assert.Same(t, models.ErrAlreadyRequested, err)

	reqs, err := s.Mentorship.ListRequestsByMentor(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, student.ID, reqs[0].Student.ID)
}

func TestWorkshopConcurrentRegistration(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()
	alumni := seedUser(t, s, models.RoleAlumni)
	w := &models.Workshop{Title: "Go", Description: "d", Date: time.Now().Add(48 * time.Hour), Capacity: 3, PostedBy: alumni.ID}
	require.NoError(t, s.Workshops.CreateWorkshop(ctx, w))

	const students = 10
	ids := make([]uuid.UUID, students)
	for i := range ids {
		ids[i] = seedUser(t, s, models.RoleStudent).ID
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			err := s.Workshops.Register(ctx, w.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, models.ErrWorkshopFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, students-3, full)

	loaded, err := s.Workshops.GetWorkshop(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Registered, 3)

	assert.Same(t, models.ErrAlreadyRegistered, s.Workshops.Register(ctx, w.ID, loaded.Registered[0].ID))

	loaded.Capacity = 2
	assert.Same(t, models.ErrCapacityBelowTaken, s.Workshops.UpdateWorkshop(ctx, loaded))

	mine, err := s.Workshops.ListWorkshopsByRegistrant(ctx, loaded.Registered[0].ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, s.Workshops.DeleteWorkshop(ctx, w.ID))
	assert.True(t, apperr.Is(s.Workshops.Register(ctx, w.ID, ids[0]), apperr.KindNotFound))
}
