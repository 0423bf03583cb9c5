package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/config"
	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/repository/memstore"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events map[string]int
}

func (r *fakeRecorder) Record(workflow, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string]int{}
	}
	r.events[workflow+"/"+outcome]++
}

func seed(t *testing.T, store *memstore.Store, role models.Role, name string) (*models.User, context.Context) {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, store.CreateUser(context.Background(), u))
	ctx := session.WithPrincipal(context.Background(), session.Principal{
		UserID: u.ID, UserRole: u.Role, Name: u.Name, Email: u.Email,
	})
	return u, ctx
}

func newJob(t *testing.T, svc *JobService, ctx context.Context) *models.Job {
	t.Helper()
	job, err := svc.CreateJob(ctx, &dtos.JobCreationRequest{
		Title: "SRE", Company: "Acme", Description: "d", Requirements: "r",
		Location: "Remote", Salary: "90k", Type: "Internship",
	})
	require.NoError(t, err)
	return job
}

func TestNewTransitionPolicy(t *testing.T) {
	p, err := NewTransitionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, config.PolicyPermissive, p.Name())
	assert.Empty(t, p.AllowedFrom(models.StatusAccepted))

	p, err = NewTransitionPolicy(config.PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, []models.Status{models.StatusPending}, p.AllowedFrom(models.StatusRejected))
	assert.NoError(t, checkTransition(p, models.StatusPending, models.StatusAccepted))
	assert.Same(t, models.ErrAlreadyDecided, checkTransition(p, models.StatusAccepted, models.StatusRejected))

	_, err = NewTransitionPolicy("lenient")
	assert.Error(t, err)
}

func TestCreateJob(t *testing.T) {
	store := memstore.New()
	svc := NewJobService(store, store, nil)
	alumni, alumniCtx := seed(t, store, models.RoleAlumni, "alice")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")

	job := newJob(t, svc, alumniCtx)
	assert.Equal(t, models.JobTypeInternship, job.Type)
	assert.Equal(t, models.PostingSnapshot{AlumniName: "alice", AlumniEmail: "alice@example.com"}, job.PostingSnapshot)

	// the snapshot does not follow later profile edits
	alumni.Name = "Alice Renamed"
	require.NoError(t, store.UpdateUser(context.Background(), alumni))
	loaded, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.AlumniName)

	_, err = svc.CreateJob(studentCtx, &dtos.JobCreationRequest{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "role check precedes validation")

	_, err = svc.CreateJob(alumniCtx, &dtos.JobCreationRequest{Title: "x"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Contains(t, apperr.MessageOf(err), "company")

	_, err = svc.CreateJob(context.Background(), &dtos.JobCreationRequest{})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	ghost := session.WithPrincipal(context.Background(), session.Principal{UserID: uuid.New(), UserRole: models.RoleAlumni})
	_, err = svc.CreateJob(ghost, &dtos.JobCreationRequest{
		Title: "a", Company: "b", Description: "c", Requirements: "d", Location: "e", Salary: "f", Type: "Contract",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestApplyConcurrentDuplicates(t *testing.T) {
	store := memstore.New()
	rec := &fakeRecorder{}
	jobs := NewJobService(store, store, nil)
	apps := NewApplicationService(store, store, nil, rec)
	_, alumniCtx := seed(t, store, models.RoleAlumni, "alice")
	student, studentCtx := seed(t, store, models.RoleStudent, "sam")
	job := newJob(t, jobs, alumniCtx)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = apps.Apply(studentCtx, job.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Same(t, models.ErrAlreadyApplied, err)
	}
	assert.Equal(t, 1, succeeded)

	mine, err := apps.ListMyApplications(studentCtx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	loaded, err := jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, loaded.HasApplicant(student.ID))
	assert.Len(t, loaded.Applicants, 1)

	assert.Equal(t, 1, rec.events["apply/ok"])
	assert.Equal(t, attempts-1, rec.events["apply/conflict"])
}

func TestCheckApplication(t *testing.T) {
	store := memstore.New()
	jobs := NewJobService(store, store, nil)
	apps := NewApplicationService(store, store, nil, nil)
	_, alumniCtx := seed(t, store, models.RoleAlumni, "alice")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")
	job := newJob(t, jobs, alumniCtx)

	res, err := apps.CheckApplication(studentCtx, job.ID)
	require.NoError(t, err)
	assert.False(t, res.HasApplied)
	assert.Nil(t, res.Application)

	_, err = apps.Apply(studentCtx, job.ID)
	require.NoError(t, err)

	res, err = apps.CheckApplication(studentCtx, job.ID)
	require.NoError(t, err)
	assert.True(t, res.HasApplied)
	require.NotNil(t, res.Application)
	assert.Equal(t, models.StatusPending, res.Application.Status)

	_, err = apps.CheckApplication(alumniCtx, job.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestSetApplicationStatus(t *testing.T) {
	store := memstore.New()
	strict, err := NewTransitionPolicy(config.PolicyStrict)
	require.NoError(t, err)
	jobs := NewJobService(store, store, nil)
	apps := NewApplicationService(store, store, strict, nil)
	_, ownerCtx := seed(t, store, models.RoleAlumni, "alice")
	_, otherCtx := seed(t, store, models.RoleAlumni, "bob")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")
	job := newJob(t, jobs, ownerCtx)
	app, err := apps.Apply(studentCtx, job.ID)
	require.NoError(t, err)

	_, err = apps.SetStatus(ownerCtx, app.ID, "pending")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = apps.SetStatus(otherCtx, app.ID, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = apps.SetStatus(ownerCtx, uuid.New(), "accepted")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	updated, err := apps.SetStatus(ownerCtx, app.ID, " Accepted ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = apps.SetStatus(ownerCtx, app.ID, "rejected")
	assert.Same(t, models.ErrAlreadyDecided, err)
}

func TestRequestMentorship(t *testing.T) {
	store := memstore.New()
	svc := NewMentorshipService(store, store, nil, nil)
	mentor, mentorCtx := seed(t, store, models.RoleAlumni, "alice")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")

	_, err := svc.RequestMentorship(mentorCtx, "")
	assert.Equal(t, "Mentor ID is required", apperr.MessageOf(err))

	_, err = svc.RequestMentorship(context.Background(), mentor.ID.String())
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestMentorship(studentCtx, mentor.ID.String())
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.True(t, errors.Is(err, models.ErrAlreadyRequested))
		}
	}
	assert.Equal(t, 1, created)

	reqs, err := svc.ListMentorRequests(mentorCtx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "sam", reqs[0].Student.Name)

	updated, err := svc.SetStatus(mentorCtx, reqs[0].ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	// permissive policy lets the mentor change their mind
	updated, err = svc.SetStatus(mentorCtx, reqs[0].ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = svc.SetStatus(studentCtx, reqs[0].ID, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func workshopReq(capacity int) *dtos.WorkshopRequest {
	return &dtos.WorkshopRequest{
		Title:       "Go",
		Description: "Concurrency",
		Date:        time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Capacity:    capacity,
	}
}

func TestRegisterNeverExceedsCapacity(t *testing.T) {
	store := memstore.New()
	rec := &fakeRecorder{}
	svc := NewWorkshopService(store, rec)
	_, alumniCtx := seed(t, store, models.RoleAlumni, "alice")
	w, err := svc.CreateWorkshop(alumniCtx, workshopReq(4))
	require.NoError(t, err)

	const students = 20
	ctxs := make([]context.Context, students)
	for i := range ctxs {
		_, ctxs[i] = seed(t, store, models.RoleStudent, uuid.NewString()[:8])
	}

	var wg sync.WaitGroup
	for _, ctx := range ctxs {
		wg.Add(1)
		go func(ctx context.Context) {
			defer wg.Done()
			err := svc.Register(ctx, w.ID.String())
			if err != nil {
				assert.Same(t, models.ErrWorkshopFull, err)
			}
		}(ctx)
	}
	wg.Wait()

	loaded, err := store.GetWorkshop(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Registered, 4)
	assert.Equal(t, 4, rec.events["workshop_register/ok"])
	assert.Equal(t, students-4, rec.events["workshop_register/conflict"])
}

func TestWorkshopOwnership(t *testing.T) {
	store := memstore.New()
	svc := NewWorkshopService(store, nil)
	_, ownerCtx := seed(t, store, models.RoleAlumni, "alice")
	_, otherCtx := seed(t, store, models.RoleAlumni, "bob")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")

	_, err := svc.CreateWorkshop(studentCtx, workshopReq(3))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.CreateWorkshop(ownerCtx, workshopReq(0))
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	w, err := svc.CreateWorkshop(ownerCtx, workshopReq(2))
	require.NoError(t, err)

	_, err = svc.UpdateWorkshop(otherCtx, w.ID, workshopReq(5))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.DeleteWorkshop(otherCtx, w.ID), apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.DeleteWorkshop(ownerCtx, uuid.New()), apperr.KindNotFound))

	require.NoError(t, svc.Register(studentCtx, w.ID.String()))
	assert.Same(t, models.ErrAlreadyRegistered, svc.Register(studentCtx, w.ID.String()))
	assert.True(t, apperr.Is(svc.Register(studentCtx, "bad"), apperr.KindBadRequest))
	assert.True(t, apperr.Is(svc.Register(ownerCtx, w.ID.String()), apperr.KindForbidden))

	mine, err := svc.ListByStudent(studentCtx, mustPrincipal(t, studentCtx).UserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.DeleteWorkshop(ownerCtx, w.ID))
	all, err := svc.ListWorkshops(studentCtx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateWorkshopChecksOwnerBeforeBody(t *testing.T) {
	store := memstore.New()
	svc := NewWorkshopService(store, nil)
	_, ownerCtx := seed(t, store, models.RoleAlumni, "alice")
	_, otherCtx := seed(t, store, models.RoleAlumni, "bob")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")

	w, err := svc.CreateWorkshop(ownerCtx, workshopReq(2))
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
		id   uuid.UUID
		want apperr.Kind
	}{
		{"student", studentCtx, w.ID, apperr.KindForbidden},
		{"other alumni", otherCtx, w.ID, apperr.KindForbidden},
		{"missing workshop", ownerCtx, uuid.New(), apperr.KindNotFound},
		{"owner", ownerCtx, w.ID, apperr.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, req := range []*dtos.WorkshopRequest{nil, {}} {
				_, err := svc.UpdateWorkshop(tt.ctx, tt.id, req)
				assert.True(t, apperr.Is(err, tt.want), "got %v", err)
			}
		})
	}
}

func TestCreatedResourcesHaveEmptyMemberSets(t *testing.T) {
	store := memstore.New()
	_, alumniCtx := seed(t, store, models.RoleAlumni, "alice")

	job := newJob(t, NewJobService(store, store, nil), alumniCtx)
	assert.NotNil(t, job.Applicants)
	assert.Empty(t, job.Applicants)

	w, err := NewWorkshopService(store, nil).CreateWorkshop(alumniCtx, workshopReq(1))
	require.NoError(t, err)
	assert.NotNil(t, w.Registered)
	assert.Empty(t, w.Registered)
}

func TestRejectedOutcomesAreRecorded(t *testing.T) {
	store := memstore.New()
	rec := &fakeRecorder{}
	jobs := NewJobService(store, store, rec)
	workshops := NewWorkshopService(store, rec)
	_, ownerCtx := seed(t, store, models.RoleAlumni, "alice")
	_, otherCtx := seed(t, store, models.RoleAlumni, "bob")
	_, studentCtx := seed(t, store, models.RoleStudent, "sam")

	_, err := jobs.CreateJob(studentCtx, &dtos.JobCreationRequest{})
	require.Error(t, err)
	_, err = jobs.CreateJob(ownerCtx, &dtos.JobCreationRequest{})
	require.Error(t, err)
	job := newJob(t, jobs, ownerCtx)
	require.Error(t, jobs.DeleteJob(otherCtx, job.ID))

	_, err = workshops.CreateWorkshop(studentCtx, workshopReq(1))
	require.Error(t, err)
	w, err := workshops.CreateWorkshop(ownerCtx, workshopReq(1))
	require.NoError(t, err)
	_, err = workshops.UpdateWorkshop(otherCtx, w.ID, workshopReq(3))
	require.Error(t, err)
	_, err = workshops.UpdateWorkshop(ownerCtx, w.ID, workshopReq(0))
	require.Error(t, err)
	require.Error(t, workshops.DeleteWorkshop(ownerCtx, uuid.New()))

	assert.Equal(t, map[string]int{
		"job_post/forbidden":          1,
		"job_post/bad_request":        1,
		"job_post/ok":                 1,
		"job_delete/forbidden":        1,
		"workshop_create/forbidden":   1,
		"workshop_create/ok":          1,
		"workshop_update/forbidden":   1,
		"workshop_update/bad_request": 1,
		"workshop_delete/not_found":   1,
	}, rec.events)
}

func mustPrincipal(t *testing.T, ctx context.Context) session.Principal {
	t.Helper()
	p, err := session.Require(ctx)
	require.NoError(t, err)
	return p
}

type stubTokens struct{}

func (stubTokens) Issue(u *models.User) (string, time.Time, error) {
	return "token-" + u.ID.String(), time.Unix(0, 0), nil
}

func TestUserService(t *testing.T) {
	store := memstore.New()
	svc := NewUserService(store, stubTokens{})
	ctx := context.Background()

	res, err := svc.Register(ctx, &dtos.RegisterRequest{Name: " Sam ", Email: " SAM@example.com", Password: "long enough", Role: "Student"})
	require.NoError(t, err)
	assert.Equal(t, "Sam", res.User.Name)
	assert.Equal(t, "sam@example.com", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.Equal(t, "token-"+res.User.ID.String(), res.Token)

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Name: "Sam", Email: "sam@example.com", Password: "long enough", Role: "student"})
	assert.Same(t, models.ErrEmailTaken, err)

	_, err = svc.Register(ctx, &dtos.RegisterRequest{Name: "Kim", Email: "kim@example.com", Password: "short", Role: "student"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.Login(ctx, &dtos.LoginRequest{Email: "nobody@example.com", Password: "long enough"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = svc.Login(ctx, &dtos.LoginRequest{Email: "sam@example.com", Password: "wrong password"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	res, err = svc.Login(ctx, &dtos.LoginRequest{Email: "Sam@Example.com", Password: "long enough"})
	require.NoError(t, err)

	authed := session.WithPrincipal(ctx, session.Principal{UserID: res.User.ID, UserRole: res.User.Role})
	updated, err := svc.UpdateProfile(authed, &dtos.ProfileUpdateRequest{
		Profile: models.Profile{Branch: "CSE", GraduationYear: "2026"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.Name)
	assert.Equal(t, "CSE", updated.Profile.Data().Branch)

	alumni, err := svc.ListAlumni(authed)
	require.NoError(t, err)
	assert.Empty(t, alumni)
}
