// Package memstore is an in-memory implementation of the service stores,
// used by service and handler tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

type Store struct {
	mu sync.Mutex

	seq   int
	clock time.Time

	users      map[uuid.UUID]models.User
	jobs       map[uuid.UUID]models.Job
	applicants map[uuid.UUID][]uuid.UUID
	apps       map[uuid.UUID]models.JobApplication
	requests   map[uuid.UUID]models.MentorshipRequest
	workshops  map[uuid.UUID]models.Workshop
	registered map[uuid.UUID][]uuid.UUID
	order      map[uuid.UUID]int
}

func New() *Store {
	return &Store{
		clock:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		users:      map[uuid.UUID]models.User{},
		jobs:       map[uuid.UUID]models.Job{},
		applicants: map[uuid.UUID][]uuid.UUID{},
		apps:       map[uuid.UUID]models.JobApplication{},
		requests:   map[uuid.UUID]models.MentorshipRequest{},
		workshops:  map[uuid.UUID]models.Workshop{},
		registered: map[uuid.UUID][]uuid.UUID{},
		order:      map[uuid.UUID]int{},
	}
}

// stamp assigns an id if missing and returns a strictly increasing timestamp.
func (s *Store) stamp(id *uuid.UUID) time.Time {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	s.seq++
	s.order[*id] = s.seq
	return s.clock.Add(time.Duration(s.seq) * time.Second)
}

func (s *Store) newestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] > s.order[ids[j]] })
}

func (s *Store) userList(ids []uuid.UUID) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// member loads only the columns listings select: id, name, email, role.
func (s *Store) member(id uuid.UUID) (models.User, bool) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, true
}

func (s *Store) memberList(ids []uuid.UUID) []models.User {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.member(id); ok {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) memberPtr(id uuid.UUID) *models.User {
	u, ok := s.member(id)
	if !ok {
		return nil
	}
	return &u
}

func (s *Store) userPtr(id uuid.UUID) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	now := s.stamp(&user.ID)
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.userPtr(id); u != nil {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return apperr.NotFound("User not found")
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, u := range s.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	s.newestFirst(ids)
	return s.userList(ids), nil
}

// Jobs

func (s *Store) CreateJob(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.CreatedAt = s.stamp(&job.ID)
	stored := *job
	stored.Poster, stored.Applicants = nil, nil
	s.jobs[job.ID] = stored
	return nil
}

func (s *Store) job(id uuid.UUID) (*models.Job, bool) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	j.Poster = s.memberPtr(j.PostedBy)
	j.Applicants = s.memberList(s.applicants[id])
	return &j, true
}

func (s *Store) GetJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.job(id); ok {
		return j, nil
	}
	return nil, apperr.NotFound("Job not found")
}

func (s *Store) listJobs(keep func(models.Job) bool) []models.Job {
	var ids []uuid.UUID
	for id, j := range s.jobs {
		if keep(j) {
			ids = append(ids, id)
		}
	}
	s.newestFirst(ids)
	out := make([]models.Job, 0, len(ids))
	for _, id := range ids {
		j, _ := s.job(id)
		out = append(out, *j)
	}
	return out
}

func (s *Store) ListJobs(context.Context) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listJobs(func(models.Job) bool { return true }), nil
}

func (s *Store) ListJobsByPoster(_ context.Context, alumniID uuid.UUID) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listJobs(func(j models.Job) bool { return j.PostedBy == alumniID }), nil
}

func (s *Store) DeleteJob(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return apperr.NotFound("Job not found")
	}
	delete(s.jobs, id)
	delete(s.applicants, id)
	for appID, a := range s.apps {
		if a.JobID == id {
			delete(s.apps, appID)
		}
	}
	return nil
}

// Applications

func (s *Store) CreateApplication(_ context.Context, app *models.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[app.JobID]; !ok {
		return apperr.NotFound("Job not found")
	}
	for _, a := range s.apps {
		if a.JobID == app.JobID && a.StudentID == app.StudentID {
			return models.ErrAlreadyApplied
		}
	}
	now := s.stamp(&app.ID)
	app.AppliedAt, app.UpdatedAt = now, now
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	stored := *app
	stored.Job, stored.Student = nil, nil
	s.apps[app.ID] = stored
	if !slices.Contains(s.applicants[app.JobID], app.StudentID) {
		s.applicants[app.JobID] = append(s.applicants[app.JobID], app.StudentID)
	}
	return nil
}

func (s *Store) application(a models.JobApplication) models.JobApplication {
	a.Job, _ = s.job(a.JobID)
	a.Student = s.userPtr(a.StudentID)
	return a
}

func (s *Store) FindApplication(_ context.Context, jobID, studentID uuid.UUID) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.JobID == jobID && a.StudentID == studentID {
			out := s.application(a)
			return &out, nil
		}
	}
	return nil, apperr.NotFound("Application not found")
}

func (s *Store) GetApplication(_ context.Context, id uuid.UUID) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, apperr.NotFound("Application not found")
	}
	out := s.application(a)
	return &out, nil
}

func (s *Store) listApplications(keep func(models.JobApplication) bool) []models.JobApplication {
	var ids []uuid.UUID
	for id, a := range s.apps {
		if keep(a) {
			ids = append(ids, id)
		}
	}
	s.newestFirst(ids)
	out := make([]models.JobApplication, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.application(s.apps[id]))
	}
	return out
}

func (s *Store) ListApplicationsByStudent(_ context.Context, studentID uuid.UUID) ([]models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listApplications(func(a models.JobApplication) bool { return a.StudentID == studentID }), nil
}

func (s *Store) ListApplicationsByPoster(_ context.Context, alumniID uuid.UUID) ([]models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listApplications(func(a models.JobApplication) bool {
		return s.jobs[a.JobID].PostedBy == alumniID
	}), nil
}

func (s *Store) SetApplicationStatus(_ context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, apperr.NotFound("Application not found")
	}
	if len(from) > 0 && !slices.Contains(from, a.Status) {
		return nil, models.ErrAlreadyDecided
	}
	a.Status = to
	s.apps[id] = a
	out := s.application(a)
	return &out, nil
}

// Mentorship

func (s *Store) CreateRequest(_ context.Context, req *models.MentorshipRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.MentorID == req.MentorID && r.StudentID == req.StudentID {
			return models.ErrAlreadyRequested
		}
	}
	now := s.stamp(&req.ID)
	req.CreatedAt, req.UpdatedAt = now, now
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	stored := *req
	stored.Mentor, stored.Student = nil, nil
	s.requests[req.ID] = stored
	return nil
}

func (s *Store) request(r models.MentorshipRequest) models.MentorshipRequest {
	r.Mentor = s.userPtr(r.MentorID)
	r.Student = s.userPtr(r.StudentID)
	return r
}

func (s *Store) FindRequest(_ context.Context, mentorID, studentID uuid.UUID) (*models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.MentorID == mentorID && r.StudentID == studentID {
			out := s.request(r)
			return &out, nil
		}
	}
	return nil, apperr.NotFound("Mentorship request not found")
}

func (s *Store) GetRequest(_ context.Context, id uuid.UUID) (*models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, apperr.NotFound("Mentorship request not found")
	}
	out := s.request(r)
	return &out, nil
}

func (s *Store) listRequests(keep func(models.MentorshipRequest) bool) []models.MentorshipRequest {
	var ids []uuid.UUID
	for id, r := range s.requests {
		if keep(r) {
			ids = append(ids, id)
		}
	}
	s.newestFirst(ids)
	out := make([]models.MentorshipRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.request(s.requests[id]))
	}
	return out
}

func (s *Store) ListRequestsByStudent(_ context.Context, studentID uuid.UUID) ([]models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRequests(func(r models.MentorshipRequest) bool { return r.StudentID == studentID }), nil
}

func (s *Store) ListRequestsByMentor(_ context.Context, mentorID uuid.UUID) ([]models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRequests(func(r models.MentorshipRequest) bool { return r.MentorID == mentorID }), nil
}

func (s *Store) SetRequestStatus(_ context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, apperr.NotFound("Mentorship request not found")
	}
	if len(from) > 0 && !slices.Contains(from, r.Status) {
		return nil, models.ErrAlreadyDecided
	}
	r.Status = to
	s.requests[id] = r
	out := s.request(r)
	return &out, nil
}

// Workshops

func (s *Store) CreateWorkshop(_ context.Context, w *models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.stamp(&w.ID)
	w.CreatedAt, w.UpdatedAt = now, now
	stored := *w
	stored.Poster, stored.Registered = nil, nil
	s.workshops[w.ID] = stored
	return nil
}

func (s *Store) workshop(id uuid.UUID) (*models.Workshop, bool) {
	w, ok := s.workshops[id]
	if !ok {
		return nil, false
	}
	w.Poster = s.memberPtr(w.PostedBy)
	w.Registered = s.memberList(s.registered[id])
	return &w, true
}

func (s *Store) GetWorkshop(_ context.Context, id uuid.UUID) (*models.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.workshop(id); ok {
		return w, nil
	}
	return nil, apperr.NotFound("Workshop not found")
}

func (s *Store) UpdateWorkshop(_ context.Context, w *models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workshops[w.ID]; !ok {
		return apperr.NotFound("Workshop not found")
	}
	if w.Capacity < len(s.registered[w.ID]) {
		return models.ErrCapacityBelowTaken
	}
	stored := *w
	stored.Poster, stored.Registered = nil, nil
	s.workshops[w.ID] = stored
	return nil
}

func (s *Store) DeleteWorkshop(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workshops[id]; !ok {
		return apperr.NotFound("Workshop not found")
	}
	delete(s.workshops, id)
	delete(s.registered, id)
	return nil
}

func (s *Store) listWorkshops(keep func(id uuid.UUID, w models.Workshop) bool) []models.Workshop {
	var ids []uuid.UUID
	for id, w := range s.workshops {
		if keep(id, w) {
			ids = append(ids, id)
		}
	}
	s.newestFirst(ids)
	out := make([]models.Workshop, 0, len(ids))
	for _, id := range ids {
		w, _ := s.workshop(id)
		out = append(out, *w)
	}
	return out
}

func (s *Store) ListWorkshops(context.Context) ([]models.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWorkshops(func(uuid.UUID, models.Workshop) bool { return true }), nil
}

func (s *Store) ListWorkshopsByPoster(_ context.Context, alumniID uuid.UUID) ([]models.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWorkshops(func(_ uuid.UUID, w models.Workshop) bool { return w.PostedBy == alumniID }), nil
}

func (s *Store) ListWorkshopsByRegistrant(_ context.Context, studentID uuid.UUID) ([]models.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWorkshops(func(id uuid.UUID, _ models.Workshop) bool {
		return slices.Contains(s.registered[id], studentID)
	}), nil
}

func (s *Store) Register(_ context.Context, workshopID, studentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workshops[workshopID]
	if !ok {
		return apperr.NotFound("Workshop not found")
	}
	regs := s.registered[workshopID]
	if slices.Contains(regs, studentID) {
		return models.ErrAlreadyRegistered
	}
	if len(regs) >= w.Capacity {
		return models.ErrWorkshopFull
	}
	s.registered[workshopID] = append(regs, studentID)
	return nil
}
