package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type WorkshopService struct {
	Workshops WorkshopStore
	Recorder  Recorder
}

func NewWorkshopService(workshops WorkshopStore, rec Recorder) *WorkshopService {
	return &WorkshopService{Workshops: workshops, Recorder: rec}
}

func (s *WorkshopService) CreateWorkshop(ctx context.Context, req *dtos.WorkshopRequest) (*models.Workshop, error) {
	w, err := s.createWorkshop(ctx, req)
	record(s.Recorder, "workshop_create", err)
	return w, err
}

func (s *WorkshopService) createWorkshop(ctx context.Context, req *dtos.WorkshopRequest) (*models.Workshop, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can create workshops")
	if err != nil {
		return nil, err
	}
	if err := validateWorkshop(req); err != nil {
		return nil, err
	}
	w := &models.Workshop{PostedBy: p.UserID, Registered: []models.User{}}
	applyWorkshopFields(w, req)
	if err := s.Workshops.CreateWorkshop(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func validateWorkshop(req *dtos.WorkshopRequest) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return apperr.BadRequest("Title is required")
	case strings.TrimSpace(req.Description) == "":
		return apperr.BadRequest("Description is required")
	case req.Date.IsZero():
		return apperr.BadRequest("Date is required")
	case req.Capacity < 1:
		return apperr.BadRequest("Capacity must be at least 1")
	}
	return nil
}

func applyWorkshopFields(w *models.Workshop, req *dtos.WorkshopRequest) {
	w.Title = strings.TrimSpace(req.Title)
	w.Description = strings.TrimSpace(req.Description)
	w.Date = req.Date
	w.Time = req.Time
	w.Venue = req.Venue
	w.Capacity = req.Capacity
	w.Duration = req.Duration
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	w.Tags = datatypes.JSONSlice[string](tags)
}

// ownedWorkshop loads a workshop and checks the caller posted it.
func (s *WorkshopService) ownedWorkshop(ctx context.Context, id uuid.UUID, action string) (*models.Workshop, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can "+action+" workshops")
	if err != nil {
		return nil, err
	}
	w, err := s.Workshops.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.PostedBy != p.UserID {
		return nil, apperr.Forbidden("You can only " + action + " your own workshops")
	}
	return w, nil
}

// UpdateWorkshop rewrites a workshop the caller owns. A nil req stands for a
// body that could not be decoded; it is rejected only after the ownership check.
func (s *WorkshopService) UpdateWorkshop(ctx context.Context, id uuid.UUID, req *dtos.WorkshopRequest) (*models.Workshop, error) {
	w, err := s.updateWorkshop(ctx, id, req)
	record(s.Recorder, "workshop_update", err)
	return w, err
}

func (s *WorkshopService) updateWorkshop(ctx context.Context, id uuid.UUID, req *dtos.WorkshopRequest) (*models.Workshop, error) {
	w, err := s.ownedWorkshop(ctx, id, "update")
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.BadRequest("Invalid JSON format")
	}
	if err := validateWorkshop(req); err != nil {
		return nil, err
	}
	if req.Capacity < len(w.Registered) {
		return nil, models.ErrCapacityBelowTaken
	}
	applyWorkshopFields(w, req)
	if err := s.Workshops.UpdateWorkshop(ctx, w); err != nil {
		return nil, err
	}
	return s.Workshops.GetWorkshop(ctx, id)
}

func (s *WorkshopService) DeleteWorkshop(ctx context.Context, id uuid.UUID) error {
	_, err := s.ownedWorkshop(ctx, id, "delete")
	if err == nil {
		err = s.Workshops.DeleteWorkshop(ctx, id)
	}
	record(s.Recorder, "workshop_delete", err)
	return err
}

// Register adds the calling student to a workshop. The duplicate and capacity
// checks run inside the store under a row lock.
func (s *WorkshopService) Register(ctx context.Context, workshopID string) error {
	err := s.register(ctx, workshopID)
	record(s.Recorder, "workshop_register", err)
	return err
}

func (s *WorkshopService) register(ctx context.Context, rawID string) error {
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can register for workshops")
	if err != nil {
		return err
	}
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return apperr.BadRequest("Workshop ID is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperr.New(apperr.KindBadRequest, "Invalid workshop ID", err)
	}
	return s.Workshops.Register(ctx, id, p.UserID)
}

func (s *WorkshopService) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	return s.Workshops.ListWorkshops(ctx)
}

func (s *WorkshopService) ListByAlumni(ctx context.Context, alumniID uuid.UUID) ([]models.Workshop, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	return s.Workshops.ListWorkshopsByPoster(ctx, alumniID)
}

func (s *WorkshopService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Workshop, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	return s.Workshops.ListWorkshopsByRegistrant(ctx, studentID)
}
