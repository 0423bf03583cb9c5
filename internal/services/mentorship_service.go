package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
	"github.com/justsurfingit/alumni-hub/internal/session"
)

type MentorshipService struct {
	Requests MentorshipStore
	Users    UserStore
	Policy   TransitionPolicy
	Recorder Recorder
}

func NewMentorshipService(reqs MentorshipStore, users UserStore, policy TransitionPolicy, rec Recorder) *MentorshipService {
	if policy == nil {
		policy = permissivePolicy{}
	}
	return &MentorshipService{
		Requests: reqs,
		Users:    users,
		Policy:   policy,
		Recorder: rec,
	}
}

// RequestMentorship sends a pending request from the calling student to an
// alumni mentor. A malformed mentor id is reported before the role check.
func (s *MentorshipService) RequestMentorship(ctx context.Context, mentorID string) (*models.MentorshipRequest, error) {
	req, err := s.request(ctx, mentorID)
	record(s.Recorder, "mentorship_request", err)
	return req, err
}

func (s *MentorshipService) request(ctx context.Context, rawMentorID string) (*models.MentorshipRequest, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	rawMentorID = strings.TrimSpace(rawMentorID)
	if rawMentorID == "" {
		return nil, apperr.BadRequest("Mentor ID is required")
	}
	mentorID, err := uuid.Parse(rawMentorID)
	if err != nil {
		return nil, apperr.New(apperr.KindBadRequest, "Invalid mentor ID", err)
	}
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can request mentorship")
	if err != nil {
		return nil, err
	}

	mentor, err := s.Users.GetUser(ctx, mentorID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound("Mentor not found")
	}
	if err != nil {
		return nil, err
	}
	if mentor.Role != models.RoleAlumni {
		return nil, apperr.BadRequest("Selected user is not an alumni")
	}

	_, err = s.Requests.FindRequest(ctx, mentorID, p.UserID)
	switch {
	case err == nil:
		return nil, models.ErrAlreadyRequested
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	req := &models.MentorshipRequest{
		MentorID:  mentorID,
		StudentID: p.UserID,
		Status:    models.StatusPending,
	}
	if err := s.Requests.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	req.Mentor = mentor
	return req, nil
}

func (s *MentorshipService) ListStudentRequests(ctx context.Context) ([]models.MentorshipRequest, error) {
	p, err := session.RequireRole(ctx, models.RoleStudent, "Only students can view their mentorship requests")
	if err != nil {
		return nil, err
	}
	return s.Requests.ListRequestsByStudent(ctx, p.UserID)
}

func (s *MentorshipService) ListMentorRequests(ctx context.Context) ([]models.MentorshipRequest, error) {
	p, err := session.RequireRole(ctx, models.RoleAlumni, "Only alumni can view mentorship requests")
	if err != nil {
		return nil, err
	}
	return s.Requests.ListRequestsByMentor(ctx, p.UserID)
}

// SetStatus lets the addressed mentor accept or reject a request.
func (s *MentorshipService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.MentorshipRequest, error) {
	req, err := s.setStatus(ctx, id, status)
	record(s.Recorder, "mentorship_status", err)
	return req, err
}

func (s *MentorshipService) setStatus(ctx context.Context, id uuid.UUID, status string) (*models.MentorshipRequest, error) {
	p, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	to, err := parseDecision(status)
	if err != nil {
		return nil, err
	}
	req, err := s.Requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.MentorID != p.UserID {
		return nil, apperr.Forbidden("Not authorized to update this request")
	}
	if err := checkTransition(s.Policy, req.Status, to); err != nil {
		return nil, err
	}
	return s.Requests.SetRequestStatus(ctx, id, to, s.Policy.AllowedFrom(to))
}
