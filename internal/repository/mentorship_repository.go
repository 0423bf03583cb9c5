package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/alumni-hub/internal/models"
)

type MentorshipRepository struct {
	db *gorm.DB
}

func NewMentorshipRepository(db *gorm.DB) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

func (r *MentorshipRepository) CreateRequest(ctx context.Context, req *models.MentorshipRequest) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	return translate(err, "Mentorship request", models.ErrAlreadyRequested)
}

func (r *MentorshipRepository) FindRequest(ctx context.Context, mentorID, studentID uuid.UUID) (*models.MentorshipRequest, error) {
	var req models.MentorshipRequest
	err := r.db.WithContext(ctx).
		Where("mentor_id = ? AND student_id = ?", mentorID, studentID).
		First(&req).Error
	if err != nil {
		return nil, translate(err, "Mentorship request", nil)
	}
	return &req, nil
}

func (r *MentorshipRepository) GetRequest(ctx context.Context, id uuid.UUID) (*models.MentorshipRequest, error) {
	var req models.MentorshipRequest
	err := r.db.WithContext(ctx).
		Preload("Mentor").
		Preload("Student").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "Mentorship request", nil)
	}
	return &req, nil
}

func (r *MentorshipRepository) ListRequestsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.MentorshipRequest, error) {
	var reqs []models.MentorshipRequest
	err := r.db.WithContext(ctx).
		Preload("Mentor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, translate(err, "Mentorship request", nil)
	}
	return reqs, nil
}

func (r *MentorshipRepository) ListRequestsByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.MentorshipRequest, error) {
	var reqs []models.MentorshipRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("mentor_id = ?", mentorID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, translate(err, "Mentorship request", nil)
	}
	return reqs, nil
}

func (r *MentorshipRepository) SetRequestStatus(ctx context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.MentorshipRequest, error) {
	if err := setStatus(ctx, r.db, &models.MentorshipRequest{}, "Mentorship request", id, to, from); err != nil {
		return nil, err
	}
	return r.GetRequest(ctx, id)
}
