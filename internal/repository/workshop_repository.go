package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

type WorkshopRepository struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

func (r *WorkshopRepository) CreateWorkshop(ctx context.Context, w *models.Workshop) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error
	return translate(err, "Workshop", nil)
}

func (r *WorkshopRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Poster", memberColumns).Preload("Registered", memberColumns)
}

func (r *WorkshopRepository) GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	var w models.Workshop
	if err := r.withAssociations(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Workshop", nil)
	}
	return &w, nil
}

// lockWorkshop selects the workshop row FOR UPDATE inside tx.
func lockWorkshop(tx *gorm.DB, id uuid.UUID) (*models.Workshop, error) {
	var w models.Workshop
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func countRegistered(tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := tx.Table(workshopRegistrationsTable).Where("workshop_id = ?", id).Count(&n).Error
	return n, err
}

func (r *WorkshopRepository) UpdateWorkshop(ctx context.Context, w *models.Workshop) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockWorkshop(tx, w.ID)
		if err != nil {
			return err
		}
		n, err := countRegistered(tx, w.ID)
		if err != nil {
			return err
		}
		if int64(w.Capacity) < n {
			return models.ErrCapacityBelowTaken
		}
		return tx.Model(current).Updates(map[string]any{
			"title":       w.Title,
			"description": w.Description,
			"date":        w.Date,
			"time":        w.Time,
			"venue":       w.Venue,
			"capacity":    w.Capacity,
			"duration":    w.Duration,
			"tags":        w.Tags,
		}).Error
	})
	return translate(err, "Workshop", nil)
}

func (r *WorkshopRepository) DeleteWorkshop(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+workshopRegistrationsTable+" WHERE workshop_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Workshop{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Workshop not found")
		}
		return nil
	})
	return translate(err, "Workshop", nil)
}

func (r *WorkshopRepository) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	var ws []models.Workshop
	if err := r.withAssociations(ctx).Order("created_at DESC").Find(&ws).Error; err != nil {
		return nil, translate(err, "Workshop", nil)
	}
	return ws, nil
}

func (r *WorkshopRepository) ListWorkshopsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.Workshop, error) {
	var ws []models.Workshop
	err := r.withAssociations(ctx).
		Where("posted_by = ?", alumniID).
		Order("created_at DESC").
		Find(&ws).Error
	if err != nil {
		return nil, translate(err, "Workshop", nil)
	}
	return ws, nil
}

func (r *WorkshopRepository) ListWorkshopsByRegistrant(ctx context.Context, studentID uuid.UUID) ([]models.Workshop, error) {
	var ws []models.Workshop
	err := r.withAssociations(ctx).
		Joins("JOIN workshop_registrations wr ON wr.workshop_id = workshops.id").
		Where("wr.user_id = ?", studentID).
		Order("workshops.created_at DESC").
		Find(&ws).Error
	if err != nil {
		return nil, translate(err, "Workshop", nil)
	}
	return ws, nil
}

// Register holds the workshop row lock while it checks membership and
// capacity, so concurrent registrations cannot overfill the workshop.
func (r *WorkshopRepository) Register(ctx context.Context, workshopID, studentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := lockWorkshop(tx, workshopID)
		if err != nil {
			return err
		}

		var mine int64
		err = tx.Table(workshopRegistrationsTable).
			Where("workshop_id = ? AND user_id = ?", workshopID, studentID).
			Count(&mine).Error
		if err != nil {
			return err
		}
		if mine > 0 {
			return models.ErrAlreadyRegistered
		}

		n, err := countRegistered(tx, workshopID)
		if err != nil {
			return err
		}
		if n >= int64(w.Capacity) {
			return models.ErrWorkshopFull
		}
		return tx.Table(workshopRegistrationsTable).
			Create(map[string]any{"workshop_id": workshopID, "user_id": studentID}).Error
	})
	return translate(err, "Workshop", models.ErrAlreadyRegistered)
}
