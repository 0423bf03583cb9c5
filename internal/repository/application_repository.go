package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// CreateApplication inserts the application and the job_applicants row in one
// transaction. The applicant insert is idempotent; the (job_id, student_id)
// unique index rejects a concurrent duplicate application.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(app).Error; err != nil {
			return err
		}
		return tx.Table(jobApplicantsTable).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]any{"job_id": app.JobID, "user_id": app.StudentID}).Error
	})
	return translate(err, "Application", models.ErrAlreadyApplied)
}

func (r *ApplicationRepository) FindApplication(ctx context.Context, jobID, studentID uuid.UUID) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(&app).Error
	if err != nil {
		return nil, translate(err, "Application", nil)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetApplication(ctx context.Context, id uuid.UUID) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := r.db.WithContext(ctx).Preload("Job").Preload("Student").First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Application", nil)
	}
	return &app, nil
}

func (r *ApplicationRepository) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("student_id = ?", studentID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err, "Application", nil)
	}
	return apps, nil
}

func (r *ApplicationRepository) ListApplicationsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Student").
		Joins("JOIN jobs ON jobs.id = job_applications.job_id").
		Where("jobs.posted_by = ?", alumniID).
		Order("job_applications.applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err, "Application", nil)
	}
	return apps, nil
}

// SetApplicationStatus is a conditional update: with a non-empty from it only
// matches rows still in one of those statuses.
func (r *ApplicationRepository) SetApplicationStatus(ctx context.Context, id uuid.UUID, to models.Status, from []models.Status) (*models.JobApplication, error) {
	if err := setStatus(ctx, r.db, &models.JobApplication{}, "Application", id, to, from); err != nil {
		return nil, err
	}
	return r.GetApplication(ctx, id)
}

// setStatus is shared by applications and mentorship requests.
func setStatus(ctx context.Context, db *gorm.DB, model any, entity string, id uuid.UUID, to models.Status, from []models.Status) error {
	q := db.WithContext(ctx).Model(model).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	res := q.Update("status", to)
	if res.Error != nil {
		return translate(res.Error, entity, nil)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, entity, nil)
	}
	if n == 0 {
		return apperr.NotFound(entity + " not found")
	}
	return models.ErrAlreadyDecided
}
