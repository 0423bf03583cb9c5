package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateJob(ctx context.Context, job *models.Job) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
	return translate(err, "Job", nil)
}

func (r *JobRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Poster", memberColumns).Preload("Applicants", memberColumns)
}

func (r *JobRepository) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.withAssociations(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Job", nil)
	}
	return &job, nil
}

func (r *JobRepository) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.withAssociations(ctx).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, translate(err, "Job", nil)
	}
	return jobs, nil
}

func (r *JobRepository) ListJobsByPoster(ctx context.Context, alumniID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.withAssociations(ctx).
		Where("posted_by = ?", alumniID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err, "Job", nil)
	}
	return jobs, nil
}

// DeleteJob removes the job with its applications and applicant rows.
func (r *JobRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+jobApplicantsTable+" WHERE job_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Job{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Job not found")
		}
		return nil
	})
	return translate(err, "Job", nil)
}
