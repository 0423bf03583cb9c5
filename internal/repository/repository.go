// Package repository implements the service stores on PostgreSQL with gorm.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/services"
)

var (
	_ services.UserStore        = (*UserRepository)(nil)
	_ services.JobStore         = (*JobRepository)(nil)
	_ services.ApplicationStore = (*ApplicationRepository)(nil)
	_ services.MentorshipStore  = (*MentorshipRepository)(nil)
	_ services.WorkshopStore    = (*WorkshopRepository)(nil)
)

// Join tables created by gorm for the many2many associations.
const (
	jobApplicantsTable         = "job_applicants"
	workshopRegistrationsTable = "workshop_registrations"
)

// translate maps gorm errors onto apperr kinds. The database must be opened
// with TranslateError so unique violations arrive as gorm.ErrDuplicatedKey.
func translate(err error, entity string, duplicate *apperr.Error) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if duplicate != nil {
			return duplicate
		}
		return apperr.Conflict(entity + " already exists")
	default:
		return apperr.Internal("database error", err)
	}
}

// memberColumns narrows a user preload to what job and workshop listings show.
func memberColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "role")
}

// Stores bundles every repository over one connection pool.
type Stores struct {
	Users        *UserRepository
	Jobs         *JobRepository
	Applications *ApplicationRepository
	Mentorship   *MentorshipRepository
	Workshops    *WorkshopRepository
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		Users:        NewUserRepository(db),
		Jobs:         NewJobRepository(db),
		Applications: NewApplicationRepository(db),
		Mentorship:   NewMentorshipRepository(db),
		Workshops:    NewWorkshopRepository(db),
	}
}
