package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:text;not null;index" json:"role"`

	// Free-form profile document, stored as a JSON column.
	Profile datatypes.JSONType[Profile] `json:"profile"`
}

// UserSummary is the view of a user embedded in job and workshop listings.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

func summaryOf(u *User, withEmail bool) *UserSummary {
	if u == nil {
		return nil
	}
	s := UserSummary{ID: u.ID, Name: u.Name}
	if withEmail {
		s.Email = u.Email
	}
	return &s
}

func summarize(users []User, withEmail bool) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, *summaryOf(&users[i], withEmail))
	}
	return out
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	Username       string       `json:"username,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	College        string       `json:"college,omitempty"`
	Degree         string       `json:"degree,omitempty"`
	Major          string       `json:"major,omitempty"`
	GraduationYear string       `json:"graduationYear,omitempty"`
	Branch         string       `json:"branch,omitempty"`
	ProfilePicture string       `json:"profilePicture,omitempty"`
	CVLink         string       `json:"cvLink,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	SocialLinks    SocialLinks  `json:"socialLinks"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
)

func ParseJobType(s string) (JobType, error) {
	switch t := JobType(strings.TrimSpace(s)); t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return t, nil
	default:
		return "", fmt.Errorf("job type must be one of Full-time, Part-time, Internship, Contract")
	}
}

// PostingSnapshot records who posted a job at creation time. It is never
// refreshed when the poster edits their profile later.
type PostingSnapshot struct {
	AlumniName  string `gorm:"not null" json:"alumniName"`
	AlumniEmail string `gorm:"not null" json:"alumniEmail"`
}

type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Title        string  `gorm:"not null" json:"title"`
	Company      string  `gorm:"not null" json:"company"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	Requirements string  `gorm:"type:text;not null" json:"requirements"`
	Location     string  `gorm:"not null" json:"location"`
	Salary       string  `gorm:"not null" json:"salary"`
	Type         JobType `gorm:"type:text;not null" json:"type"`

	PostedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"postedBy"`
	// Association: filled only with Preload("Poster")
	Poster *User `gorm:"foreignKey:PostedBy;constraint:OnDelete:CASCADE" json:"poster,omitempty"`

	PostingSnapshot `gorm:"embedded"`

	Applicants []User `gorm:"many2many:job_applicants;constraint:OnDelete:CASCADE" json:"applicants"`
}

func (j *Job) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// HasApplicant reports whether the user is in the job's applicant set.
func (j *Job) HasApplicant(userID uuid.UUID) bool {
	for _, a := range j.Applicants {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// MarshalJSON renders the poster and applicants as summaries, since job
// listings are public.
func (j Job) MarshalJSON() ([]byte, error) {
	type job Job
	return json.Marshal(struct {
		job
		Poster     *UserSummary  `json:"poster,omitempty"`
		Applicants []UserSummary `json:"applicants"`
	}{
		job:        job(j),
		Poster:     summaryOf(j.Poster, true),
		Applicants: summarize(j.Applicants, true),
	})
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseDecision accepts only the statuses a counterparty may set.
func ParseDecision(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAccepted, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("status must be accepted or rejected, got %q", s)
	}
}

type JobApplication struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppliedAt time.Time `gorm:"autoCreateTime;index" json:"appliedAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_pair" json:"jobId"`
	Job   *Job      `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_pair;index" json:"studentId"`
	Student   *User     `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`

	Status Status `gorm:"type:text;not null;default:pending" json:"status"`
}

func (a *JobApplication) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

type MentorshipRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MentorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mentorship_requests_pair;index" json:"mentorId"`
	Mentor   *User     `gorm:"constraint:OnDelete:CASCADE" json:"mentor,omitempty"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mentorship_requests_pair;index" json:"studentId"`
	Student   *User     `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`

	Status Status `gorm:"type:text;not null;default:pending" json:"status"`
}

func (m *MentorshipRequest) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = StatusPending
	}
	return nil
}

type Workshop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Date        time.Time                   `gorm:"index" json:"date"`
	Time        string                      `json:"time"`
	Venue       string                      `json:"venue"`
	Capacity    int                         `gorm:"not null" json:"capacity"`
	Duration    string                      `json:"duration"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`

	PostedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"postedBy"`
	Poster   *User     `gorm:"foreignKey:PostedBy;constraint:OnDelete:CASCADE" json:"poster,omitempty"`

	Registered []User `gorm:"many2many:workshop_registrations;constraint:OnDelete:CASCADE" json:"registered"`
}

func (w *Workshop) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// MarshalJSON exposes registrants by name only.
func (w Workshop) MarshalJSON() ([]byte, error) {
	type workshop Workshop
	return json.Marshal(struct {
		workshop
		Poster     *UserSummary  `json:"poster,omitempty"`
		Registered []UserSummary `json:"registered"`
	}{
		workshop:   workshop(w),
		Poster:     summaryOf(w.Poster, true),
		Registered: summarize(w.Registered, false),
	})
}

// IsRegistered reports whether the user is in the workshop's registered set.
func (w *Workshop) IsRegistered(userID uuid.UUID) bool {
	for _, u := range w.Registered {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// All lists every model for AutoMigrate, in dependency order.
func All() []any {
	return []any{&User{}, &Job{}, &JobApplication{}, &MentorshipRequest{}, &Workshop{}}
}
