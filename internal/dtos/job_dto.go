package dtos

import "github.com/justsurfingit/alumni-hub/internal/models"

type JobCreationRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Requirements string `json:"requirements" binding:"required"`
	Location     string `json:"location" binding:"required"`
	Salary       string `json:"salary" binding:"required"`
	Type         string `json:"type" binding:"required"` // Full-time, Part-time, Internship or Contract
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// CheckApplicationResponse answers the check-application endpoint.
type CheckApplicationResponse struct {
	HasApplied  bool                   `json:"hasApplied"`
	Application *models.JobApplication `json:"application,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
