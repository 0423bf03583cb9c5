package models

import "github.com/justsurfingit/alumni-hub/internal/apperr"

// Errors returned by stores when a membership or uniqueness rule rejects a write.
var (
	ErrAlreadyApplied     = apperr.Conflict("You have already applied for this job")
	ErrAlreadyRequested   = apperr.Conflict("You have already sent a request to this mentor")
	ErrAlreadyRegistered  = apperr.Conflict("Already registered for this workshop")
	ErrWorkshopFull       = apperr.Conflict("Workshop is full")
	ErrEmailTaken         = apperr.Conflict("Email is already registered")
	ErrAlreadyDecided     = apperr.Conflict("Status has already been decided")
	ErrCapacityBelowTaken = apperr.BadRequest("Capacity cannot be lower than the number of registered students")
)
