package dtos

import "time"

// WorkshopRequest is used for both create and full update. Required fields
// are checked by the service, after authorization.
type WorkshopRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Duration    string    `json:"duration"`
	Tags        []string  `json:"tags"`
}

type WorkshopRegistrationRequest struct {
	WorkshopID string `json:"workshopId"`
}
