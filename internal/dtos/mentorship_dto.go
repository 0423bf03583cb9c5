package dtos

type MentorshipRequestCreation struct {
	MentorID string `json:"mentorId"`
}
