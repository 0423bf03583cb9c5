package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/services"
)

type MentorshipHandler struct {
	MentorshipService *services.MentorshipService
}

func NewMentorshipHandler(m *services.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{MentorshipService: m}
}

func (h *MentorshipHandler) RequestMentorship(c *gin.Context) {
	var req dtos.MentorshipRequestCreation
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.MentorshipService.RequestMentorship(c.Request.Context(), req.MentorID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *MentorshipHandler) StudentRequests(c *gin.Context) {
	reqs, err := h.MentorshipService.ListStudentRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *MentorshipHandler) MentorRequests(c *gin.Context) {
	reqs, err := h.MentorshipService.ListMentorRequests(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// UpdateStatus is PATCH /mentorship/:id/status
func (h *MentorshipHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "request")
	if !ok {
		return
	}
	var req dtos.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.MentorshipService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
