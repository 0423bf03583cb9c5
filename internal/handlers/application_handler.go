package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/services"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: a}
}

// Apply is POST /job-applications/:jobId/apply
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "jobId", "job")
	if !ok {
		return
	}
	app, err := h.ApplicationService.Apply(c.Request.Context(), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	apps, err := h.ApplicationService.ListMyApplications(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) CheckApplication(c *gin.Context) {
	jobID, ok := pathID(c, "jobId", "job")
	if !ok {
		return
	}
	res, err := h.ApplicationService.CheckApplication(c.Request.Context(), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ApplicationHandler) AlumniApplications(c *gin.Context) {
	apps, err := h.ApplicationService.ListForAlumni(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus is PUT /job-applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "application")
	if !ok {
		return
	}
	var req dtos.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.ApplicationService.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
