package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/alumni-hub/internal/dtos"
	"github.com/justsurfingit/alumni-hub/internal/services"
)

type WorkshopHandler struct {
	WorkshopService *services.WorkshopService
}

func NewWorkshopHandler(w *services.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{WorkshopService: w}
}

func (h *WorkshopHandler) ListWorkshops(c *gin.Context) {
	ws, err := h.WorkshopService.ListWorkshops(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *WorkshopHandler) CreateWorkshop(c *gin.Context) {
	var req dtos.WorkshopRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.WorkshopService.CreateWorkshop(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *WorkshopHandler) UpdateWorkshop(c *gin.Context) {
	id, ok := pathID(c, "id", "workshop")
	if !ok {
		return
	}
	// an unreadable body is passed as nil so ownership is reported first
	var req dtos.WorkshopRequest
	body := &req
	if err := c.ShouldBindJSON(&req); err != nil {
		body = nil
	}
	w, err := h.WorkshopService.UpdateWorkshop(c.Request.Context(), id, body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkshopHandler) DeleteWorkshop(c *gin.Context) {
	id, ok := pathID(c, "id", "workshop")
	if !ok {
		return
	}
	if err := h.WorkshopService.DeleteWorkshop(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Workshop deleted successfully"})
}

// Register is POST /workshops/register with {workshopId}.
func (h *WorkshopHandler) Register(c *gin.Context) {
	var req dtos.WorkshopRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.WorkshopService.Register(c.Request.Context(), req.WorkshopID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Successfully registered for workshop"})
}

func (h *WorkshopHandler) ByAlumni(c *gin.Context) {
	id, ok := pathID(c, "alumniId", "alumni")
	if !ok {
		return
	}
	ws, err := h.WorkshopService.ListByAlumni(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *WorkshopHandler) ByStudent(c *gin.Context) {
	id, ok := pathID(c, "studentId", "student")
	if !ok {
		return
	}
	ws, err := h.WorkshopService.ListByStudent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}
