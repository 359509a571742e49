package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspanel-backend/internal/editor"
)

// GetMachineReports selects a machine and lists its reports, newest first.
func (h *Handler) GetMachineReports(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	screen, err := h.nav.ShowMachineReports(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

// CreateReport handles POST /api/machines/:id/reports. The path machine is the report's machine.
func (h *Handler) CreateReport(c *gin.Context) {
	machineID, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := h.bindReport(c)
	if !ok {
		return
	}
	in.MachineID = machineID
	h.saveReport(c, in, nil)
}

// UpdateReport handles PUT /api/reports/:id. A machineId in the body moves the report.
func (h *Handler) UpdateReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, ok := h.bindReport(c)
	if !ok {
		return
	}
	h.saveReport(c, in, &id)
}

func (h *Handler) bindReport(c *gin.Context) (editor.ReportInput, bool) {
	var in editor.ReportInput
	if err := bindInput(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return in, false
	}
	image, err := formImage(c, "imageFile")
	if err != nil {
		h.fail(c, err)
		return in, false
	}
	if image != "" {
		in.ImageData = image
	}
	return in, true
}

func (h *Handler) saveReport(c *gin.Context, in editor.ReportInput, id *int64) {
	screen, err := h.nav.SaveReport(c.Request.Context(), in, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	screen, err := h.nav.DeleteReport(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

// GetReport returns the report detail view.
func (h *Handler) GetReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	card, err := h.nav.ReportDetail(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
