package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspanel-backend/internal/editor"
)

// GetMachines handles GET /api/machines.
func (h *Handler) GetMachines(c *gin.Context) {
	c.JSON(http.StatusOK, h.nav.ShowMachines())
}

// GetMachine returns the stored machine for the edit form.
func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.nav.Machine(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMachine(c *gin.Context) {
	h.saveMachine(c, nil)
}

func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.saveMachine(c, &id)
}

func (h *Handler) saveMachine(c *gin.Context, id *int64) {
	var in editor.MachineInput
	if err := bindInput(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	screen, err := h.nav.SaveMachine(c.Request.Context(), in, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	screen, err := h.nav.DeleteMachine(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

// GetResults handles GET /api/results, the machine selection with report counts.
func (h *Handler) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.nav.ShowMachineSelection())
}
