package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspanel-backend/internal/editor"
)

// GetOperators handles GET /api/operators.
func (h *Handler) GetOperators(c *gin.Context) {
	c.JSON(http.StatusOK, h.nav.ShowOperators())
}

// GetOperator returns the stored operator for the edit form.
func (h *Handler) GetOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	op, err := h.nav.Operator(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// GetOperatorPhoto returns the enlarged photo of an operator.
func (h *Handler) GetOperatorPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	photo, err := h.nav.OperatorPhoto(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

// CreateOperator handles POST /api/operators.
func (h *Handler) CreateOperator(c *gin.Context) {
	h.saveOperator(c, nil)
}

// UpdateOperator handles PUT /api/operators/:id.
func (h *Handler) UpdateOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.saveOperator(c, &id)
}

func (h *Handler) saveOperator(c *gin.Context, id *int64) {
	var in editor.OperatorInput
	if err := bindInput(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	photo, err := formImage(c, "photoFile")
	if err != nil {
		h.fail(c, err)
		return
	}
	if photo != "" {
		in.Photo = photo
	}

	screen, err := h.nav.SaveOperator(c.Request.Context(), in, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}

// DeleteOperator handles DELETE /api/operators/:id. Unknown ids are a no-op.
func (h *Handler) DeleteOperator(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	screen, err := h.nav.DeleteOperator(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, screen)
}
