package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opspanel-backend/internal/mw"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// GetSession returns the first screen for the caller's session.
func (h *Handler) GetSession(c *gin.Context) {
	id, _ := c.Cookie(h.cookieName)
	c.JSON(http.StatusOK, h.nav.Boot(id))
}

// Login opens a session and sets its cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindInput(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, screen, err := h.nav.Login(req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, id, h.cookieTTL, "/", "", false, true)
	c.JSON(http.StatusOK, screen)
}

// Logout clears the session flag and expires the cookie.
func (h *Handler) Logout(c *gin.Context) {
	screen := h.nav.Logout(c.GetString(mw.SessionKey))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, screen)
}

// GetMenu returns the menu with the collection totals.
func (h *Handler) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.nav.ShowMenu())
}
