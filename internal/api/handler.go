package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"opspanel-backend/internal/editor"
	"opspanel-backend/internal/nav"
	"opspanel-backend/internal/parse"
	"opspanel-backend/internal/repository"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	nav        *nav.Controller
	cookieName string
	cookieTTL  int
	log        *zap.Logger
}

// NewHandler creates a new API handler. cookieTTL is the session cookie max-age in seconds.
func NewHandler(controller *nav.Controller, cookieName string, cookieTTL int, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		nav:        controller,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		log:        log,
	}
}

// fail writes the JSON error response for err.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, nav.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado"})
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// bindInput fills dst from a JSON body or a multipart/urlencoded form.
func bindInput(c *gin.Context, dst any) error {
	if c.ContentType() == gin.MIMEJSON {
		return c.ShouldBindJSON(dst)
	}
	return c.ShouldBind(dst)
}

// formImage returns the uploaded file under field as a data URL. A missing
// field yields an empty string.
func formImage(c *gin.Context, field string) (string, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return "", nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", &editor.ValidationError{Message: fmt.Sprintf("No se pudo leer el archivo: %v", err)}
	}
	data, err := readUpload(fh)
	if err != nil {
		return "", err
	}
	return parse.EncodeDataURL(data), nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
