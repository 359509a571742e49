package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opspanel-backend/internal/model"
	"opspanel-backend/internal/parse"
	"opspanel-backend/internal/repository"
)

// ValidationError is a user-facing rejection. Nothing is written when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Limits are the maximum decoded sizes of inline images.
type Limits struct {
	OperatorPhotoBytes int
	ReportImageBytes   int
}

// OperatorInput is the raw operator form.
type OperatorInput struct {
	Name        string `json:"name" form:"name"`
	Number      string `json:"number" form:"number"`
	BloodType   string `json:"bloodType" form:"bloodType"`
	RFC         string `json:"rfc" form:"rfc"`
	Description string `json:"description" form:"description"`
	Photo       string `json:"photo" form:"photo"` // data URL; empty keeps the current photo
}

// MachineInput is the raw machine form.
type MachineInput struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	ManualLink  string `json:"manualLink" form:"manualLink"`
}

// ReportInput is the raw report form. MachineID is the current machine context.
type ReportInput struct {
	MachineID   int64  `json:"machineId" form:"machineId"`
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	ImageData   string `json:"imageData" form:"imageData"` // data URL; required on create
}

// Editor turns form input into typed patches and commits them to the repositories.
type Editor struct {
	operators *repository.Repository[model.Operator]
	machines  *repository.Repository[model.Machine]
	reports   *repository.Repository[model.Report]
	limits    Limits
	now       func() time.Time
}

// New creates an Editor. now defaults to time.Now.
func New(
	operators *repository.Repository[model.Operator],
	machines *repository.Repository[model.Machine],
	reports *repository.Repository[model.Report],
	limits Limits,
	now func() time.Time,
) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{
		operators: operators,
		machines:  machines,
		reports:   reports,
		limits:    limits,
		now:       now,
	}
}

// SaveOperator creates (existingID nil) or edits an operator. The RFC is stored uppercased.
// Every text field of the form is written, so an edit carries the full form.
func (e *Editor) SaveOperator(ctx context.Context, in OperatorInput, existingID *int64) (model.Operator, error) {
	rfc := strings.ToUpper(in.RFC)
	patch := model.OperatorPatch{
		Name:        &in.Name,
		Number:      &in.Number,
		BloodType:   &in.BloodType,
		RFC:         &rfc,
		Description: &in.Description,
	}

	if in.Photo != "" {
		if err := checkImage(in.Photo, e.limits.OperatorPhotoBytes, "La imagen es demasiado grande. El tamaño máximo es %s."); err != nil {
			return model.Operator{}, err
		}
		patch.Photo = &in.Photo
	}

	return commit(ctx, e.operators, patch, existingID)
}

// SaveMachine creates or edits a machine.
func (e *Editor) SaveMachine(ctx context.Context, in MachineInput, existingID *int64) (model.Machine, error) {
	patch := model.MachinePatch{
		Name:        &in.Name,
		Description: &in.Description,
		ManualLink:  &in.ManualLink,
	}
	return commit(ctx, e.machines, patch, existingID)
}

// SaveReport creates or edits a report. The date is re-stamped on every save.
// Creation needs a machine context and an image.
func (e *Editor) SaveReport(ctx context.Context, in ReportInput, existingID *int64) (model.Report, error) {
	creating := existingID == nil
	if creating && in.MachineID == 0 {
		return model.Report{}, invalid("Error: No hay máquina seleccionada")
	}
	if creating && in.ImageData == "" {
		return model.Report{}, invalid("Por favor selecciona una imagen para el reporte")
	}

	date := e.now().UTC()
	patch := model.ReportPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Date:        &date,
	}
	if in.MachineID != 0 {
		patch.MachineID = &in.MachineID
	}

	if in.ImageData != "" {
		if err := checkImage(in.ImageData, e.limits.ReportImageBytes, "El archivo es demasiado grande. El tamaño máximo es %s."); err != nil {
			return model.Report{}, err
		}
		patch.ImageData = &in.ImageData
	}

	return commit(ctx, e.reports, patch, existingID)
}

// commit appends when existingID is nil and otherwise edits in place. Editing an
// id that is not stored writes nothing and returns repository.ErrNotFound.
func commit[T repository.Entity[T]](ctx context.Context, repo *repository.Repository[T], patch repository.Patch[T], existingID *int64) (T, error) {
	if existingID == nil {
		return repo.Upsert(ctx, patch, nil)
	}
	return repo.Update(ctx, patch, *existingID)
}

func checkImage(raw string, limit int, tooLarge string) error {
	img, err := parse.ParseDataURL(raw)
	if err != nil {
		return invalid("La imagen no es válida: %v", err)
	}
	if !img.IsImage() {
		return invalid("El archivo debe ser una imagen (recibido %s)", img.MediaType)
	}
	if limit > 0 && len(img.Data) > limit {
		return invalid(tooLarge, humanSize(limit))
	}
	return nil
}

func humanSize(n int) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
