package nav

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"opspanel-backend/internal/app"
	"opspanel-backend/internal/editor"
	"opspanel-backend/internal/model"
	"opspanel-backend/internal/repository"
	"opspanel-backend/internal/session"
	"opspanel-backend/internal/view"
)

// Fixed panel credentials.
const (
	Username = "admin"
	Password = "admin123"
)

// ErrInvalidCredentials is returned by Login on any mismatch.
var ErrInvalidCredentials = errors.New("Usuario o contraseña incorrectos")

type ScreenName string

const (
	ScreenLoggedOut        ScreenName = "loggedOut"
	ScreenMenu             ScreenName = "menu"
	ScreenOperators        ScreenName = "operators"
	ScreenMachines         ScreenName = "machines"
	ScreenMachineSelection ScreenName = "machineSelection"
	ScreenMachineReports   ScreenName = "machineReports"
)

// Screen is what the client shows next: the screen name, its context and the rendered body.
type Screen struct {
	Name      ScreenName `json:"screen"`
	MachineID int64      `json:"machineId,omitempty"`
	Title     string     `json:"title,omitempty"`
	Body      any        `json:"body,omitempty"`
}

// Controller runs screen transitions and the commands issued from each screen.
type Controller struct {
	app      *app.App
	sessions *session.Store
	log      *zap.Logger
}

func NewController(a *app.App, sessions *session.Store, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{app: a, sessions: sessions, log: log}
}

// Boot picks the first screen for a page load.
func (c *Controller) Boot(sessionID string) Screen {
	if c.sessions.IsLoggedIn(sessionID) {
		return c.ShowMenu()
	}
	return Screen{Name: ScreenLoggedOut}
}

// Login checks the credentials and opens a new session.
func (c *Controller) Login(username, password string) (string, Screen, error) {
	if username != Username || password != Password {
		c.log.Info("login rejected", zap.String("username", username))
		return "", Screen{Name: ScreenLoggedOut}, ErrInvalidCredentials
	}
	id := session.NewID()
	c.sessions.Set(id, session.FlagLoggedIn, "true")
	return id, c.ShowMenu(), nil
}

// Logout clears the session flag.
func (c *Controller) Logout(sessionID string) Screen {
	c.sessions.Remove(sessionID, session.FlagLoggedIn)
	return Screen{Name: ScreenLoggedOut}
}

func (c *Controller) ShowMenu() Screen {
	return Screen{
		Name: ScreenMenu,
		Body: c.app.View.Stats(c.app.Operators.Len(), c.app.Machines.Len(), c.app.Reports.Len()),
	}
}

func (c *Controller) ShowOperators() Screen {
	return Screen{Name: ScreenOperators, Body: c.app.View.Operators(c.app.Operators.All())}
}

func (c *Controller) ShowMachines() Screen {
	return Screen{Name: ScreenMachines, Body: c.app.View.Machines(c.app.Machines.All())}
}

func (c *Controller) ShowMachineSelection() Screen {
	return Screen{
		Name: ScreenMachineSelection,
		Body: c.app.View.MachineSelection(c.app.Machines.All(), c.app.Reports.All()),
	}
}

// ShowMachineReports selects machineID as the current machine and lists its reports.
func (c *Controller) ShowMachineReports(machineID int64) (Screen, error) {
	if _, ok := c.app.Machines.FindByID(machineID); !ok {
		return Screen{}, fmt.Errorf("machine %d: %w", machineID, repository.ErrNotFound)
	}
	return c.machineReports(machineID), nil
}

// machineReports renders the report screen even when the machine no longer exists.
func (c *Controller) machineReports(machineID int64) Screen {
	title := "Reportes"
	if m, ok := c.app.Machines.FindByID(machineID); ok {
		title = "Reportes: " + m.Name
	}
	return Screen{
		Name:      ScreenMachineReports,
		MachineID: machineID,
		Title:     title,
		Body:      c.app.View.MachineReports(machineID, c.app.Reports.All()),
	}
}

// SaveOperator creates or edits an operator. Editing an unknown id is a no-op.
func (c *Controller) SaveOperator(ctx context.Context, in editor.OperatorInput, id *int64) (Screen, error) {
	if _, err := c.app.Editor.SaveOperator(ctx, in, id); err != nil && !c.ignoreMissing(err) {
		return Screen{}, err
	}
	return c.ShowOperators(), nil
}

func (c *Controller) DeleteOperator(ctx context.Context, id int64) (Screen, error) {
	if _, err := c.app.Operators.Remove(ctx, id); err != nil {
		return Screen{}, err
	}
	return c.ShowOperators(), nil
}

func (c *Controller) SaveMachine(ctx context.Context, in editor.MachineInput, id *int64) (Screen, error) {
	if _, err := c.app.Editor.SaveMachine(ctx, in, id); err != nil && !c.ignoreMissing(err) {
		return Screen{}, err
	}
	return c.ShowMachines(), nil
}

func (c *Controller) DeleteMachine(ctx context.Context, id int64) (Screen, error) {
	if _, err := c.app.Machines.Remove(ctx, id); err != nil {
		return Screen{}, err
	}
	return c.ShowMachines(), nil
}

// SaveReport saves a report under the machine context carried by in and re-renders that machine's reports.
// Editing an unknown id changes nothing and lands on the machine selection.
func (c *Controller) SaveReport(ctx context.Context, in editor.ReportInput, id *int64) (Screen, error) {
	saved, err := c.app.Editor.SaveReport(ctx, in, id)
	if err != nil {
		if c.ignoreMissing(err) {
			return c.ShowMachineSelection(), nil
		}
		return Screen{}, err
	}
	return c.machineReports(saved.MachineID), nil
}

// DeleteReport removes a report and re-renders its machine's reports.
// An unknown id changes nothing and lands on the machine selection.
func (c *Controller) DeleteReport(ctx context.Context, id int64) (Screen, error) {
	rep, ok := c.app.Reports.FindByID(id)
	if !ok {
		return c.ShowMachineSelection(), nil
	}
	if _, err := c.app.Reports.Remove(ctx, id); err != nil {
		return Screen{}, err
	}
	return c.machineReports(rep.MachineID), nil
}

// ignoreMissing reports whether err is an edit of an absent id, which is dropped silently.
func (c *Controller) ignoreMissing(err error) bool {
	if !errors.Is(err, repository.ErrNotFound) {
		return false
	}
	c.log.Debug("edit target not found, ignoring", zap.Error(err))
	return true
}

func (c *Controller) ReportDetail(id int64) (view.ReportCard, error) {
	rep, ok := c.app.Reports.FindByID(id)
	if !ok {
		return view.ReportCard{}, fmt.Errorf("report %d: %w", id, repository.ErrNotFound)
	}
	return c.app.View.ReportDetail(rep), nil
}

// OperatorPhoto returns the enlarged photo view. Operators without a photo are not found.
func (c *Controller) OperatorPhoto(id int64) (view.OperatorPhoto, error) {
	op, ok := c.app.Operators.FindByID(id)
	if !ok || op.Photo == "" {
		return view.OperatorPhoto{}, fmt.Errorf("operator photo %d: %w", id, repository.ErrNotFound)
	}
	return c.app.View.OperatorPhoto(op), nil
}

// Operator returns the stored operator for pre-filling the edit form.
func (c *Controller) Operator(id int64) (model.Operator, error) {
	op, ok := c.app.Operators.FindByID(id)
	if !ok {
		return model.Operator{}, fmt.Errorf("operator %d: %w", id, repository.ErrNotFound)
	}
	return op, nil
}

// Machine returns the stored machine for pre-filling the edit form.
func (c *Controller) Machine(id int64) (model.Machine, error) {
	m, ok := c.app.Machines.FindByID(id)
	if !ok {
		return model.Machine{}, fmt.Errorf("machine %d: %w", id, repository.ErrNotFound)
	}
	return m, nil
}
