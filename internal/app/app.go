// Package app holds the application context: the three repositories and the
// components that work on them.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"opspanel-backend/config"
	"opspanel-backend/internal/editor"
	"opspanel-backend/internal/model"
	"opspanel-backend/internal/repository"
	"opspanel-backend/internal/store"
	"opspanel-backend/internal/view"
)

type App struct {
	Operators *repository.Repository[model.Operator]
	Machines  *repository.Repository[model.Machine]
	Reports   *repository.Repository[model.Report]
	Editor    *editor.Editor
	View      *view.Renderer
}

// New wires the repositories to s and loads them. now defaults to time.Now.
func New(ctx context.Context, cfg *config.Config, s store.Store, log *zap.Logger, now func() time.Time) (*App, error) {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", cfg.Display.Timezone, err)
	}

	policy := repository.CorruptPolicy(cfg.Store.OnCorrupt)
	a := &App{
		Operators: repository.New(store.SlotOperators, s, repository.SeedOperators(), policy, log),
		Machines:  repository.New(store.SlotMachines, s, repository.SeedMachines(), policy, log),
		Reports:   repository.New(store.SlotReports, s, repository.SeedReports(now()), policy, log),
		View:      view.NewRenderer(loc),
	}
	a.Editor = editor.New(a.Operators, a.Machines, a.Reports, editor.Limits{
		OperatorPhotoBytes: cfg.Limits.OperatorPhotoBytes,
		ReportImageBytes:   cfg.Limits.ReportImageBytes,
	}, now)

	if err := a.Operators.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load operators: %w", err)
	}
	if err := a.Machines.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load machines: %w", err)
	}
	if err := a.Reports.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return a, nil
}
