package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/disclosure"
	"github.com/threatflux/secureReviewGo/internal/handoff"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
)

// SimulationView is the attack simulation of a scan. It owns the reveal
// process of its stages and must be closed when left.
type SimulationView struct {
	handoff.Resolution[models.AttackSimulation]
	ScanID string

	path       string
	controller *disclosure.Controller
}

// OpenSimulation resolves the simulation of entry and starts revealing its
// stages. onReveal, when set, is called after each stage is revealed. The
// view replaces any simulation view still open in this session.
func (a *App) OpenSimulation(ctx context.Context, entry navigation.Entry, onReveal func(visible int)) *SimulationView {
	scanID := entry.Route.Param(navigation.ParamScanID)

	env := handoff.From[models.AttackSimulation](entry.State)
	if s, ok := env.Get(); ok && s.ScanID != "" && s.ScanID != scanID {
		env = handoff.Empty[models.AttackSimulation]()
	}

	res := handoff.Resolve(ctx, env, func(ctx context.Context) (models.AttackSimulation, error) {
		sim, err := a.svc.GetAttackSimulation(ctx, scanID)
		if err != nil {
			return models.AttackSimulation{}, err
		}
		return *sim, nil
	})

	view := &SimulationView{
		Resolution: res,
		ScanID:     scanID,
		path:       entry.Path,
		controller: disclosure.NewController(a.clock, a.cfg.RevealInterval),
	}

	a.mu.Lock()
	previous := a.simulation
	a.simulation = view
	a.mu.Unlock()
	if previous != nil {
		previous.Close()
	}

	if !res.Ready() {
		a.logger.WithError(res.Err).WithField("scan_id", scanID).Warn("Attack simulation not available")
		return view
	}

	a.logger.WithFields(logrus.Fields{
		"scan_id": scanID,
		"stages":  len(res.Value.Stages),
	}).Debug("Revealing attack simulation stages")
	view.controller.Start(len(res.Value.Stages), onReveal)
	return view
}

// Visible returns the number of revealed stages
func (v *SimulationView) Visible() int {
	if p := v.controller.Current(); p != nil {
		return p.Visible()
	}
	return 0
}

// RevealedStages returns the stages revealed so far
func (v *SimulationView) RevealedStages() []models.Stage {
	n := v.Visible()
	if n > len(v.Value.Stages) {
		n = len(v.Value.Stages)
	}
	return v.Value.Stages[:n]
}

// Process returns the current reveal, nil when the simulation was not available
func (v *SimulationView) Process() *disclosure.Process {
	return v.controller.Current()
}

// Replay restarts the reveal from the first stage. It returns nil when the
// simulation is not available or the view was closed.
func (v *SimulationView) Replay(onReveal func(visible int)) *disclosure.Process {
	if !v.Ready() {
		return nil
	}
	return v.controller.Start(len(v.Value.Stages), onReveal)
}

// Close cancels the reveal and releases its ticker. A closed view never
// starts another reveal.
func (v *SimulationView) Close() {
	v.controller.Close()
}
