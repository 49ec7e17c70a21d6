// Package workflow ties the scan session, result store, navigation and
// progressive disclosure together into the views of one review session.
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/threatflux/secureReviewGo/internal/disclosure"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
	"github.com/threatflux/secureReviewGo/internal/session"
	"github.com/threatflux/secureReviewGo/internal/store"
)

// Service is the part of the analysis service the views consume
type Service interface {
	AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error)
	GetScan(ctx context.Context, scanID string) (*models.ScanResult, error)
	GetAttackSimulation(ctx context.Context, scanID string) (*models.AttackSimulation, error)
	GetSecureFix(ctx context.Context, vulnID string) (*models.SecureFix, error)
	GetCompliance(ctx context.Context, scanID string) (*models.ComplianceReport, error)
	GetSampleCode(ctx context.Context) (models.SampleCode, error)
	GetLessons(ctx context.Context) ([]models.Lesson, error)
}

// Config is the per-session configuration injected at startup
type Config struct {
	DefaultLanguage models.Language
	ProjectContext  models.ProjectContext
	ScanProfile     models.ScanProfile
	RevealInterval  time.Duration
	Learner         models.LearnerProgress
}

// DefaultConfig returns the configuration of a fresh session
func DefaultConfig() Config {
	return Config{
		DefaultLanguage: models.LanguagePython,
		ProjectContext:  models.ProjectEnterprise,
		ScanProfile:     models.ProfileFast,
		RevealInterval:  disclosure.DefaultInterval,
		Learner: models.LearnerProgress{
			LessonsCompleted: 2,
			TotalLessons:     5,
			SecurityScore:    78,
			Rank:             "Intermediate",
			Achievements:     []string{"First Scan", "SQL Slayer", "XSS Hunter", "Secret Keeper", "Compliance Rookie"},
		},
	}
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock sets the clock driving stage reveals
func WithClock(c clock.WithTicker) Option {
	return func(a *App) {
		if c != nil {
			a.clock = c
		}
	}
}

// App is one review session
type App struct {
	cfg     Config
	svc     Service
	logger  *logrus.Logger
	clock   clock.WithTicker
	store   *store.Store
	machine *session.Machine
	nav     *navigation.Navigator

	mu         sync.Mutex
	compliance map[string]*models.ComplianceReport
	simulation *SimulationView
}

// NewApp creates a session backed by svc
func NewApp(svc Service, cfg Config, opts ...Option) *App {
	a := &App{
		cfg:        cfg,
		svc:        svc,
		logger:     logrus.New(),
		clock:      clock.RealClock{},
		compliance: make(map[string]*models.ComplianceReport),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg.DefaultLanguage == "" {
		a.cfg.DefaultLanguage = models.LanguagePython
	}
	if a.cfg.RevealInterval <= 0 {
		a.cfg.RevealInterval = disclosure.DefaultInterval
	}

	a.store = store.New(svc, a.logger)
	a.machine = session.NewMachine(svc, a.store, a.logger)
	a.nav = navigation.NewNavigator(navigation.NewRouter(), a.logger)
	a.nav.OnNavigate(a.teardown)
	return a
}

// Config returns the session configuration
func (a *App) Config() Config {
	return a.cfg
}

// Store returns the session result store
func (a *App) Store() *store.Store {
	return a.store
}

// Machine returns the scan session state machine
func (a *App) Machine() *session.Machine {
	return a.machine
}

// Navigator returns the session history
func (a *App) Navigator() *navigation.Navigator {
	return a.nav
}

// Navigate moves to path with an optional handoff payload
func (a *App) Navigate(path string, state any) (navigation.Entry, error) {
	return a.nav.Navigate(path, state)
}

// Back returns to the previous view
func (a *App) Back() (navigation.Entry, bool) {
	return a.nav.Back()
}

// Close releases everything the session owns
func (a *App) Close() {
	a.mu.Lock()
	sim := a.simulation
	a.simulation = nil
	a.mu.Unlock()

	if sim != nil {
		sim.Close()
	}
}

// teardown closes the simulation view when navigation leaves it
func (a *App) teardown(entry navigation.Entry) {
	a.mu.Lock()
	sim := a.simulation
	if sim == nil || sim.path == entry.Path {
		a.mu.Unlock()
		return
	}
	a.simulation = nil
	a.mu.Unlock()

	a.logger.WithField("path", sim.path).Debug("Tearing down attack simulation view")
	sim.Close()
}
