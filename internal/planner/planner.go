// ABOUTME: Coordinates one plan generation at a time.
// ABOUTME: Guards the idle/requesting state, calls the gateway, and records history.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/oklog/ulid/v2"
)

// State is the generation lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRequesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when a request is already in flight.
	ErrBusy = errors.New("a plan is already being generated")

	// ErrInvalidProfile is returned when the profile fails validation.
	ErrInvalidProfile = models.ErrInvalidProfile
)

// Planner turns profiles into recorded plans.
type Planner struct {
	gateway gateway.Gateway
	history *history.Store
	logger  *log.Logger

	mu    sync.Mutex
	state State
}

// New creates a Planner. A nil logger discards output.
func New(gw gateway.Gateway, hist *history.Store, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Planner{gateway: gw, history: hist, logger: logger}
}

// State reports whether a request is in flight.
func (p *Planner) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Generate requests a plan for profile and appends it to history.
// Gateway failures are returned wrapping gateway.ErrGatewayFailure and leave
// history untouched. A failure to persist history is logged, not returned.
func (p *Planner) Generate(ctx context.Context, profile models.Profile) (models.HistoryEntry, error) {
	if err := profile.Validate(); err != nil {
		return models.HistoryEntry{}, err
	}
	if !p.begin() {
		return models.HistoryEntry{}, ErrBusy
	}
	defer p.end()

	reqID := ulid.Make().String()
	logger := p.logger.With("request", reqID)
	logger.Debug("requesting plan", "age", profile.Age, "goal", profile.Goal, "diet", profile.DietPreference)
	start := time.Now()

	plan, err := p.gateway.Generate(ctx, profile)
	if err == nil && plan == nil {
		err = fmt.Errorf("%w: gateway returned no plan", gateway.ErrInvalidOutput)
	}
	if err != nil {
		logger.Error("plan generation failed", "err", err)
		if !errors.Is(err, gateway.ErrGatewayFailure) {
			err = fmt.Errorf("%w: %w", gateway.ErrGatewayFailure, err)
		}
		return models.HistoryEntry{}, err
	}

	entry, err := p.history.Append(profile, *plan)
	if err != nil {
		logger.Warn("failed to save history", "err", err)
	}
	logger.Info("plan generated", "entry", entry.ShortID(), "meals", len(plan.Meals), "elapsed", time.Since(start).Round(time.Millisecond))
	return entry, nil
}

func (p *Planner) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRequesting {
		return false
	}
	p.state = StateRequesting
	return true
}

func (p *Planner) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateIdle
}
