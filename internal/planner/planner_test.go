// ABOUTME: Tests for the generation guard.
// ABOUTME: Covers busy rejection, idle restoration, and history side effects.
package planner

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nutriwise/internal/gateway"
	"github.com/harperreed/nutriwise/internal/history"
	"github.com/harperreed/nutriwise/internal/kv"
	"github.com/harperreed/nutriwise/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	plan    *models.Plan
	err     error
	release chan struct{}
	started chan struct{}
	calls   int
}

func (f *fakeGateway) Generate(ctx context.Context, _ models.Profile) (*models.Plan, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

type failingKV struct{ kv.Store }

func (failingKV) Set(string, string) error { return errors.New("disk full") }

func newHistory(t *testing.T, store kv.Store) *history.Store {
	t.Helper()
	h := history.New(store, history.WithClock(func() time.Time {
		return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, h.Load())
	return h
}

func TestGenerateSuccessAppendsHistory(t *testing.T) {
	h := newHistory(t, kv.NewMemoryStore())
	gw := &fakeGateway{plan: &models.Plan{DailyCalories: 2200, Meals: []models.Meal{{Protein: 20}, {Protein: 15}}}}
	p := New(gw, h, nil)

	entry, err := p.Generate(context.Background(), models.DefaultProfile())

	require.NoError(t, err)
	assert.Equal(t, 2200.0, entry.Plan.DailyCalories)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, StateIdle, p.State())
}

func TestGenerateGatewayFailureLeavesHistory(t *testing.T) {
	h := newHistory(t, kv.NewMemoryStore())
	_, err := h.Append(models.DefaultProfile(), models.Plan{DailyCalories: 1800})
	require.NoError(t, err)
	before := h.Current()

	gw := &fakeGateway{err: errors.New("socket closed")}
	var logs bytes.Buffer
	p := New(gw, h, log.New(&logs))

	_, err = p.Generate(context.Background(), models.DefaultProfile())

	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.Equal(t, before, h.Current())
	assert.Equal(t, StateIdle, p.State())
	assert.Contains(t, logs.String(), "plan generation failed")
}

func TestGenerateNilPlanIsGatewayFailure(t *testing.T) {
	h := newHistory(t, kv.NewMemoryStore())
	p := New(&fakeGateway{}, h, nil)

	entry, err := p.Generate(context.Background(), models.DefaultProfile())

	assert.ErrorIs(t, err, gateway.ErrGatewayFailure)
	assert.ErrorIs(t, err, gateway.ErrInvalidOutput)
	assert.Empty(t, entry.ID)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, StateIdle, p.State())
}

func TestGenerateInvalidProfile(t *testing.T) {
	gw := &fakeGateway{plan: &models.Plan{}}
	p := New(gw, newHistory(t, kv.NewMemoryStore()), nil)

	profile := models.DefaultProfile()
	profile.Age = 0
	_, err := p.Generate(context.Background(), profile)

	assert.ErrorIs(t, err, ErrInvalidProfile)
	assert.Equal(t, 0, gw.calls)
	assert.Equal(t, StateIdle, p.State())
}

func TestGenerateRejectsWhileRequesting(t *testing.T) {
	gw := &fakeGateway{
		plan:    &models.Plan{DailyCalories: 2000},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	h := newHistory(t, kv.NewMemoryStore())
	p := New(gw, h, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Generate(context.Background(), models.DefaultProfile())
		done <- err
	}()
	<-gw.started
	assert.Equal(t, StateRequesting, p.State())

	_, err := p.Generate(context.Background(), models.DefaultProfile())
	assert.ErrorIs(t, err, ErrBusy)

	close(gw.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, p.State())
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, 1, h.Len())
}

func TestGeneratePersistenceFailureIsNotReturned(t *testing.T) {
	h := newHistory(t, failingKV{kv.NewMemoryStore()})
	var logs bytes.Buffer
	p := New(&fakeGateway{plan: &models.Plan{DailyCalories: 2100}}, h, log.New(&logs))

	entry, err := p.Generate(context.Background(), models.DefaultProfile())

	require.NoError(t, err)
	assert.Equal(t, 2100.0, entry.Plan.DailyCalories)
	assert.Equal(t, 1, h.Len())
	assert.Contains(t, logs.String(), "failed to save history")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "requesting", StateRequesting.String())
}
