// Package agenda holds the state behind the daily agenda screen.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cantinho/internal/metrics"
	"cantinho/internal/remote"
	"cantinho/internal/schedule"
)

// ErrStale is returned for a load that was overtaken by a newer SelectDate.
var ErrStale = errors.New("agenda: superseded by a newer selection")

const loadErrorMessage = "Não foi possível carregar a agenda."

type Loader interface {
	ListClasses(ctx context.Context, day schedule.DayOfWeek) ([]remote.Class, error)
}

type State struct {
	Date      string             `json:"date"`
	Day       schedule.DayOfWeek `json:"day"`
	Today     bool               `json:"today"`
	Upcoming  []remote.Class     `json:"upcoming"`
	Completed []remote.Class     `json:"completed"`
	Loading   bool               `json:"loading"`
	Error     string             `json:"error,omitempty"`
}

type ViewModel struct {
	loader  Loader
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu         sync.Mutex
	generation uint64
	selected   time.Time
	state      State
}

func NewViewModel(loader Loader, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *ViewModel {
	if loc == nil {
		loc = time.Local
	}
	return &ViewModel{
		loader:  loader,
		loc:     loc,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// SetClock replaces the wall clock, for tests and the CLI.
func (vm *ViewModel) SetClock(now func() time.Time) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.now = now
}

// SelectDate loads the classes of date's weekday. Only the most recent
// selection may change the state: an older load finishing late gets ErrStale.
// On failure the previous classes are kept and State.Error is set.
func (vm *ViewModel) SelectDate(ctx context.Context, date time.Time) (State, error) {
	date = date.In(vm.loc)
	day := schedule.DayOf(date)

	vm.mu.Lock()
	vm.generation++
	gen := vm.generation
	vm.selected = date
	vm.state.Loading = true
	vm.mu.Unlock()

	classes, err := vm.loader.ListClasses(ctx, day)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		vm.metrics.RecordStaleResponse(ctx)
		vm.logger.DebugContext(ctx, "dropping stale agenda response", "date", date.Format(time.DateOnly))
		return State{}, ErrStale
	}

	vm.metrics.RecordAgendaLoad(ctx, err)
	vm.state.Loading = false
	if err != nil {
		vm.logger.ErrorContext(ctx, "failed to load agenda", "day", day, "error", err)
		vm.state.Error = loadErrorMessage
		return vm.state, fmt.Errorf("failed to load classes for %s: %w", day, err)
	}

	now := vm.now().In(vm.loc)
	today := sameDate(date, now)

	var upcoming, completed []remote.Class
	if today {
		upcoming, completed = Partition(classes, now)
	} else {
		upcoming = append([]remote.Class{}, classes...)
		sortByStart(upcoming)
		completed = []remote.Class{}
	}

	vm.state = State{
		Date:      date.Format(time.DateOnly),
		Day:       day,
		Today:     today,
		Upcoming:  upcoming,
		Completed: completed,
	}
	return vm.state, nil
}

// Refresh reloads the currently selected date, or today when none was selected.
func (vm *ViewModel) Refresh(ctx context.Context) (State, error) {
	vm.mu.Lock()
	date := vm.selected
	if date.IsZero() {
		date = vm.now().In(vm.loc)
	}
	vm.mu.Unlock()

	return vm.SelectDate(ctx, date)
}

func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Now is the view-model's clock in its time zone.
func (vm *ViewModel) Now() time.Time {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.now().In(vm.loc)
}

func (vm *ViewModel) Location() *time.Location { return vm.loc }
