// Package dashboard computes the home screen summary.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cantinho/internal/agenda"
	"cantinho/internal/metrics"
	"cantinho/internal/money"
	"cantinho/internal/remote"
	"cantinho/internal/schedule"

	"golang.org/x/sync/errgroup"
)

// RecentPaymentsLimit is how many payments the summary lists, in backend order.
const RecentPaymentsLimit = 5

type Backend interface {
	ListStudents(ctx context.Context) ([]remote.Student, error)
	ListClasses(ctx context.Context, day schedule.DayOfWeek) ([]remote.Class, error)
	ListPayments(ctx context.Context, month string) ([]remote.Payment, error)
	ListMaterials(ctx context.Context) ([]remote.Material, error)
}

type Stats struct {
	TotalStudents  int              `json:"totalAlunos"`
	TotalMaterials int              `json:"totalMateriais"`
	PendingTotal   money.Money      `json:"pagamentosPendentes"`
	PaidTotal      money.Money      `json:"pagamentosRecebidos"`
	TodayCount     int              `json:"aulasHojeCount"`
	TodayUpcoming  []remote.Class   `json:"aulasHoje"`
	TodayCompleted []remote.Class   `json:"aulasRealizadasHoje"`
	RecentPayments []remote.Payment `json:"pagamentosRecentes"`
	RefreshedAt    time.Time        `json:"atualizadoEm"`
}

type Aggregator struct {
	backend Backend
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu   sync.Mutex
	last *Stats
}

func NewAggregator(backend Backend, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		backend: backend,
		loc:     loc,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// Refresh fetches students, today's classes, payments and materials in
// parallel and recomputes every figure. If any fetch fails nothing is
// recomputed: the error is returned together with the last good Stats, if any.
func (a *Aggregator) Refresh(ctx context.Context) (*Stats, error) {
	now := a.now().In(a.loc)

	var (
		students  []remote.Student
		classes   []remote.Class
		payments  []remote.Payment
		materials []remote.Material
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = a.backend.ListStudents(gctx)
		return err
	})
	g.Go(func() (err error) {
		classes, err = a.backend.ListClasses(gctx, schedule.DayOf(now))
		return err
	})
	g.Go(func() (err error) {
		payments, err = a.backend.ListPayments(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		materials, err = a.backend.ListMaterials(gctx)
		return err
	})

	err := g.Wait()
	a.metrics.RecordDashboardRefresh(ctx, err)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to refresh dashboard", "error", err)
		return a.Last(), fmt.Errorf("failed to refresh dashboard: %w", err)
	}

	upcoming, completed := agenda.Partition(classes, now)
	stats := &Stats{
		TotalStudents:  len(students),
		TotalMaterials: len(materials),
		PendingTotal:   PendingTotal(payments),
		PaidTotal:      PaidTotal(payments),
		TodayCount:     len(classes),
		TodayUpcoming:  upcoming,
		TodayCompleted: completed,
		RecentPayments: RecentPayments(payments),
		RefreshedAt:    now,
	}

	a.mu.Lock()
	a.last = stats
	a.mu.Unlock()

	return stats, nil
}

// Last returns the most recent successful Stats, or nil.
func (a *Aggregator) Last() *Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// PendingTotal sums the amounts of PENDENTE payments. Empty input gives zero.
func PendingTotal(payments []remote.Payment) money.Money {
	return sumByStatus(payments, remote.PaymentPending)
}

// PaidTotal sums the amounts of PAGO payments over the whole list.
func PaidTotal(payments []remote.Payment) money.Money {
	return sumByStatus(payments, remote.PaymentPaid)
}

func sumByStatus(payments []remote.Payment, status remote.PaymentStatus) money.Money {
	return money.Sum(payments, func(p remote.Payment) (money.Money, bool) {
		return p.Amount, p.Status == status
	})
}

func RecentPayments(payments []remote.Payment) []remote.Payment {
	n := min(len(payments), RecentPaymentsLimit)
	return append([]remote.Payment{}, payments[:n]...)
}
