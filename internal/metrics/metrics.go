package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the business counters of the back office.
type Metrics struct {
	agendaLoads        metric.Int64Counter
	staleResponses     metric.Int64Counter
	dashboardRefreshes metric.Int64Counter
	signIns            metric.Int64Counter
	remindersChanged   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.agendaLoads, err = meter.Int64Counter(
		"cantinho.agenda.loads",
		metric.WithDescription("Total number of agenda day loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, err
	}

	m.staleResponses, err = meter.Int64Counter(
		"cantinho.agenda.stale_responses",
		metric.WithDescription("Agenda responses discarded because a newer date was selected"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	m.dashboardRefreshes, err = meter.Int64Counter(
		"cantinho.dashboard.refreshes",
		metric.WithDescription("Total number of dashboard refreshes"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	m.signIns, err = meter.Int64Counter(
		"cantinho.session.sign_ins",
		metric.WithDescription("Total number of sign-in attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.remindersChanged, err = meter.Int64Counter(
		"cantinho.reminders.changed",
		metric.WithDescription("Total number of reminder mutations"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMock returns a Metrics whose Record* calls do nothing.
func NewMock() *Metrics {
	return &Metrics{}
}

func outcome(err error) metric.AddOption {
	result := "success"
	if err != nil {
		result = "error"
	}
	return metric.WithAttributes(attribute.String("result", result))
}

func (m *Metrics) RecordAgendaLoad(ctx context.Context, err error) {
	if m != nil && m.agendaLoads != nil {
		m.agendaLoads.Add(ctx, 1, outcome(err))
	}
}

func (m *Metrics) RecordStaleResponse(ctx context.Context) {
	if m != nil && m.staleResponses != nil {
		m.staleResponses.Add(ctx, 1)
	}
}

func (m *Metrics) RecordDashboardRefresh(ctx context.Context, err error) {
	if m != nil && m.dashboardRefreshes != nil {
		m.dashboardRefreshes.Add(ctx, 1, outcome(err))
	}
}

func (m *Metrics) RecordSignIn(ctx context.Context, err error) {
	if m != nil && m.signIns != nil {
		m.signIns.Add(ctx, 1, outcome(err))
	}
}

func (m *Metrics) RecordReminderChange(ctx context.Context, op string) {
	if m != nil && m.remindersChanged != nil {
		m.remindersChanged.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}
