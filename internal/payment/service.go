// Package payment manages monthly fees: listing by reference month, the
// paid-date bookkeeping and spreadsheet export.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cantinho/internal/activity"
	"cantinho/internal/money"
	"cantinho/internal/remote"

	"github.com/go-playground/validator/v10"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Backend interface {
	ListPayments(ctx context.Context, month string) ([]remote.Payment, error)
	CreatePayment(ctx context.Context, in remote.PaymentInput) (*remote.Payment, error)
	UpdatePayment(ctx context.Context, id int, in remote.PaymentInput) (*remote.Payment, error)
	DeletePayment(ctx context.Context, id int) error
}

// Filter narrows a month's list the way the payments screen does. Query
// matches the student name case-insensitively; an empty Status keeps all.
type Filter struct {
	Month  string
	Query  string
	Status remote.PaymentStatus
}

type Summary struct {
	Month    string           `json:"mes"`
	Payments []remote.Payment `json:"pagamentos"`
	Received money.Money      `json:"totalRecebido"`
	Pending  money.Money      `json:"totalPendente"`
	Overdue  money.Money      `json:"totalAtrasado"`
}

type Service struct {
	backend  Backend
	validate *validator.Validate
	activity *activity.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(backend Backend, validate *validator.Validate, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		backend:  backend,
		validate: validate,
		activity: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns one reference month, the current one when Month is empty.
// Totals cover the whole month, before Query and Status are applied.
func (s *Service) List(ctx context.Context, f Filter) (*Summary, error) {
	month, err := s.month(f.Month)
	if err != nil {
		return nil, err
	}

	payments, err := s.backend.ListPayments(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	summary := &Summary{
		Month:    month,
		Payments: make([]remote.Payment, 0, len(payments)),
		Received: totalOf(payments, remote.PaymentPaid),
		Pending:  totalOf(payments, remote.PaymentPending),
		Overdue:  totalOf(payments, remote.PaymentOverdue),
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, p := range payments {
		if query != "" && !strings.Contains(strings.ToLower(p.Student.Name), query) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		summary.Payments = append(summary.Payments, p)
	}

	return summary, nil
}

func (s *Service) Create(ctx context.Context, in remote.PaymentInput) (*remote.Payment, error) {
	if in.Status == "" {
		in.Status = remote.PaymentPending
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	s.applyPaidDate(&in)

	created, err := s.backend.CreatePayment(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.activity.Record(ctx, activity.PaymentCreated, created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, in remote.PaymentInput) (*remote.Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	s.applyPaidDate(&in)

	updated, err := s.backend.UpdatePayment(ctx, id, in)
	if err != nil {
		return nil, mapRemoteError("failed to update payment", err)
	}

	s.activity.Record(ctx, activity.PaymentUpdated, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	if err := s.backend.DeletePayment(ctx, id); err != nil {
		return mapRemoteError("failed to delete payment", err)
	}

	s.activity.Record(ctx, activity.PaymentDeleted, id)
	return nil
}

// applyPaidDate keeps dataPagamento consistent with the status: a PAGO
// payment without a date is stamped now, any other status clears it.
func (s *Service) applyPaidDate(in *remote.PaymentInput) {
	if in.Status != remote.PaymentPaid {
		in.PaidAt = nil
		return
	}
	if in.PaidAt == nil || *in.PaidAt == "" {
		now := s.now().UTC().Format(time.RFC3339)
		in.PaidAt = &now
	}
}

func (s *Service) check(in remote.PaymentInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) month(m string) (string, error) {
	if m == "" {
		return MonthName(s.now()), nil
	}
	if !validMonth(m) {
		return "", fmt.Errorf("%w: unknown month %q", ErrInvalidInput, m)
	}
	return m, nil
}

func totalOf(payments []remote.Payment, status remote.PaymentStatus) money.Money {
	return money.Sum(payments, func(p remote.Payment) (money.Money, bool) {
		return p.Amount, p.Status == status
	})
}

func mapRemoteError(msg string, err error) error {
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrPaymentNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
