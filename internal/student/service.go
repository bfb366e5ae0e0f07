// Package student covers the student register.
package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cantinho/internal/activity"
	"cantinho/internal/remote"

	"github.com/go-playground/validator/v10"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Backend interface {
	ListStudents(ctx context.Context) ([]remote.Student, error)
	GetStudent(ctx context.Context, id int) (*remote.Student, error)
	CreateStudent(ctx context.Context, in remote.StudentInput) (*remote.Student, error)
	UpdateStudent(ctx context.Context, id int, in remote.StudentUpdate) (*remote.Student, error)
}

// Filter matches Query against the student's and the guardian's name.
type Filter struct {
	Query  string
	Status remote.StudentStatus
}

type Service interface {
	ListStudents(ctx context.Context, f Filter) ([]remote.Student, error)
	GetStudent(ctx context.Context, id int) (*remote.Student, error)
	CreateStudent(ctx context.Context, in remote.StudentInput) (*remote.Student, error)
	UpdateStudent(ctx context.Context, id int, in remote.StudentUpdate) (*remote.Student, error)
}

type service struct {
	backend  Backend
	validate *validator.Validate
	activity *activity.Recorder
	logger   *slog.Logger
}

func NewService(backend Backend, validate *validator.Validate, recorder *activity.Recorder, logger *slog.Logger) Service {
	return &service{
		backend:  backend,
		validate: validate,
		activity: recorder,
		logger:   logger,
	}
}

func (s *service) ListStudents(ctx context.Context, f Filter) ([]remote.Student, error) {
	students, err := s.backend.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]remote.Student, 0, len(students))
	for _, st := range students {
		if f.Status != "" && st.Status != f.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(st.Name), query) &&
			!strings.Contains(strings.ToLower(st.GuardianName), query) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *service) GetStudent(ctx context.Context, id int) (*remote.Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	st, err := s.backend.GetStudent(ctx, id)
	if err != nil {
		return nil, mapRemoteError("failed to get student", err)
	}
	return st, nil
}

func (s *service) CreateStudent(ctx context.Context, in remote.StudentInput) (*remote.Student, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.GuardianName = strings.TrimSpace(in.GuardianName)
	in.GuardianPhone = strings.TrimSpace(in.GuardianPhone)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	created, err := s.backend.CreateStudent(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.activity.Record(ctx, activity.StudentCreated, created.ID)
	return created, nil
}

func (s *service) UpdateStudent(ctx context.Context, id int, in remote.StudentUpdate) (*remote.Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated, err := s.backend.UpdateStudent(ctx, id, in)
	if err != nil {
		return nil, mapRemoteError("failed to update student", err)
	}

	s.activity.Record(ctx, activity.StudentUpdated, id)
	return updated, nil
}

func mapRemoteError(msg string, err error) error {
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrStudentNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
