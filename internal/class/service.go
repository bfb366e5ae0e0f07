// Package class books weekly class slots and manages their rosters.
package class

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"cantinho/internal/activity"
	"cantinho/internal/remote"
	"cantinho/internal/schedule"

	"github.com/go-playground/validator/v10"
)

var (
	ErrClassNotFound        = errors.New("class not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConfirmationRequired = errors.New("deletion requires confirmation")
)

// Backend is the part of the remote API the class screens use.
type Backend interface {
	ListClasses(ctx context.Context, day schedule.DayOfWeek) ([]remote.Class, error)
	CreateClass(ctx context.Context, in remote.ClassInput) (*remote.Class, error)
	UpdateClass(ctx context.Context, id int, in remote.ClassInput) (*remote.Class, error)
	AddStudentToClass(ctx context.Context, classID, studentID int) error
	RemoveStudentFromClass(ctx context.Context, classID, studentID int) error
	DeleteClass(ctx context.Context, id int) error
}

type Service interface {
	CreateClass(ctx context.Context, in remote.ClassInput) (*remote.Class, error)
	UpdateClass(ctx context.Context, id int, in remote.ClassInput) (*remote.Class, error)
	AddStudent(ctx context.Context, classID, studentID int) (*remote.Class, error)
	RemoveStudent(ctx context.Context, classID, studentID int) (*remote.Class, error)
	DeleteClass(ctx context.Context, id int, confirmed bool) error
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

// CreateClass books a new slot. Only Monday to Saturday can be booked; the
// backend decides about overlaps.
func (s *service) CreateClass(ctx context.Context, in remote.ClassInput) (*remote.Class, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !slices.Contains(schedule.BookableDays, in.Day) {
		return nil, fmt.Errorf("%w: classes cannot be booked on %s", ErrInvalidInput, in.Day)
	}

	created, err := s.backend.CreateClass(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.activity.Record(ctx, activity.ClassCreated, created.ID)
	return created, nil
}

func (s *service) UpdateClass(ctx context.Context, id int, in remote.ClassInput) (*remote.Class, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	updated, err := s.backend.UpdateClass(ctx, id, in)
	if err != nil {
		return nil, mapRemoteError("failed to update class", err)
	}

	s.activity.Record(ctx, activity.ClassUpdated, id)
	return updated, nil
}

// AddStudent enrolls studentID. When the student is already on the roster
// nothing is sent to the backend and the class is returned as is.
func (s *service) AddStudent(ctx context.Context, classID, studentID int) (*remote.Class, error) {
	if classID <= 0 || studentID <= 0 {
		return nil, ErrInvalidInput
	}

	c, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	roster := RosterOf(*c)
	if roster.Contains(studentID) {
		s.logger.DebugContext(ctx, "student already enrolled", "class_id", classID, "student_id", studentID)
		return c, nil
	}

	if err := s.backend.AddStudentToClass(ctx, classID, studentID); err != nil {
		return nil, mapRemoteError("failed to add student to class", err)
	}

	enroll(c, roster.Add(studentID))
	s.activity.Record(ctx, activity.ClassStudentAdded, classID)
	return c, nil
}

// RemoveStudent always reaches the backend, enrolled or not, and returns the
// class with studentID dropped from its roster.
func (s *service) RemoveStudent(ctx context.Context, classID, studentID int) (*remote.Class, error) {
	if classID <= 0 || studentID <= 0 {
		return nil, ErrInvalidInput
	}

	c, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := s.backend.RemoveStudentFromClass(ctx, classID, studentID); err != nil {
		return nil, mapRemoteError("failed to remove student from class", err)
	}

	enroll(c, RosterOf(*c).Remove(studentID))
	s.activity.Record(ctx, activity.ClassStudentRemoved, classID)
	return c, nil
}

func (s *service) DeleteClass(ctx context.Context, id int, confirmed bool) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.backend.DeleteClass(ctx, id); err != nil {
		return mapRemoteError("failed to delete class", err)
	}

	s.activity.Record(ctx, activity.ClassDeleted, id)
	return nil
}

// findClass looks id up in the full class list; the API has no single-class read.
func (s *service) findClass(ctx context.Context, id int) (*remote.Class, error) {
	classes, err := s.backend.ListClasses(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load classes: %w", err)
	}
	for i := range classes {
		if classes[i].ID == id {
			c := classes[i]
			c.Students = slices.Clone(c.Students)
			return &c, nil
		}
	}
	return nil, ErrClassNotFound
}

func mapRemoteError(msg string, err error) error {
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrClassNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
