// Package material handles teaching materials: uploads, listing, removal and
// download links.
package material

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cantinho/internal/activity"
	"cantinho/internal/remote"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrTypeMismatch         = errors.New("file content does not match the material type")
	ErrConfirmationRequired = errors.New("deletion requires confirmation")
)

// MaxUploadSize bounds the file accepted from the browser.
const MaxUploadSize = 20 << 20

type Backend interface {
	ListMaterials(ctx context.Context) ([]remote.Material, error)
	UploadMaterial(ctx context.Context, up remote.MaterialUpload) (*remote.Material, error)
	DeleteMaterial(ctx context.Context, id int) error
	ListSubjects(ctx context.Context) ([]remote.Subject, error)
	DownloadURL(fileRef string) string
}

type Service struct {
	backend  Backend
	validate *validator.Validate
	activity *activity.Recorder
	logger   *slog.Logger
}

func NewService(backend Backend, validate *validator.Validate, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		backend:  backend,
		validate: validate,
		activity: recorder,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context) ([]remote.Material, error) {
	materials, err := s.backend.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

func (s *Service) Subjects(ctx context.Context) ([]remote.Subject, error) {
	subjects, err := s.backend.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// Upload checks the declared type against the file's actual content before
// anything is sent.
func (s *Service) Upload(ctx context.Context, up remote.MaterialUpload) (*remote.Material, error) {
	up.Title = strings.TrimSpace(up.Title)
	if err := s.validate.Struct(up); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(up.Content) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrInvalidInput, MaxUploadSize)
	}

	detected := mimetype.Detect(up.Content)
	if !Matches(up.Type, detected) {
		s.logger.InfoContext(ctx, "upload type mismatch", "declared", up.Type, "detected", detected.String())
		return nil, fmt.Errorf("%w: declared %s, got %s", ErrTypeMismatch, up.Type, detected.String())
	}

	created, err := s.backend.UploadMaterial(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("failed to upload material: %w", err)
	}

	s.activity.Record(ctx, activity.MaterialUploaded, created.ID)
	return created, nil
}

// Matches reports whether detected content is acceptable for the declared type.
func Matches(t remote.MaterialType, detected *mimetype.MIME) bool {
	switch t {
	case remote.MaterialPDF:
		return detected.Is("application/pdf")
	case remote.MaterialImage:
		for m := detected; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), "image/") {
				return true
			}
		}
	}
	return false
}

func (s *Service) Delete(ctx context.Context, id int, confirmed bool) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.backend.DeleteMaterial(ctx, id); err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}

	s.activity.Record(ctx, activity.MaterialDeleted, id)
	return nil
}

// DownloadURL resolves the public file URL of material id.
func (s *Service) DownloadURL(ctx context.Context, id int) (string, error) {
	materials, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	for _, m := range materials {
		if m.ID == id {
			return s.backend.DownloadURL(m.FileURL), nil
		}
	}
	return "", ErrMaterialNotFound
}
