package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

const (
	titleMinLen = 3
	titleMaxLen = 30
)

// ProjectService handles project-level business logic.
type ProjectService struct {
	store Store
	cache Invalidator
	log   *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(store Store, cache Invalidator, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{store: store, cache: cache, log: log}
}

// Create validates and persists a new project. The title must be unique
// service-wide; the unique index reports collisions as ErrDuplicateTitle.
func (s *ProjectService) Create(ctx context.Context, title, description string) (*domain.Project, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	now := time.Now()
	p := &domain.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Status:      domain.StatusActive,
		StartDate:   now,
		TeamMembers: []primitive.ObjectID{},
		Tasks:       []domain.Task{},
		Color:       domain.DefaultColor,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.String("project_id", p.ID.Hex()), zap.String("title", p.Title))
	return p, nil
}

// List returns all project summaries, newest first, without tasks.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// Get loads the full aggregate.
func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	id, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Update rewrites title/description with the same validation as Create.
func (s *ProjectService) Update(ctx context.Context, projectID, title, description string) error {
	id, err := parseID(projectID)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if err := s.store.UpdateProjectInfo(ctx, id, title, description); err != nil {
		return err
	}
	return s.invalidate(ctx, projectID)
}

// Delete removes the aggregate and everything embedded in it.
func (s *ProjectService) Delete(ctx context.Context, projectID string) (int64, error) {
	id, err := parseID(projectID)
	if err != nil {
		return 0, err
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, domain.ErrProjectNotFound
	}
	s.log.Info("project deleted", zap.String("project_id", projectID))
	return deleted, s.invalidate(ctx, projectID)
}

func (s *ProjectService) invalidate(ctx context.Context, projectID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		// Cache trouble must not fail the mutation that already landed.
		s.log.Warn("stats cache invalidation failed", zap.String("project_id", projectID), zap.Error(err))
	}
	return nil
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return fmt.Errorf("%w: title must be between %d and %d characters", domain.ErrValidation, titleMinLen, titleMaxLen)
	}
	return nil
}

// parseID converts a 24-hex identifier, rejecting malformed input before
// any storage access.
func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}
