package service

import (
	"formdocs/internal/cache"
	"formdocs/internal/merge"
	"formdocs/internal/model"
	"formdocs/internal/repository"

	"context"
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrMalformedTemplate = errors.New("template contains an unterminated {{ placeholder")
	ErrUntitledTemplate  = errors.New("template title is required")
)

// TemplateService handles document template CRUD. Malformed placeholder
// syntax is rejected here, before content is ever persisted, so the merge
// engine downstream never sees it from our own storage.
type TemplateService struct {
	templateRepo  repository.TemplateRepo
	templateCache cache.TemplateCache
	broadcaster   Broadcaster
}

// NewTemplateService creates a new template service
func NewTemplateService(templateRepo repository.TemplateRepo, templateCache cache.TemplateCache) *TemplateService {
	return &TemplateService{
		templateRepo:  templateRepo,
		templateCache: templateCache,
	}
}

// SetBroadcaster injects the websocket broadcaster
func (s *TemplateService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create validates and persists a new template
func (s *TemplateService) Create(ctx context.Context, tpl *model.Template) (string, error) {
	if tpl.Title == "" {
		return "", ErrUntitledTemplate
	}
	if merge.HasUnterminated(tpl.Content) {
		return "", ErrMalformedTemplate
	}

	id, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}
	tpl.ID = id

	s.publish(EventTemplateCreated, map[string]string{"templateId": id})
	return id, nil
}

// GetByID retrieves a template, consulting the cache first
func (s *TemplateService) GetByID(ctx context.Context, id string) (*model.Template, error) {
	if tpl, err := s.templateCache.Get(ctx, id); err == nil && tpl != nil {
		return tpl, nil
	}

	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, nil
	}

	_ = s.templateCache.Set(ctx, tpl)
	return tpl, nil
}

// GetByOwnerID lists a user's templates, most recently updated first
func (s *TemplateService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Template, error) {
	return s.templateRepo.GetByOwnerID(ctx, ownerID)
}

// Placeholders returns the distinct placeholder names a template uses,
// in first-occurrence order
func (s *TemplateService) Placeholders(ctx context.Context, id string) ([]string, error) {
	tpl, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	return merge.Extract(tpl.Content), nil
}

// Update replaces an existing template after ownership and syntax checks
func (s *TemplateService) Update(ctx context.Context, ownerID string, tpl *model.Template) error {
	existing, err := s.templateRepo.GetByID(ctx, tpl.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTemplateNotFound
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}
	if tpl.Title == "" {
		return ErrUntitledTemplate
	}
	if merge.HasUnterminated(tpl.Content) {
		return ErrMalformedTemplate
	}

	tpl.OwnerID = existing.OwnerID
	tpl.CreatedAt = existing.CreatedAt
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	_ = s.templateCache.Delete(ctx, tpl.ID)
	s.publish(EventTemplateUpdated, map[string]string{"templateId": tpl.ID})
	return nil
}

// Delete removes a template
func (s *TemplateService) Delete(ctx context.Context, ownerID, id string) error {
	existing, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTemplateNotFound
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.templateCache.Delete(ctx, id)
	s.publish(EventTemplateDeleted, map[string]string{"templateId": id})
	return nil
}

func (s *TemplateService) publish(event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(TopicTemplates, event, payload)
	}
}
