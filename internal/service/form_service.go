package service

import (
	"formdocs/internal/cache"
	"formdocs/internal/model"
	"formdocs/internal/repository"

	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrInvalidMove     = errors.New("field move indexes out of range")
	ErrNotOwner        = errors.New("form does not belong to this user")
	ErrUntitledForm    = errors.New("form title is required")
	ErrUnlabeledField  = errors.New("field label is required")
	ErrDuplicateField  = errors.New("duplicate field label")
	ErrMissingRequired = errors.New("missing required field")
)

// FormService handles form CRUD and field ordering
type FormService struct {
	formRepo    repository.FormRepo
	formCache   cache.FormCache
	broadcaster Broadcaster
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, formCache cache.FormCache) *FormService {
	return &FormService{
		formRepo:  formRepo,
		formCache: formCache,
	}
}

// SetBroadcaster injects the websocket broadcaster
func (s *FormService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create validates and persists a new form, assigning ids to fields that
// arrive without one
func (s *FormService) Create(ctx context.Context, form *model.Form) (string, error) {
	if form.Title == "" {
		return "", ErrUntitledForm
	}
	if err := validateFields(form.Fields); err != nil {
		return "", err
	}
	assignFieldIDs(form.Fields)

	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return "", fmt.Errorf("failed to create form: %w", err)
	}
	form.ID = id

	s.publish(TopicForms, EventFormCreated, map[string]string{"formId": id})
	return id, nil
}

// GetByID retrieves a form, consulting the cache first
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	if form, err := s.formCache.Get(ctx, id); err == nil && form != nil {
		return form, nil
	}

	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, nil
	}

	// Best effort; a cold cache just means the next read hits Mongo again.
	_ = s.formCache.Set(ctx, form)
	return form, nil
}

// GetByOwnerID lists a user's forms, most recently updated first
func (s *FormService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error) {
	return s.formRepo.GetByOwnerID(ctx, ownerID)
}

// CountByOwnerID returns how many forms a user owns
func (s *FormService) CountByOwnerID(ctx context.Context, ownerID string) (int64, error) {
	return s.formRepo.CountByOwnerID(ctx, ownerID)
}

// Update replaces an existing form after ownership and field validation
func (s *FormService) Update(ctx context.Context, ownerID string, form *model.Form) error {
	existing, err := s.formRepo.GetByID(ctx, form.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrFormNotFound
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}
	if form.Title == "" {
		return ErrUntitledForm
	}
	if err := validateFields(form.Fields); err != nil {
		return err
	}
	assignFieldIDs(form.Fields)

	form.OwnerID = existing.OwnerID
	form.CreatedAt = existing.CreatedAt
	if err := s.formRepo.Update(ctx, form); err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}

	_ = s.formCache.Delete(ctx, form.ID)
	s.publish(TopicForm(form.ID), EventFormUpdated, map[string]string{"formId": form.ID})
	return nil
}

// MoveField reorders one field by explicit index move: the field at from
// is removed and reinserted at to, shifting the fields between them
func (s *FormService) MoveField(ctx context.Context, ownerID, formID string, from, to int) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if form.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if from < 0 || from >= len(form.Fields) || to < 0 || to >= len(form.Fields) {
		return nil, ErrInvalidMove
	}

	if from != to {
		field := form.Fields[from]
		fields := append(form.Fields[:from], form.Fields[from+1:]...)
		fields = append(fields, model.FieldDescriptor{})
		copy(fields[to+1:], fields[to:])
		fields[to] = field
		form.Fields = fields

		if err := s.formRepo.Update(ctx, form); err != nil {
			return nil, fmt.Errorf("failed to reorder fields: %w", err)
		}
		_ = s.formCache.Delete(ctx, formID)
		s.publish(TopicForm(formID), EventFormUpdated, map[string]string{"formId": formID})
	}

	return form, nil
}

// Delete removes a form
func (s *FormService) Delete(ctx context.Context, ownerID, id string) error {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if form == nil {
		return ErrFormNotFound
	}
	if form.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.formRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.formCache.Delete(ctx, id)
	s.publish(TopicForms, EventFormDeleted, map[string]string{"formId": id})
	return nil
}

func (s *FormService) publish(topic, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(topic, event, payload)
	}
}

func validateFields(fields []model.FieldDescriptor) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Label == "" {
			return ErrUnlabeledField
		}
		if seen[f.Label] {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.Label)
		}
		seen[f.Label] = true
	}
	return nil
}

func assignFieldIDs(fields []model.FieldDescriptor) {
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = "field_" + uuid.New().String()[:8]
		}
	}
}
