package service

import (
	"formdocs/internal/merge"
	"formdocs/internal/model"
	"formdocs/internal/repository"

	"context"
	"errors"
	"fmt"
)

var ErrResponseNotFound = errors.New("response not found")

// ResponseService handles form response submission and retrieval
type ResponseService struct {
	responseRepo repository.ResponseRepo
	formRepo     repository.FormRepo
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo, formRepo repository.FormRepo) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		formRepo:     formRepo,
	}
}

// SetBroadcaster injects the websocket broadcaster
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit validates required fields and stores a response. Data keys are
// accepted as submitted, field id or label alike; the resolver's
// normalized lookup absorbs the difference at read time.
func (s *ResponseService) Submit(ctx context.Context, resp *model.Response) (string, error) {
	form, err := s.formRepo.GetByID(ctx, resp.FormID)
	if err != nil {
		return "", err
	}
	if form == nil {
		return "", ErrFormNotFound
	}

	if err := checkRequired(form.Fields, resp.Data); err != nil {
		return "", err
	}

	id, err := s.responseRepo.Create(ctx, resp)
	if err != nil {
		return "", fmt.Errorf("failed to store response: %w", err)
	}
	resp.ID = id

	s.publish(TopicResponses(resp.FormID), EventResponseCreated, map[string]string{
		"responseId": id,
		"formId":     resp.FormID,
	})
	return id, nil
}

// GetByID retrieves one response
func (s *ResponseService) GetByID(ctx context.Context, id string) (*model.Response, error) {
	return s.responseRepo.GetByID(ctx, id)
}

// GetByFormID lists a form's responses, most recent first
func (s *ResponseService) GetByFormID(ctx context.Context, formID string) ([]*model.Response, error) {
	return s.responseRepo.GetByFormID(ctx, formID)
}

// CountByFormID returns how many responses a form has collected
func (s *ResponseService) CountByFormID(ctx context.Context, formID string) (int64, error) {
	return s.responseRepo.CountByFormID(ctx, formID)
}

// Delete removes a response
func (s *ResponseService) Delete(ctx context.Context, id string) error {
	resp, err := s.responseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrResponseNotFound
	}

	if err := s.responseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(TopicResponses(resp.FormID), EventResponseDeleted, map[string]string{
		"responseId": id,
		"formId":     resp.FormID,
	})
	return nil
}

func (s *ResponseService) publish(topic, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(topic, event, payload)
	}
}

// checkRequired is the only schema validation responses get: every
// required field must carry a non-empty value under its id or its label.
func checkRequired(fields []model.FieldDescriptor, data map[string]any) error {
	for _, f := range fields {
		if !f.Required {
			continue
		}
		if hasValue(data, f.ID) || hasValue(data, f.Label) {
			continue
		}
		return fmt.Errorf("%w: %s", ErrMissingRequired, f.Label)
	}
	return nil
}

func hasValue(data map[string]any, key string) bool {
	if key == "" {
		return false
	}
	res := merge.Resolve(key, merge.Data(data))
	return res.Found && res.Value != ""
}
