package service

import (
	"formdocs/internal/model"

	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// In-memory fakes for the repository and cache interfaces. Storage
// lives behind interfaces, so service behavior is testable without
// Mongo or Redis.

type memFormRepo struct {
	forms map[string]*model.Form
	next  int
}

func newMemFormRepo() *memFormRepo {
	return &memFormRepo{forms: make(map[string]*model.Form)}
}

func (r *memFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.next++
	id := fmt.Sprintf("form%d", r.next)
	form.ID = id
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	stored := *form
	r.forms[id] = &stored
	return id, nil
}

func (r *memFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	copied := *form
	return &copied, nil
}

func (r *memFormRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error) {
	var out []*model.Form
	for _, f := range r.forms {
		if f.OwnerID == ownerID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memFormRepo) CountByOwnerID(ctx context.Context, ownerID string) (int64, error) {
	forms, _ := r.GetByOwnerID(ctx, ownerID)
	return int64(len(forms)), nil
}

func (r *memFormRepo) Update(ctx context.Context, form *model.Form) error {
	if _, ok := r.forms[form.ID]; !ok {
		return errors.New("not found")
	}
	form.UpdatedAt = time.Now()
	stored := *form
	r.forms[form.ID] = &stored
	return nil
}

func (r *memFormRepo) Delete(ctx context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

type memTemplateRepo struct {
	templates map[string]*model.Template
	next      int
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{templates: make(map[string]*model.Template)}
}

func (r *memTemplateRepo) Create(ctx context.Context, tpl *model.Template) (string, error) {
	r.next++
	id := fmt.Sprintf("tpl%d", r.next)
	tpl.ID = id
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = time.Now()
	stored := *tpl
	r.templates[id] = &stored
	return id, nil
}

func (r *memTemplateRepo) GetByID(ctx context.Context, id string) (*model.Template, error) {
	tpl, ok := r.templates[id]
	if !ok {
		return nil, nil
	}
	copied := *tpl
	return &copied, nil
}

func (r *memTemplateRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Template, error) {
	var out []*model.Template
	for _, t := range r.templates {
		if t.OwnerID == ownerID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memTemplateRepo) Update(ctx context.Context, tpl *model.Template) error {
	if _, ok := r.templates[tpl.ID]; !ok {
		return errors.New("not found")
	}
	stored := *tpl
	r.templates[tpl.ID] = &stored
	return nil
}

func (r *memTemplateRepo) Delete(ctx context.Context, id string) error {
	delete(r.templates, id)
	return nil
}

type memResponseRepo struct {
	responses  map[string]*model.Response
	next       int
	failWrites bool // when set, UpdateData and SetEditedText fail
}

func newMemResponseRepo() *memResponseRepo {
	return &memResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *memResponseRepo) Create(ctx context.Context, resp *model.Response) (string, error) {
	r.next++
	id := fmt.Sprintf("resp%d", r.next)
	resp.ID = id
	resp.SubmittedAt = time.Now()
	resp.UpdatedAt = time.Now()
	stored := *resp
	r.responses[id] = &stored
	return id, nil
}

func (r *memResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	resp, ok := r.responses[id]
	if !ok {
		return nil, nil
	}
	copied := *resp
	return &copied, nil
}

func (r *memResponseRepo) GetByFormID(ctx context.Context, formID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.FormID == formID {
			copied := *resp
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memResponseRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	responses, _ := r.GetByFormID(ctx, formID)
	return int64(len(responses)), nil
}

func (r *memResponseRepo) UpdateData(ctx context.Context, id string, data map[string]any) error {
	if r.failWrites {
		return errors.New("write failed")
	}
	resp, ok := r.responses[id]
	if !ok {
		return errors.New("not found")
	}
	resp.Data = data
	resp.UpdatedAt = time.Now()
	return nil
}

func (r *memResponseRepo) SetEditedText(ctx context.Context, id string, text string) error {
	if r.failWrites {
		return errors.New("write failed")
	}
	resp, ok := r.responses[id]
	if !ok {
		return errors.New("not found")
	}
	resp.EditedText = text
	resp.UpdatedAt = time.Now()
	return nil
}

func (r *memResponseRepo) Delete(ctx context.Context, id string) error {
	delete(r.responses, id)
	return nil
}

type memFormCache struct {
	forms map[string]*model.Form
}

func newMemFormCache() *memFormCache {
	return &memFormCache{forms: make(map[string]*model.Form)}
}

func (c *memFormCache) Set(ctx context.Context, form *model.Form) error {
	c.forms[form.ID] = form
	return nil
}

func (c *memFormCache) Get(ctx context.Context, id string) (*model.Form, error) {
	return c.forms[id], nil
}

func (c *memFormCache) Delete(ctx context.Context, id string) error {
	delete(c.forms, id)
	return nil
}

type memTemplateCache struct {
	templates map[string]*model.Template
}

func newMemTemplateCache() *memTemplateCache {
	return &memTemplateCache{templates: make(map[string]*model.Template)}
}

func (c *memTemplateCache) Set(ctx context.Context, tpl *model.Template) error {
	c.templates[tpl.ID] = tpl
	return nil
}

func (c *memTemplateCache) Get(ctx context.Context, id string) (*model.Template, error) {
	return c.templates[id], nil
}

func (c *memTemplateCache) Delete(ctx context.Context, id string) error {
	delete(c.templates, id)
	return nil
}

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.DocumentSession
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{sessions: make(map[string]*model.DocumentSession)}
}

func (c *memSessionCache) Set(ctx context.Context, session *model.DocumentSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = session
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, id string) (*model.DocumentSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id], nil
}

func (c *memSessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

// recordingBroadcaster captures published events for assertions
type recordingBroadcaster struct {
	events []publishedEvent
}

type publishedEvent struct {
	topic   string
	msgType string
}

func (b *recordingBroadcaster) Publish(topic string, msgType string, payload interface{}) {
	b.events = append(b.events, publishedEvent{topic: topic, msgType: msgType})
}
