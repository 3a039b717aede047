package service

import (
	"formdocs/internal/cache"
	"formdocs/internal/merge"
	"formdocs/internal/model"
	"formdocs/internal/repository"

	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("document session not found")

// PreviewSegment is a merge segment annotated for interactive rendering:
// which editor widget to show for a placeholder and whether it accepts
// input right now.
type PreviewSegment struct {
	merge.Segment
	Editor   model.FieldType `json:"editor,omitempty"`
	Options  []string        `json:"options,omitempty"`
	Editable bool            `json:"editable"`
}

// documentSession is the in-memory state of one document-generation
// session. The overlay starts as a copy of the response data and absorbs
// user edits; the merge engine stays pure over (template, overlay).
type documentSession struct {
	id         string
	templateID string
	responseID string
	formID     string
	content    string
	fields     []model.FieldDescriptor
	source     merge.Data
	overlay    merge.Data
	createdAt  time.Time
}

// DocumentService owns document-generation sessions: it composes the
// merge engine with template/response storage and keeps the per-session
// edit overlay. Sessions are also written through to Redis so they can be
// restored after a restart.
type DocumentService struct {
	templates    *TemplateService
	forms        *FormService
	responseRepo repository.ResponseRepo
	sessionCache cache.SessionCache
	broadcaster  Broadcaster

	mu       sync.RWMutex
	sessions map[string]*documentSession
}

// NewDocumentService creates a new document service
func NewDocumentService(
	templates *TemplateService,
	forms *FormService,
	responseRepo repository.ResponseRepo,
	sessionCache cache.SessionCache,
) *DocumentService {
	return &DocumentService{
		templates:    templates,
		forms:        forms,
		responseRepo: responseRepo,
		sessionCache: sessionCache,
		sessions:     make(map[string]*documentSession),
	}
}

// SetBroadcaster injects the websocket broadcaster
func (s *DocumentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSession opens a session over a template and, optionally, a
// response whose data seeds the overlay. An empty responseID previews the
// template with an empty overlay; edits then live only in the session.
func (s *DocumentService) CreateSession(ctx context.Context, templateID, responseID string) (*model.DocumentSession, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}

	sess := &documentSession{
		id:         uuid.New().String(),
		templateID: templateID,
		responseID: responseID,
		content:    tpl.Content,
		source:     merge.Data{},
		createdAt:  time.Now(),
	}

	if responseID != "" {
		resp, err := s.responseRepo.GetByID(ctx, responseID)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, ErrResponseNotFound
		}
		sess.formID = resp.FormID
		sess.source = merge.Data(resp.Data).Clone()

		// Field descriptors only pick editor widgets; a missing form
		// degrades to plain-text editing.
		if form, err := s.forms.GetByID(ctx, resp.FormID); err == nil && form != nil {
			sess.fields = form.Fields
		}
	}
	sess.overlay = sess.source.Clone()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	snapshot := sess.snapshot()
	s.mu.Unlock()

	_ = s.sessionCache.Set(ctx, snapshot)
	return snapshot, nil
}

// SetValue overwrites one overlay entry. The next Segments or ExportText
// call reflects it immediately; nothing is persisted until Save.
func (s *DocumentService) SetValue(ctx context.Context, sessionID, key string, value any) error {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}

	// Snapshot inside the lock: it clones the overlay, which a concurrent
	// edit to the same session may be writing.
	s.mu.Lock()
	sess.overlay[key] = value
	snapshot := sess.snapshot()
	s.mu.Unlock()

	_ = s.sessionCache.Set(ctx, snapshot)
	return nil
}

// Reset discards all overlay edits, re-copying the upstream response data
func (s *DocumentService) Reset(ctx context.Context, sessionID string) error {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	sess.overlay = sess.source.Clone()
	snapshot := sess.snapshot()
	s.mu.Unlock()

	_ = s.sessionCache.Set(ctx, snapshot)
	return nil
}

// Segments renders the interactive preview: the merge engine's segment
// walk over the overlay, each placeholder annotated with its editor
// widget. Unresolved segments are always editable; resolved ones only
// when the caller is in edit mode.
func (s *DocumentService) Segments(ctx context.Context, sessionID string, editing bool) ([]PreviewSegment, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	segs := merge.RenderSegments(sess.content, sess.overlay)
	fields := sess.fields
	s.mu.RUnlock()

	out := make([]PreviewSegment, 0, len(segs))
	for _, seg := range segs {
		ps := PreviewSegment{Segment: seg}
		switch seg.Kind {
		case merge.SegmentResolved:
			ps.Editable = editing
		case merge.SegmentUnresolved:
			ps.Editable = true
		}
		if seg.Kind != merge.SegmentLiteral {
			field := descriptorFor(seg.Name, fields)
			if field != nil {
				ps.Editor = field.Type
				if field.Type.IsChoice() {
					ps.Options = field.Options
				}
			} else {
				ps.Editor = model.FieldTypeText
			}
		}
		out = append(out, ps)
	}
	return out, nil
}

// ExportText renders the flat document for export, diagnostic block
// included when placeholders are unresolved
func (s *DocumentService) ExportText(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return merge.Render(sess.content, sess.overlay), nil
}

// Save persists the overlay as the response's data, replacing it whole.
// Without a bound response there is nothing to persist and Save reports
// success; the edits stay in the session. A failed write leaves the
// overlay untouched so the user can retry.
func (s *DocumentService) Save(ctx context.Context, sessionID string) error {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.responseID == "" {
		return nil
	}

	s.mu.RLock()
	data := sess.overlay.Clone()
	s.mu.RUnlock()

	if err := s.responseRepo.UpdateData(ctx, sess.responseID, data); err != nil {
		return fmt.Errorf("failed to save response data: %w", err)
	}

	s.mu.Lock()
	sess.source = data.Clone()
	s.mu.Unlock()

	s.publish(TopicResponses(sess.formID), EventResponseUpdated, map[string]string{
		"responseId": sess.responseID,
		"formId":     sess.formID,
	})
	return nil
}

// SaveRawText stores a free-edited document string verbatim on the
// response, bypassing placeholder substitution entirely
func (s *DocumentService) SaveRawText(ctx context.Context, sessionID, text string) error {
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.responseID == "" {
		return nil
	}

	if err := s.responseRepo.SetEditedText(ctx, sess.responseID, text); err != nil {
		return fmt.Errorf("failed to save edited text: %w", err)
	}

	s.publish(TopicResponses(sess.formID), EventResponseUpdated, map[string]string{
		"responseId": sess.responseID,
		"formId":     sess.formID,
	})
	return nil
}

// CloseSession drops a session from memory and Redis
func (s *DocumentService) CloseSession(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.sessionCache.Delete(ctx, sessionID)
}

// get finds a session in memory, falling back to the Redis snapshot when
// the server has restarted since the session was opened
func (s *DocumentService) get(ctx context.Context, sessionID string) (*documentSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	snapshot, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil || snapshot == nil {
		return nil, ErrSessionNotFound
	}
	sess, err = s.restore(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sessionID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *DocumentService) restore(ctx context.Context, snapshot *model.DocumentSession) (*documentSession, error) {
	tpl, err := s.templates.GetByID(ctx, snapshot.TemplateID)
	if err != nil || tpl == nil {
		return nil, ErrSessionNotFound
	}

	sess := &documentSession{
		id:         snapshot.ID,
		templateID: snapshot.TemplateID,
		responseID: snapshot.ResponseID,
		formID:     snapshot.FormID,
		content:    tpl.Content,
		source:     merge.Data{},
		overlay:    merge.Data(snapshot.Overlay).Clone(),
		createdAt:  snapshot.CreatedAt,
	}

	if snapshot.ResponseID != "" {
		if resp, err := s.responseRepo.GetByID(ctx, snapshot.ResponseID); err == nil && resp != nil {
			sess.source = merge.Data(resp.Data).Clone()
		}
		if form, err := s.forms.GetByID(ctx, snapshot.FormID); err == nil && form != nil {
			sess.fields = form.Fields
		}
	}
	return sess, nil
}

func (s *DocumentService) publish(topic, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(topic, event, payload)
	}
}

func (sess *documentSession) snapshot() *model.DocumentSession {
	return &model.DocumentSession{
		ID:         sess.id,
		TemplateID: sess.templateID,
		ResponseID: sess.responseID,
		FormID:     sess.formID,
		Overlay:    map[string]any(sess.overlay.Clone()),
		CreatedAt:  sess.createdAt,
	}
}

// descriptorFor matches a placeholder name against form fields the same
// way the resolver matches data keys: exact label, exact id, then
// normalized label. No match means plain-text editing.
func descriptorFor(name string, fields []model.FieldDescriptor) *model.FieldDescriptor {
	for i := range fields {
		if fields[i].Label == name || fields[i].ID == name {
			return &fields[i]
		}
	}
	want := merge.Normalize(name)
	for i := range fields {
		if merge.Normalize(fields[i].Label) == want {
			return &fields[i]
		}
	}
	return nil
}
