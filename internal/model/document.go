package model

import "time"

// DocumentSession is the persisted state of one document-generation
// session: which template and response it was opened over, plus the
// overlay of user-entered corrections layered on the response data.
type DocumentSession struct {
	ID         string         `json:"id"`
	TemplateID string         `json:"templateId"`
	ResponseID string         `json:"responseId,omitempty"` // empty when previewing without a bound response
	FormID     string         `json:"formId,omitempty"`
	Overlay    map[string]any `json:"overlay"`
	CreatedAt  time.Time      `json:"createdAt"`
}
