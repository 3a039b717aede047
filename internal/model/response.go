package model

import "time"

// Response is one submitted set of answers for a form. Data keys originate
// from either a field's internal id or its label depending on how the client
// submitted them; consumers resolve the difference via the merge package's
// normalized-key fallback.
type Response struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	FormID      string         `json:"formId" bson:"formId"`
	Data        map[string]any `json:"data" bson:"data"`
	EditedText  string         `json:"editedText,omitempty" bson:"editedText,omitempty"` // free-edited document text, bypasses merge
	SubmittedAt time.Time      `json:"submittedAt" bson:"submittedAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}
