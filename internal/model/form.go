package model

import "time"

// FieldType identifies which editor widget a field renders with
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeSelect      FieldType = "select"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeDate        FieldType = "date"
	FieldTypeNumber      FieldType = "number"
	FieldTypeEmail       FieldType = "email"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeMultiselect FieldType = "multiselect"
)

// IsChoice reports whether the field type carries a fixed option list
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox, FieldTypeMultiselect:
		return true
	}
	return false
}

// FieldDescriptor describes one field of a form
type FieldDescriptor struct {
	ID       string    `json:"id" bson:"id"`
	Label    string    `json:"label" bson:"label"`
	Type     FieldType `json:"type" bson:"type"`
	Options  []string  `json:"options,omitempty" bson:"options,omitempty"` // choice types only
	Required bool      `json:"required" bson:"required"`
}

// Form is a user-built form definition. Fields slice order is display order.
type Form struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	OwnerID     string            `json:"ownerId" bson:"ownerId"`
	Title       string            `json:"title" bson:"title"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Fields      []FieldDescriptor `json:"fields" bson:"fields"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}
