package service

// Event types published to websocket subscribers
const (
	EventFormCreated     = "form_created"
	EventFormUpdated     = "form_updated"
	EventFormDeleted     = "form_deleted"
	EventTemplateCreated = "template_created"
	EventTemplateUpdated = "template_updated"
	EventTemplateDeleted = "template_deleted"
	EventResponseCreated = "response_created"
	EventResponseUpdated = "response_updated"
	EventResponseDeleted = "response_deleted"
)

// Broadcaster interface for publishing change events to subscribers
// (avoids an import cycle with the websocket transport)
type Broadcaster interface {
	Publish(topic string, msgType string, payload interface{})
}

// Topics. Subscribers pick a topic filter when they connect; publishers
// emit under the narrowest topic that covers the change.
const (
	TopicForms     = "forms"
	TopicTemplates = "templates"
)

// TopicForm is the topic for changes to a single form and its fields
func TopicForm(formID string) string {
	return "form:" + formID
}

// TopicResponses is the topic for responses submitted to one form
func TopicResponses(formID string) string {
	return "responses:" + formID
}
