package service

import (
	"formdocs/internal/model"

	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormService() (*FormService, *memFormRepo) {
	repo := newMemFormRepo()
	return NewFormService(repo, newMemFormCache()), repo
}

func signupFields() []model.FieldDescriptor {
	return []model.FieldDescriptor{
		{Label: "Full Name", Type: model.FieldTypeText, Required: true},
		{Label: "Email", Type: model.FieldTypeEmail},
		{Label: "Country", Type: model.FieldTypeSelect, Options: []string{"NO", "SE", "DK"}},
		{Label: "Interests", Type: model.FieldTypeMultiselect, Options: []string{"go", "rust"}},
	}
}

func TestFormCreateAssignsFieldIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	form := &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()}
	id, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	for _, f := range form.Fields {
		assert.NotEmpty(t, f.ID)
	}
}

func TestFormCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	_, err := svc.Create(ctx, &model.Form{OwnerID: "user_1"})
	assert.ErrorIs(t, err, ErrUntitledForm)

	_, err = svc.Create(ctx, &model.Form{
		OwnerID: "user_1",
		Title:   "Bad",
		Fields:  []model.FieldDescriptor{{Type: model.FieldTypeText}},
	})
	assert.ErrorIs(t, err, ErrUnlabeledField)

	_, err = svc.Create(ctx, &model.Form{
		OwnerID: "user_1",
		Title:   "Bad",
		Fields: []model.FieldDescriptor{
			{Label: "Name", Type: model.FieldTypeText},
			{Label: "Name", Type: model.FieldTypeText},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestFormMoveField(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	form := &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()}
	id, err := svc.Create(ctx, form)
	require.NoError(t, err)

	moved, err := svc.MoveField(ctx, "user_1", id, 0, 2)
	require.NoError(t, err)

	labels := make([]string, len(moved.Fields))
	for i, f := range moved.Fields {
		labels[i] = f.Label
	}
	assert.Equal(t, []string{"Email", "Country", "Full Name", "Interests"}, labels)
}

func TestFormMoveFieldToFront(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	id, err := svc.Create(ctx, &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()})
	require.NoError(t, err)

	moved, err := svc.MoveField(ctx, "user_1", id, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, "Interests", moved.Fields[0].Label)
	assert.Equal(t, "Full Name", moved.Fields[1].Label)
}

func TestFormMoveFieldOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	id, err := svc.Create(ctx, &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()})
	require.NoError(t, err)

	_, err = svc.MoveField(ctx, "user_1", id, 0, 9)
	assert.ErrorIs(t, err, ErrInvalidMove)
	_, err = svc.MoveField(ctx, "user_1", id, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestFormMoveFieldRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()

	id, err := svc.Create(ctx, &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()})
	require.NoError(t, err)

	_, err = svc.MoveField(ctx, "user_2", id, 0, 1)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestFormEventsPublished(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFormService()
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)

	id, err := svc.Create(ctx, &model.Form{OwnerID: "user_1", Title: "Signup", Fields: signupFields()})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "user_1", id))

	require.Len(t, b.events, 2)
	assert.Equal(t, publishedEvent{topic: TopicForms, msgType: EventFormCreated}, b.events[0])
	assert.Equal(t, publishedEvent{topic: TopicForms, msgType: EventFormDeleted}, b.events[1])
}
