package service

import (
	"formdocs/internal/model"

	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseFixture(t *testing.T) (*ResponseService, *memResponseRepo, string) {
	t.Helper()
	formRepo := newMemFormRepo()
	responseRepo := newMemResponseRepo()

	formID, err := formRepo.Create(context.Background(), &model.Form{
		OwnerID: "user_1",
		Title:   "Signup",
		Fields: []model.FieldDescriptor{
			{ID: "field_name", Label: "Full Name", Type: model.FieldTypeText, Required: true},
			{ID: "field_mail", Label: "Email", Type: model.FieldTypeEmail},
		},
	})
	require.NoError(t, err)

	return NewResponseService(responseRepo, formRepo), responseRepo, formID
}

func TestSubmitResponse(t *testing.T) {
	ctx := context.Background()
	svc, _, formID := newResponseFixture(t)

	id, err := svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"Full Name": "Ann", "Email": "ann@example.com"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Ann", stored.Data["Full Name"])

	count, err := svc.CountByFormID(ctx, formID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmitResponseMissingRequired(t *testing.T) {
	ctx := context.Background()
	svc, repo, formID := newResponseFixture(t)

	_, err := svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"Email": "ann@example.com"},
	})
	assert.ErrorIs(t, err, ErrMissingRequired)
	assert.Empty(t, repo.responses)
}

func TestSubmitResponseRequiredMatchesAnyKeyConvention(t *testing.T) {
	ctx := context.Background()
	svc, _, formID := newResponseFixture(t)

	// Keyed by field id instead of label.
	_, err := svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"field_name": "Ann"},
	})
	assert.NoError(t, err)

	// Keyed by normalized label.
	_, err = svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"full_name": "Bo"},
	})
	assert.NoError(t, err)
}

func TestSubmitResponseEmptyRequiredValueRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, formID := newResponseFixture(t)

	_, err := svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"Full Name": ""},
	})
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestSubmitResponseUnknownForm(t *testing.T) {
	svc, _, _ := newResponseFixture(t)
	_, err := svc.Submit(context.Background(), &model.Response{
		FormID: "ghost",
		Data:   map[string]any{"Full Name": "Ann"},
	})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestDeleteResponsePublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, formID := newResponseFixture(t)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)

	id, err := svc.Submit(ctx, &model.Response{
		FormID: formID,
		Data:   map[string]any{"Full Name": "Ann"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	require.Len(t, b.events, 2)
	assert.Equal(t, publishedEvent{topic: TopicResponses(formID), msgType: EventResponseCreated}, b.events[0])
	assert.Equal(t, publishedEvent{topic: TopicResponses(formID), msgType: EventResponseDeleted}, b.events[1])
}
