package service

import (
	"formdocs/internal/model"

	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplateService() (*TemplateService, *memTemplateRepo) {
	repo := newMemTemplateRepo()
	return NewTemplateService(repo, newMemTemplateCache()), repo
}

func TestTemplateCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService()

	id, err := svc.Create(ctx, &model.Template{
		OwnerID: "user_1",
		Title:   "Offer letter",
		Content: "Dear {{Full Name}}, welcome to {{Company}}.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	tpl, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, "Offer letter", tpl.Title)
}

func TestTemplateCreateRejectsMalformedContent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTemplateService()

	_, err := svc.Create(ctx, &model.Template{
		OwnerID: "user_1",
		Title:   "Broken",
		Content: "Dear {{Full Name, welcome.",
	})
	assert.ErrorIs(t, err, ErrMalformedTemplate)
	assert.Empty(t, repo.templates, "malformed content must never be persisted")
}

func TestTemplateUpdateRejectsMalformedContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService()

	id, err := svc.Create(ctx, &model.Template{
		OwnerID: "user_1",
		Title:   "Letter",
		Content: "{{name}}",
	})
	require.NoError(t, err)

	err = svc.Update(ctx, "user_1", &model.Template{
		ID:      id,
		Title:   "Letter",
		Content: "now broken {{name",
	})
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	tpl, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "{{name}}", tpl.Content)
}

func TestTemplateUpdateRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService()

	id, err := svc.Create(ctx, &model.Template{
		OwnerID: "user_1",
		Title:   "Letter",
		Content: "{{name}}",
	})
	require.NoError(t, err)

	err = svc.Update(ctx, "user_2", &model.Template{
		ID:      id,
		Title:   "Hijacked",
		Content: "changed",
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestTemplatePlaceholders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService()

	id, err := svc.Create(ctx, &model.Template{
		OwnerID: "user_1",
		Title:   "Letter",
		Content: "{{b}} and {{a}} and {{b}}",
	})
	require.NoError(t, err)

	names, err := svc.Placeholders(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)
}

func TestTemplatePlaceholdersUnknownTemplate(t *testing.T) {
	svc, _ := newTemplateService()
	_, err := svc.Placeholders(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
