package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

type fakeGenerator struct {
	completion string
	image      domain.GeneratedImage
	err        error
	prompts    []string
}

func (g *fakeGenerator) CompleteJSON(_ context.Context, _, prompt string, out any) error {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.completion), out)
}

func (g *fakeGenerator) GenerateImage(_ context.Context, prompt, _ string) (domain.GeneratedImage, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return domain.GeneratedImage{}, g.err
	}
	return g.image, nil
}

func newContentService(t *testing.T, g Generator) (*ContentService, *infrastructure.BlogRepository) {
	posts := infrastructure.NewBlogRepository(newTestDB(t))
	return &ContentService{AI: g, Posts: posts, Log: testLogger()}, posts
}

func TestGenerateBlogDraft(t *testing.T) {
	g := &fakeGenerator{completion: `{
		"title": "Llei Beckham: qui s'hi pot acollir",
		"slug": "Llei Beckham qui s'hi pot acollir",
		"excerpt": "Resum.",
		"content": "## Requisits\n...",
		"meta_description": "Descripció",
		"tags": ["fiscalitat", "expats"]
	}`}
	svc, posts := newContentService(t, g)

	post, err := svc.GenerateBlogDraft(context.Background(), DraftRequest{
		Topic:    "Ley Beckham",
		Locale:   domain.LocaleCA,
		Keywords: []string{"impatriats"},
	})
	require.NoError(t, err)
	assert.True(t, post.AIGenerated)
	assert.Equal(t, domain.StatusDraft, post.Status)
	assert.Equal(t, "llei-beckham-qui-s-hi-pot-acollir", post.Slug.CA)
	assert.Empty(t, post.Slug.ES)
	assert.Equal(t, "## Requisits\n...", post.Content.CA)
	require.Len(t, g.prompts, 1)
	assert.Contains(t, g.prompts[0], "Catalan")
	assert.Contains(t, g.prompts[0], "impatriats")

	stored, err := posts.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fiscalitat", "expats"}, []string(stored.Tags))
}

func TestGenerateBlogDraftRejectsEmptyCompletion(t *testing.T) {
	svc, _ := newContentService(t, &fakeGenerator{completion: `{"title":""}`})
	_, err := svc.GenerateBlogDraft(context.Background(), DraftRequest{Topic: "IVA"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestContentDisabledWithoutAI(t *testing.T) {
	svc, _ := newContentService(t, nil)
	ctx := context.Background()

	_, err := svc.GenerateBlogDraft(ctx, DraftRequest{Topic: "IVA"})
	assert.ErrorIs(t, err, domain.ErrAIDisabled)
	_, err = svc.AnalyzeSEO(ctx, SEORequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrAIDisabled)
	_, err = svc.GenerateImage(ctx, ImageRequest{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrAIDisabled)
}

func TestAnalyzeSEOClampsScore(t *testing.T) {
	svc, _ := newContentService(t, &fakeGenerator{completion: `{"score":140,"issues":["title too long"]}`})
	out, err := svc.AnalyzeSEO(context.Background(), SEORequest{Title: "A very long title", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Score)
	assert.Equal(t, []string{"title too long"}, out.Issues)
	assert.NotNil(t, out.Suggestions)
}

func TestAnalyzeSEOPassesUpstreamErrors(t *testing.T) {
	svc, _ := newContentService(t, &fakeGenerator{err: domain.ErrAIRateLimited})
	_, err := svc.AnalyzeSEO(context.Background(), SEORequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrAIRateLimited)
}

func TestGenerateImageSetsCover(t *testing.T) {
	g := &fakeGenerator{image: domain.GeneratedImage{URL: "https://img.example/cover.png"}}
	svc, posts := newContentService(t, g)
	ctx := context.Background()

	post := &domain.BlogPost{Kind: domain.PostKindBlog, Title: domain.LocalizedText{ES: "IVA"}, Slug: domain.LocalizedSlug{ES: "iva"}, Status: domain.StatusDraft}
	require.NoError(t, posts.Create(ctx, post))

	img, err := svc.GenerateImage(ctx, ImageRequest{Prompt: "tax office", BlogPostID: &post.ID})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/cover.png", img.URL)

	stored, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/cover.png", stored.CoverImageURL)

	missing := uint(999)
	_, err = svc.GenerateImage(ctx, ImageRequest{Prompt: "x", BlogPostID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, g.prompts, 1, "no image is generated for a missing post")
}
