package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) Generate(_ context.Context, p Prompt) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return "https://img.example.com/" + p.Name + ".png", nil
}

func TestCached_HitsCacheForSameDish(t *testing.T) {
	next := &countingGenerator{}
	cached, err := NewCached(next, 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cached.Generate(ctx, Prompt{Name: "Soup", Cuisine: "Thai"})
	require.NoError(t, err)
	second, err := cached.Generate(ctx, Prompt{Name: " soup ", Cuisine: "THAI", Description: "different"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = cached.Generate(ctx, Prompt{Name: "Soup", Cuisine: "French"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCached_Evicts(t *testing.T) {
	next := &countingGenerator{}
	cached, err := NewCached(next, 1)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = cached.Generate(ctx, Prompt{Name: "Soup"})
	_, _ = cached.Generate(ctx, Prompt{Name: "Salad"})
	_, _ = cached.Generate(ctx, Prompt{Name: "Soup"})

	assert.Equal(t, 3, next.calls)
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	next := &countingGenerator{err: errors.New("boom")}
	cached, err := NewCached(next, 8)
	require.NoError(t, err)

	_, err = cached.Generate(context.Background(), Prompt{Name: "Soup"})
	assert.Error(t, err)

	next.err = nil
	url, err := cached.Generate(context.Background(), Prompt{Name: "Soup"})
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, 2, next.calls)
}

func TestNewCached_InvalidSize(t *testing.T) {
	_, err := NewCached(&countingGenerator{}, 0)
	assert.Error(t, err)
}

func TestPromptText(t *testing.T) {
	text := Prompt{Name: "Pad Thai", Cuisine: "Thai", Description: "Stir-fried noodles"}.Text()
	assert.Contains(t, text, "Pad Thai")
	assert.Contains(t, text, "a Thai dish")
	assert.Contains(t, text, "Stir-fried noodles")
}
