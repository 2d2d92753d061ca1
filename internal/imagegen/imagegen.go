package imagegen

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Generator turns a recipe description into a hosted image URL.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

type Prompt struct {
	Name        string
	Description string
	Cuisine     string
}

// Text renders the prompt sent to the image model.
func (p Prompt) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "A professional food photograph of %s", p.Name)
	if c := strings.TrimSpace(p.Cuisine); c != "" {
		fmt.Fprintf(&b, ", a %s dish", c)
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&b, ". %s", d)
	}
	b.WriteString(". Plated on a table, natural light, no text.")
	return b.String()
}

// Cached remembers generated URLs per recipe name and cuisine so repeated
// requests for the same dish do not hit the image API again.
type Cached struct {
	next  Generator
	cache *lru.Cache[string, string]
}

func NewCached(next Generator, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Generate(ctx context.Context, p Prompt) (string, error) {
	key := cacheKey(p)
	if url, ok := c.cache.Get(key); ok {
		return url, nil
	}

	url, err := c.next.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, url)
	return url, nil
}

func cacheKey(p Prompt) string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.Cuisine))
}
