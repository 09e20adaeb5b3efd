package photos

import (
	"fmt"
	"net/url"
	"strings"
)

const placeholderBase = "https://picsum.photos"

// Placeholders builds count deterministic placeholder results seeded by
// the query and result index. The same query always yields the same URLs.
func Placeholders(query string, count int) []ImageResult {
	seed := placeholderSeed(query)
	out := make([]ImageResult, count)
	for i := range out {
		indexed := fmt.Sprintf("%s-%d", seed, i+1)
		out[i] = ImageResult{
			URL:             fmt.Sprintf("%s/seed/%s/800/600", placeholderBase, indexed),
			ThumbnailURL:    fmt.Sprintf("%s/seed/%s/400/300", placeholderBase, indexed),
			Alt:             fmt.Sprintf("%s (placeholder %d)", query, i+1),
			Photographer:    "Placeholder",
			PhotographerURL: placeholderBase,
			SourceURL:       placeholderBase,
		}
	}
	return out
}

// placeholderSeed turns a query into a URL-safe seed segment.
func placeholderSeed(query string) string {
	seed := strings.ToLower(strings.TrimSpace(query))
	seed = strings.Join(strings.Fields(seed), "-")
	if seed == "" {
		seed = "plant"
	}
	return url.PathEscape(seed)
}
