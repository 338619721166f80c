// Package collector gathers posts about a monitored company. The only
// implementation generates realistic mock data; it stands where a real
// platform client would plug in.
package collector

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/net/html"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
	"github.com/cognicore/pulse/pkg/pulse/model"
)

// Collector fetches posts about a company from every configured source.
type Collector interface {
	Collect(ctx context.Context, company model.Company) (model.Collection, error)
}

// MockCollector is a Collector backed by the seeded generator.
type MockCollector struct {
	gen          *Generator
	maxPerSource int

	// Latency simulates the per-source round trip a real platform client
	// would pay. Zero means no delay.
	Latency time.Duration
}

// NewMock creates a mock collector. maxPerSource caps how many posts one
// source contributes per run.
func NewMock(seed int64, maxPerSource int) *MockCollector {
	if maxPerSource <= 0 {
		maxPerSource = 25
	}
	return &MockCollector{gen: NewGenerator(seed), maxPerSource: maxPerSource}
}

// Collect builds one collection run over the company's configured sources.
// It honors context cancellation between sources and fails with
// ErrNoPostsFound when nothing was collected.
func (c *MockCollector) Collect(ctx context.Context, company model.Company) (model.Collection, error) {
	sources := company.Settings.Sources
	if len(sources) == 0 {
		sources = model.AllSources()
	}

	started := time.Now().UTC()
	coll := model.Collection{Meta: model.CollectionMeta{
		CollectionID: ulid.MustNew(ulid.Timestamp(started), c.gen.entropy).String(),
		CompanyName:  company.Profile.Name,
		StartedAt:    started,
		RangeStart:   started.AddDate(0, 0, -company.Settings.DateRange.Days()),
		RangeEnd:     started,
		Sources:      sources,
	}}

	remaining := company.Settings.MaxPosts
	if remaining <= 0 {
		remaining = len(sources) * c.maxPerSource
	}

	for _, source := range sources {
		if err := c.wait(ctx); err != nil {
			coll.Meta.Errors = append(coll.Meta.Errors, "collection interrupted: "+err.Error())
			break
		}
		count := c.sourceQuota(source)
		if count > remaining {
			count = remaining
		}
		if count == 0 {
			continue
		}
		for _, post := range c.gen.GeneratePosts(company, source, count) {
			post.Content = stripHTML(post.Content)
			if post.Engagement.Total() < company.Settings.MinEngagement {
				continue
			}
			coll.Add(post)
		}
		remaining -= count
	}

	if len(coll.Posts) == 0 {
		return model.Collection{}, internalerr.ErrNoPostsFound
	}

	coll.Meta.CompletedAt = time.Now().UTC()
	coll.Meta.Languages = collectLanguages(coll.Posts)
	return coll, nil
}

// wait applies the simulated per-source latency, honoring cancellation.
func (c *MockCollector) wait(ctx context.Context) error {
	if c.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sourceQuota skews volume toward the company's own page, the way real
// feeds do.
func (c *MockCollector) sourceQuota(source model.ContentSource) int {
	switch source {
	case model.SourceCompanyPage:
		return c.maxPerSource
	case model.SourceEmployeePost:
		return c.maxPerSource * 3 / 4
	default:
		return c.maxPerSource / 2
	}
}

func collectLanguages(posts []model.Post) []string {
	seen := make(map[string]struct{})
	for _, p := range posts {
		seen[p.Language] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// stripHTML extracts the text content of markup-bearing posts.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
