package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
)

// PostType classifies the content format of a post.
type PostType string

const (
	PostTypeArticle  PostType = "article"
	PostTypePost     PostType = "post"
	PostTypeVideo    PostType = "video"
	PostTypeImage    PostType = "image"
	PostTypePoll     PostType = "poll"
	PostTypeDocument PostType = "document"
)

// ContentSource records how a post was collected.
type ContentSource string

const (
	SourceCompanyPage    ContentSource = "company_page"
	SourceEmployeePost   ContentSource = "employee_post"
	SourceCompanyMention ContentSource = "company_mention"
	SourceHashtagSearch  ContentSource = "hashtag_search"
)

// AllSources lists every content source in collection order.
func AllSources() []ContentSource {
	return []ContentSource{
		SourceCompanyPage,
		SourceEmployeePost,
		SourceCompanyMention,
		SourceHashtagSearch,
	}
}

// Profile holds the author information attached to a collected post.
type Profile struct {
	ProfileID       string `json:"profile_id"`
	Name            string `json:"name"`
	Headline        string `json:"headline,omitempty"`
	Company         string `json:"company,omitempty"`
	Position        string `json:"position,omitempty"`
	Location        string `json:"location,omitempty"`
	ProfileURL      string `json:"profile_url,omitempty"`
	FollowerCount   int    `json:"follower_count,omitempty"`
	ConnectionCount int    `json:"connection_count,omitempty"`
	IsEmployee      bool   `json:"is_company_employee"`
	Verified        bool   `json:"verified"`
}

// Validate checks the minimal profile invariants.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return internalerr.ErrInvalidInput
	}
	if p.FollowerCount < 0 || p.ConnectionCount < 0 {
		return internalerr.ErrInvalidInput
	}
	return nil
}

// Engagement holds reaction counts for a post.
type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views,omitempty"`
}

// Total returns the combined engagement count.
func (e Engagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// Rate returns engagement relative to views, or 0 when views are unknown.
func (e Engagement) Rate() float64 {
	if e.Views <= 0 {
		return 0
	}
	return float64(e.Total()) / float64(e.Views)
}

var hashtagClean = regexp.MustCompile(`[^#\w]`)

// Post is a single collected social post about a target organization.
type Post struct {
	PostID           string        `json:"post_id"`
	Author           Profile       `json:"author"`
	Content          string        `json:"content"`
	Type             PostType      `json:"post_type"`
	Language         string        `json:"language"`
	PublishedAt      time.Time     `json:"published_at"`
	Engagement       Engagement    `json:"engagement"`
	Hashtags         []string      `json:"hashtags,omitempty"`
	Mentions         []string      `json:"mentions,omitempty"`
	PostURL          string        `json:"post_url,omitempty"`
	Source           ContentSource `json:"source"`
	CompanyMentioned bool          `json:"company_mentioned"`
	CollectedAt      time.Time     `json:"collected_at"`
}

// Validate checks post invariants and normalizes hashtags and language.
func (p *Post) Validate() error {
	if p.PostID == "" || strings.TrimSpace(p.Content) == "" {
		return internalerr.ErrInvalidInput
	}
	if err := p.Author.Validate(); err != nil {
		return err
	}
	if len(p.Language) != 2 {
		p.Language = "en"
	}
	p.Language = strings.ToLower(p.Language)
	p.Content = strings.TrimSpace(p.Content)
	p.Hashtags = NormalizeHashtags(p.Hashtags)
	return nil
}

// NormalizeHashtags lowercases and deduplicates tags, forces a leading '#', and drops
// anything that is empty after stripping invalid characters.
func NormalizeHashtags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tag = strings.ToLower(hashtagClean.ReplaceAllString(tag, ""))
		if len(tag) <= 1 {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
