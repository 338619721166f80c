package model

import "time"

// CollectionMeta describes one data-collection run.
type CollectionMeta struct {
	CollectionID  string          `json:"collection_id"`
	CompanyName   string          `json:"company_name"`
	StartedAt     time.Time       `json:"collection_started_at"`
	CompletedAt   time.Time       `json:"collection_completed_at,omitempty"`
	RangeStart    time.Time       `json:"date_range_start"`
	RangeEnd      time.Time       `json:"date_range_end"`
	Sources       []ContentSource `json:"sources_collected,omitempty"`
	Languages     []string        `json:"languages,omitempty"`
	TotalPosts    int             `json:"total_posts"`
	PostsBySource map[string]int  `json:"posts_by_source,omitempty"`
	Errors        []string        `json:"errors,omitempty"`
}

// Collection bundles collected posts with their run metadata.
type Collection struct {
	Meta  CollectionMeta `json:"metadata"`
	Posts []Post         `json:"posts"`
}

// Add appends a post and keeps the per-source counters in sync.
func (c *Collection) Add(p Post) {
	c.Posts = append(c.Posts, p)
	c.Meta.TotalPosts = len(c.Posts)
	if c.Meta.PostsBySource == nil {
		c.Meta.PostsBySource = make(map[string]int)
	}
	c.Meta.PostsBySource[string(p.Source)]++
}

// PostsBySource returns the subset of posts collected from the given source.
func (c *Collection) PostsBySource(source ContentSource) []Post {
	var out []Post
	for _, p := range c.Posts {
		if p.Source == source {
			out = append(out, p)
		}
	}
	return out
}

// PostsByLanguage returns the subset of posts in the given language.
func (c *Collection) PostsByLanguage(lang string) []Post {
	var out []Post
	for _, p := range c.Posts {
		if p.Language == lang {
			out = append(out, p)
		}
	}
	return out
}

// EngagementStats summarizes engagement over the whole collection.
type EngagementStats struct {
	TotalPosts    int     `json:"total_posts"`
	TotalLikes    int     `json:"total_likes"`
	TotalComments int     `json:"total_comments"`
	TotalShares   int     `json:"total_shares"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// EngagementStats computes aggregate engagement for the collection.
func (c *Collection) EngagementStats() EngagementStats {
	stats := EngagementStats{TotalPosts: len(c.Posts)}
	if len(c.Posts) == 0 {
		return stats
	}
	for _, p := range c.Posts {
		stats.TotalLikes += p.Engagement.Likes
		stats.TotalComments += p.Engagement.Comments
		stats.TotalShares += p.Engagement.Shares
	}
	total := stats.TotalLikes + stats.TotalComments + stats.TotalShares
	stats.AvgEngagement = float64(total) / float64(len(c.Posts))
	return stats
}
