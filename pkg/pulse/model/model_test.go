package model

import (
	"errors"
	"testing"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
)

func validPost() Post {
	return Post{
		PostID:      "p1",
		Content:     "hello world",
		Type:        PostTypePost,
		Language:    "en",
		Author:      Profile{ProfileID: "a1", Name: "Pat Doe"},
		Source:      SourceCompanyPage,
		PublishedAt: time.Now(),
	}
}

func TestPostValidate(t *testing.T) {
	p := validPost()
	if err := p.Validate(); err != nil {
		t.Fatalf("valid post rejected: %v", err)
	}

	p = validPost()
	p.Content = "  "
	if err := p.Validate(); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("blank content = %v, want ErrInvalidInput", err)
	}

	p = validPost()
	p.Author.Name = ""
	if err := p.Validate(); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("anonymous author = %v, want ErrInvalidInput", err)
	}

	p = validPost()
	p.Language = "english"
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.Language != "en" {
		t.Errorf("language normalized to %q, want en", p.Language)
	}
}

func TestNormalizeHashtags(t *testing.T) {
	got := NormalizeHashtags([]string{"#GoLang", "culture", " #Hiring! ", "", "#"})
	want := []string{"#golang", "#culture", "#hiring"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hashtag %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEngagement(t *testing.T) {
	e := Engagement{Likes: 10, Comments: 4, Shares: 6, Views: 100}
	if e.Total() != 20 {
		t.Errorf("Total = %d, want 20", e.Total())
	}
	if e.Rate() != 0.2 {
		t.Errorf("Rate = %v, want 0.2", e.Rate())
	}
	if (Engagement{Likes: 5}).Rate() != 0 {
		t.Error("Rate without views should be 0")
	}
}

func TestCollectionAdd(t *testing.T) {
	var c Collection
	p := validPost()
	c.Add(p)
	p.PostID = "p2"
	p.Source = SourceEmployeePost
	c.Add(p)

	if c.Meta.TotalPosts != 2 {
		t.Errorf("TotalPosts = %d, want 2", c.Meta.TotalPosts)
	}
	if c.Meta.PostsBySource[string(SourceCompanyPage)] != 1 {
		t.Errorf("source counts wrong: %v", c.Meta.PostsBySource)
	}
	if got := c.PostsBySource(SourceEmployeePost); len(got) != 1 || got[0].PostID != "p2" {
		t.Errorf("PostsBySource = %v", got)
	}
}

func TestEngagementStats(t *testing.T) {
	var c Collection
	for i, likes := range []int{10, 20} {
		p := validPost()
		p.PostID = string(rune('a' + i))
		p.Engagement = Engagement{Likes: likes, Comments: 5, Shares: 5}
		c.Add(p)
	}
	stats := c.EngagementStats()
	if stats.TotalLikes != 30 || stats.AvgEngagement != 25 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCompanyValidate(t *testing.T) {
	c := Company{Profile: CompanyProfile{Name: "Initech", EmailDomain: "@Initech.COM"}}
	if err := c.Validate(); err != nil {
		t.Fatalf("valid company rejected: %v", err)
	}
	if c.Profile.EmailDomain != "initech.com" {
		t.Errorf("domain normalized to %q", c.Profile.EmailDomain)
	}
	if c.Settings.DateRange != RangeThirtyDays {
		t.Errorf("default settings not applied: %+v", c.Settings)
	}

	c = Company{Profile: CompanyProfile{Name: "", EmailDomain: "x.com"}}
	if err := c.Validate(); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty name = %v, want ErrInvalidInput", err)
	}

	c = Company{Profile: CompanyProfile{Name: "Initech", EmailDomain: "not-a-domain"}}
	if err := c.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("bad domain = %v, want ErrInvalidConfig", err)
	}

	c = Company{Profile: CompanyProfile{
		Name:        "Initech",
		EmailDomain: "initech.com",
		LinkedInURL: "https://example.com/initech",
	}}
	if err := c.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("bad URL = %v, want ErrInvalidConfig", err)
	}
}

func TestDateRangeDays(t *testing.T) {
	cases := map[DateRange]int{
		RangeSevenDays:  7,
		RangeThirtyDays: 30,
		RangeNinetyDays: 90,
		DateRange(""):   30,
	}
	for r, want := range cases {
		if got := r.Days(); got != want {
			t.Errorf("%q.Days() = %d, want %d", r, got, want)
		}
	}
}

func TestCompanySearchTerms(t *testing.T) {
	c := Company{Profile: CompanyProfile{
		Name:     "Initech",
		Aliases:  []string{"Initech Inc"},
		Keywords: []string{"initech careers"},
	}}
	terms := c.SearchTerms()
	if len(terms) != 3 || terms[0] != "Initech" {
		t.Errorf("terms = %v", terms)
	}
}
