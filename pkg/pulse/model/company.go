package model

import (
	"strings"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
)

// CompanySize classifies a company by headcount bracket.
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// DateRange is the analysis lookback window.
type DateRange string

const (
	RangeSevenDays  DateRange = "7d"
	RangeThirtyDays DateRange = "30d"
	RangeNinetyDays DateRange = "90d"
)

// Days returns the window length in days, defaulting to 30.
func (r DateRange) Days() int {
	switch r {
	case RangeSevenDays:
		return 7
	case RangeNinetyDays:
		return 90
	default:
		return 30
	}
}

// CompanyProfile identifies the organization being monitored.
type CompanyProfile struct {
	Name        string      `json:"name" yaml:"name"`
	LinkedInURL string      `json:"linkedin_url,omitempty" yaml:"linkedin_url"`
	Aliases     []string    `json:"aliases,omitempty" yaml:"aliases"`
	EmailDomain string      `json:"email_domain" yaml:"email_domain"`
	Hashtags    []string    `json:"hashtags,omitempty" yaml:"hashtags"`
	Keywords    []string    `json:"keywords,omitempty" yaml:"keywords"`
	Industry    string      `json:"industry,omitempty" yaml:"industry"`
	Size        CompanySize `json:"size" yaml:"size"`
}

// AnalysisSettings bound what a company analysis run will look at.
type AnalysisSettings struct {
	DateRange       DateRange       `json:"date_range" yaml:"date_range"`
	Languages       []string        `json:"languages" yaml:"languages"`
	Sources         []ContentSource `json:"sources" yaml:"sources"`
	MaxPosts        int             `json:"max_posts" yaml:"max_posts"`
	MinEngagement   int             `json:"min_engagement" yaml:"min_engagement"`
	IncludeEmployee bool            `json:"include_employee_posts" yaml:"include_employee_posts"`
}

// DefaultAnalysisSettings returns the settings applied when a company is
// registered without explicit overrides.
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		DateRange: RangeThirtyDays,
		Languages: []string{"en"},
		Sources:   AllSources(),
		MaxPosts:  100,
	}
}

// Company is a complete monitored-company configuration.
type Company struct {
	Profile   CompanyProfile   `json:"profile" yaml:"profile"`
	Settings  AnalysisSettings `json:"settings" yaml:"settings"`
	CreatedAt time.Time        `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time        `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks required fields and normalizes the email domain.
func (c *Company) Validate() error {
	c.Profile.Name = strings.TrimSpace(c.Profile.Name)
	if c.Profile.Name == "" || len(c.Profile.Name) > 200 {
		return internalerr.ErrInvalidInput
	}
	domain := strings.ToLower(strings.TrimSpace(c.Profile.EmailDomain))
	domain = strings.TrimPrefix(domain, "@")
	if domain == "" || !strings.Contains(domain, ".") {
		return internalerr.ErrInvalidConfig
	}
	c.Profile.EmailDomain = domain
	if c.Profile.LinkedInURL != "" &&
		!strings.HasPrefix(c.Profile.LinkedInURL, "https://www.linkedin.com/company/") {
		return internalerr.ErrInvalidConfig
	}
	c.Profile.Hashtags = NormalizeHashtags(c.Profile.Hashtags)
	if c.Settings.DateRange == "" {
		c.Settings = DefaultAnalysisSettings()
	}
	return nil
}

// SearchTerms returns the name, aliases, and keywords used to find mentions.
func (c *Company) SearchTerms() []string {
	terms := make([]string, 0, 1+len(c.Profile.Aliases)+len(c.Profile.Keywords))
	terms = append(terms, c.Profile.Name)
	terms = append(terms, c.Profile.Aliases...)
	terms = append(terms, c.Profile.Keywords...)
	return terms
}
