package collector

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pulse/pkg/pulse/model"
)

// Generator produces realistic mock posts about a company. A fixed seed
// yields the same posts in the same order, which keeps collection runs
// reproducible.
type Generator struct {
	rng     *rand.Rand
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator creates a seeded generator.
func NewGenerator(seed int64) *Generator {
	src := rand.New(rand.NewSource(seed))
	return &Generator{
		rng:     src,
		entropy: ulid.Monotonic(src, 0),
		now:     time.Now,
	}
}

// industry buckets drive which content templates are used.
func detectIndustry(companyName string) string {
	name := strings.ToLower(companyName)
	switch {
	case containsAny(name, "tech", "soft", "data", "cloud", "digital", "labs"):
		return "technology"
	case containsAny(name, "bank", "financ", "capital", "invest", "pay"):
		return "finance"
	case containsAny(name, "health", "med", "pharma", "care", "bio"):
		return "healthcare"
	case containsAny(name, "shop", "retail", "store", "market"):
		return "retail"
	default:
		return "general"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Templates take the company name as their single argument. HTML markup in
// article templates mirrors what real feeds deliver; the collector strips it.
var contentTemplates = map[string][]string{
	"technology": {
		"Excited to share that %s just launched a new platform release, the team worked hard on this one",
		"Great engineering culture at %s, the code reviews alone are worth joining for",
		"%s is hiring backend engineers, reach out if you want to build distributed systems",
		"<p>Deep dive: how %s scaled its data pipeline to handle millions of events per day</p>",
		"Honestly disappointed with the latest %s update, too many regressions this release",
	},
	"finance": {
		"%s reported strong quarterly results, revenue grew 12%% year over year",
		"Proud to announce %s closed a $50M funding round led by our long-term partners",
		"<p>Market analysis from the %s research desk: rates, risk, and what comes next</p>",
		"The compliance team at %s keeps raising the bar for the whole industry",
		"Concerned about the recent fee changes at %s, communication could have been better",
	},
	"healthcare": {
		"%s published new clinical outcomes data and the results look promising",
		"Grateful for the care teams at %s working around the clock this season",
		"<p>How %s is using remote monitoring to improve patient follow-up</p>",
		"%s is expanding its research partnerships with three university hospitals",
		"Waiting times at %s facilities have grown noticeably, hope this gets addressed",
	},
	"retail": {
		"The new %s store experience is excellent, checkout took under a minute",
		"%s announced same-day delivery in twelve more cities this quarter",
		"<p>Behind the scenes: the %s supply chain team on peak-season readiness</p>",
		"Customer service at %s resolved my issue in one call, impressive",
		"Stock issues at %s again this week, third time this month",
	},
	"general": {
		"Great to see %s investing in employee development programs this year",
		"%s shared its sustainability report and the progress is real",
		"<p>Interview with the %s leadership team about the road ahead</p>",
		"Congratulations to %s on the industry award, well deserved",
		"Mixed feelings about the reorganization at %s, change is hard",
	},
}

// French and Dutch templates for the multilingual share of a feed.
var foreignTemplates = []struct {
	lang string
	text string
}{
	{"fr", "Nous sommes fiers de notre collaboration avec %s, une equipe formidable pour nos projets"},
	{"fr", "Les resultats de %s sont excellents cette annee, bravo pour le travail et la vision"},
	{"nl", "Wij zijn trots op de samenwerking met %s, het team levert uitstekend werk voor onze klanten"},
	{"nl", "De resultaten van %s zijn dit jaar sterk, een mooie prestatie van het hele team"},
}

// foreignShare is how often a non-English post appears, roughly one in eight.
const foreignShare = 8

var authorNames = []string{
	"Alex Morgan", "Jamie Chen", "Sam Patel", "Riley Novak",
	"Casey Dubois", "Jordan Smit", "Taylor Brooks", "Morgan Reyes",
}

var authorPositions = []string{
	"Software Engineer", "Product Manager", "Sales Director",
	"Marketing Lead", "Data Analyst", "Operations Manager",
}

var postTypes = []model.PostType{
	model.PostTypePost, model.PostTypePost, model.PostTypePost,
	model.PostTypeArticle, model.PostTypeImage, model.PostTypeVideo,
}

// GeneratePosts produces count posts from one source, published within the
// company's configured lookback window.
func (g *Generator) GeneratePosts(company model.Company, source model.ContentSource, count int) []model.Post {
	industry := company.Profile.Industry
	if industry == "" {
		industry = detectIndustry(company.Profile.Name)
	}
	templates, ok := contentTemplates[industry]
	if !ok {
		templates = contentTemplates["general"]
	}

	windowDays := company.Settings.DateRange.Days()
	now := g.now().UTC()

	posts := make([]model.Post, 0, count)
	for i := 0; i < count; i++ {
		lang := "en"
		var content string
		if g.rng.Intn(foreignShare) == 0 {
			ft := foreignTemplates[g.rng.Intn(len(foreignTemplates))]
			lang = ft.lang
			content = fmt.Sprintf(ft.text, company.Profile.Name)
		} else {
			content = fmt.Sprintf(templates[g.rng.Intn(len(templates))], company.Profile.Name)
		}

		postType := postTypes[g.rng.Intn(len(postTypes))]
		published := now.Add(-time.Duration(1+g.rng.Intn(windowDays*24-1)) * time.Hour)

		posts = append(posts, model.Post{
			PostID:           ulid.MustNew(ulid.Timestamp(published), g.entropy).String(),
			Author:           g.author(company, source, published),
			Content:          content,
			Type:             postType,
			Language:         lang,
			PublishedAt:      published,
			Engagement:       g.engagement(postType),
			Hashtags:         company.Profile.Hashtags,
			Source:           source,
			CompanyMentioned: source != model.SourceCompanyPage,
			CollectedAt:      now,
		})
	}
	return posts
}

func (g *Generator) author(company model.Company, source model.ContentSource, at time.Time) model.Profile {
	name := authorNames[g.rng.Intn(len(authorNames))]
	employee := source == model.SourceCompanyPage || source == model.SourceEmployeePost
	profile := model.Profile{
		ProfileID:     ulid.MustNew(ulid.Timestamp(at), g.entropy).String(),
		Name:          name,
		Position:      authorPositions[g.rng.Intn(len(authorPositions))],
		FollowerCount: 100 + g.rng.Intn(9900),
		IsEmployee:    employee,
	}
	if employee {
		profile.Company = company.Profile.Name
	}
	return profile
}

// engagement scales with content format: video and article posts reach
// further than plain posts.
func (g *Generator) engagement(t model.PostType) model.Engagement {
	base := 1
	switch t {
	case model.PostTypeVideo:
		base = 4
	case model.PostTypeArticle:
		base = 3
	case model.PostTypeImage:
		base = 2
	}
	likes := base * (5 + g.rng.Intn(95))
	return model.Engagement{
		Likes:    likes,
		Comments: g.rng.Intn(likes/2 + 1),
		Shares:   g.rng.Intn(likes/4 + 1),
		Views:    likes * (10 + g.rng.Intn(20)),
	}
}
