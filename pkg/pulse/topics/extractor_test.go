package topics

import (
	"reflect"
	"strings"
	"testing"
)

var businessTexts = []string{
	"Our engineering team shipped a major product update this quarter",
	"Proud of the engineering culture we are building across the company",
	"The product roadmap for next quarter focuses on customer feedback",
	"Customer feedback drives every product decision our team makes",
	"Hiring engineers who care about product quality and customer impact",
	"Quarterly results show strong customer growth and product adoption",
	"Engineering leadership shared the product vision with the whole team",
	"Great discussion about customer success and engineering tradeoffs",
}

func TestExtractTopicsEmptyInput(t *testing.T) {
	e := New(Options{})
	if got := e.ExtractTopics(nil, MethodUnspecified); len(got) != 0 {
		t.Fatalf("expected no topics for empty input, got %d", len(got))
	}
	if got := e.ExtractTopics([]string{"", "   "}, MethodUnspecified); len(got) != 0 {
		t.Fatalf("expected no topics for blank texts, got %d", len(got))
	}
}

func TestExtractTopicsBusinessCorpus(t *testing.T) {
	e := New(Options{NTopics: 3})
	topics := e.ExtractTopics(businessTexts, MethodUnspecified)
	if len(topics) == 0 {
		t.Fatal("expected topics from the business corpus")
	}
	if len(topics) > 3 {
		t.Fatalf("expected at most 3 topics, got %d", len(topics))
	}
	for i, topic := range topics {
		if topic.Name == "" {
			t.Errorf("topic %d has empty name", i)
		}
		if len(topic.Keywords) == 0 {
			t.Errorf("topic %d has no keywords", i)
		}
		if topic.Relevance < 0 || topic.Relevance > 1 {
			t.Errorf("topic %d relevance %v out of range", i, topic.Relevance)
		}
		if topic.Confidence < 0 || topic.Confidence > 1 {
			t.Errorf("topic %d confidence %v out of range", i, topic.Confidence)
		}
		if i > 0 && topics[i-1].Relevance < topic.Relevance {
			t.Errorf("topics not sorted by relevance: %v before %v",
				topics[i-1].Relevance, topic.Relevance)
		}
	}
}

func TestExtractTopicsRecurringTheme(t *testing.T) {
	e := New(Options{})
	topics := e.ExtractTopics(businessTexts, MethodUnspecified)

	var all []string
	for _, topic := range topics {
		all = append(all, topic.Keywords...)
	}
	joined := strings.Join(all, " ")
	if !strings.Contains(joined, "product") && !strings.Contains(joined, "customer") &&
		!strings.Contains(joined, "engineering") {
		t.Errorf("expected a recurring corpus theme in keywords, got %v", all)
	}
}

func TestExtractTopicsFrequencyFallback(t *testing.T) {
	e := New(Options{DisableVectorizer: true})
	topics := e.ExtractTopics(businessTexts, MethodUnspecified)
	if len(topics) == 0 {
		t.Fatal("expected topics from the frequency fallback")
	}
	for _, topic := range topics {
		if topic.Method != MethodFrequency {
			t.Errorf("expected frequency method, got %v", topic.Method)
		}
		if topic.Confidence > topic.Relevance {
			t.Errorf("fallback confidence %v exceeds relevance %v",
				topic.Confidence, topic.Relevance)
		}
	}
}

func TestExtractTopicsSingleTextFallsBack(t *testing.T) {
	e := New(Options{})
	topics := e.ExtractTopics([]string{businessTexts[0]}, MethodTFIDF)
	if len(topics) == 0 {
		t.Fatal("expected fallback topics for a single text")
	}
	for _, topic := range topics {
		if topic.Method != MethodFrequency {
			t.Errorf("single text should use the frequency fallback, got %v", topic.Method)
		}
	}
}

func TestExtractTopicsDeterministic(t *testing.T) {
	e := New(Options{})
	first := e.ExtractTopics(businessTexts, MethodUnspecified)
	second := e.ExtractTopics(businessTexts, MethodUnspecified)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differed:\n%v\n%v", first, second)
	}
}

func TestTopicName(t *testing.T) {
	cases := []struct {
		keywords []string
		want     string
	}{
		{nil, "General Topic"},
		{[]string{"growth"}, "Growth Discussion"},
		{[]string{"growth", "hiring"}, "Growth & Hiring"},
		{[]string{"growth", "hiring", "culture"}, "Growth, Hiring & Culture"},
		{[]string{"growth", "hiring", "culture", "extra"}, "Growth, Hiring & Culture"},
	}
	for _, c := range cases {
		if got := topicName(c.keywords); got != c.want {
			t.Errorf("topicName(%v) = %q, want %q", c.keywords, got, c.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	e := New(Options{})
	keywords := e.ExtractKeywords(businessTexts, 5)
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if len(keywords) > 5 {
		t.Fatalf("expected at most 5 keywords, got %d", len(keywords))
	}
	for _, kw := range keywords {
		if _, stop := e.stopwords[kw]; stop {
			t.Errorf("stopword %q leaked into keywords", kw)
		}
		if len(kw) <= 2 {
			t.Errorf("short token %q leaked into keywords", kw)
		}
	}
}

func TestPreprocess(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Check https://example.com for DETAILS!", "check for details"},
		{"mail me at dev@example.com today", "mail me at today"},
		{"   ", ""},
		{"Numbers 123 gone", "numbers gone"},
	}
	for _, c := range cases {
		if got := preprocess(c.in); got != c.want {
			t.Errorf("preprocess(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGroupKeywords(t *testing.T) {
	groups := groupKeywords([]string{"engineer", "engineering", "product", "customer"})
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %v", groups)
	}
	if !reflect.DeepEqual(groups[0], []string{"engineer", "engineering"}) {
		t.Errorf("expected engineer variants grouped, got %v", groups[0])
	}
}

func TestAvailableMethods(t *testing.T) {
	full := New(Options{})
	if got := full.AvailableMethods(); len(got) != 2 {
		t.Errorf("expected 2 methods, got %v", got)
	}
	degraded := New(Options{DisableVectorizer: true})
	if got := degraded.AvailableMethods(); len(got) != 1 || got[0] != MethodFrequency {
		t.Errorf("expected only the frequency method, got %v", got)
	}
}

func TestMethodString(t *testing.T) {
	cases := map[Method]string{
		MethodFrequency:   "keyword_frequency",
		MethodTFIDF:       "tfidf_clustering",
		MethodUnspecified: "unspecified",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", m, got, want)
		}
	}
}
