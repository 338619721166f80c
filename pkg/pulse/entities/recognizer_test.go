package entities

import (
	"reflect"
	"testing"
)

func newTestRecognizer() *Recognizer {
	return New(Options{DisableTagger: true})
}

func TestExtractEmptyInput(t *testing.T) {
	r := newTestRecognizer()
	if got := r.Extract("", MethodUnspecified, ""); len(got) != 0 {
		t.Fatalf("expected no entities for empty text, got %v", got)
	}
	if got := r.Extract("   ", MethodUnspecified, ""); len(got) != 0 {
		t.Fatalf("expected no entities for blank text, got %v", got)
	}
}

func TestExtractSpansAreValid(t *testing.T) {
	r := newTestRecognizer()
	text := "We welcomed Sarah Johnson to the team at Globex Corp, revenue hit $2.5M in Q3 2025."
	for _, method := range []Method{MethodRegex, MethodRule, MethodEnsemble} {
		for _, e := range r.Extract(text, method, "") {
			if e.Start < 0 || e.End > len(text) || e.Start >= e.End {
				t.Errorf("%v: invalid span [%d,%d) for %q", method, e.Start, e.End, e.Text)
				continue
			}
			if text[e.Start:e.End] != e.Text {
				t.Errorf("%v: span text %q does not match slice %q",
					method, e.Text, text[e.Start:e.End])
			}
			if e.Confidence <= 0 || e.Confidence > 1 {
				t.Errorf("%v: confidence %v out of range for %q", method, e.Confidence, e.Text)
			}
		}
	}
}

func TestExtractRuleBased(t *testing.T) {
	r := newTestRecognizer()
	text := "We welcomed Sarah Johnson to the team at Globex Corp."
	ents := r.Extract(text, MethodRule, "")

	byText := make(map[string]Entity, len(ents))
	for _, e := range ents {
		byText[e.Text] = e
	}
	if e, ok := byText["Sarah Johnson"]; !ok || e.Type != TypePerson {
		t.Errorf("expected Sarah Johnson as %s, got %v", TypePerson, ents)
	}
	if e, ok := byText["Globex Corp"]; !ok || e.Type != TypeOrganization {
		t.Errorf("expected Globex Corp as %s, got %v", TypeOrganization, ents)
	}
}

func TestExtractBusinessPatterns(t *testing.T) {
	r := newTestRecognizer()
	text := "Revenue reached $2.5M in Q3 2025, growing 18% year over year."
	ents := r.Extract(text, MethodRegex, "")

	byType := make(map[string]string, len(ents))
	for _, e := range ents {
		byType[e.Type] = e.Text
	}
	if byType[TypeMoney] != "$2.5M" {
		t.Errorf("expected money entity $2.5M, got %q", byType[TypeMoney])
	}
	if byType[TypePercent] != "18%" {
		t.Errorf("expected percent entity 18%%, got %q", byType[TypePercent])
	}
	if byType[TypeDate] != "Q3 2025" {
		t.Errorf("expected date entity Q3 2025, got %q", byType[TypeDate])
	}
}

func TestExtractCompanyContextSynthesis(t *testing.T) {
	r := newTestRecognizer()
	text := "Sarah Johnson from Acme Corp will speak at the conference next week."
	ents := r.Extract(text, MethodRegex, "Acme Corp")

	var found *Entity
	for i := range ents {
		if ents[i].Text == "Acme Corp" {
			found = &ents[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected a synthesized Acme Corp mention, got %v", ents)
	}
	if found.Type != TypeOrganization {
		t.Errorf("expected synthesized mention typed %s, got %s", TypeOrganization, found.Type)
	}
	if found.Confidence < 0.9 {
		t.Errorf("expected high confidence for the synthesized mention, got %v", found.Confidence)
	}
	if text[found.Start:found.End] != "Acme Corp" {
		t.Errorf("synthesized span [%d,%d) does not cover the mention", found.Start, found.End)
	}
}

func TestExtractTaggerPathSynthesizesOrganization(t *testing.T) {
	r := New(Options{})
	if !r.TaggerAvailable() {
		t.Skip("statistical tagger unavailable")
	}

	text := "Sarah Johnson from Acme Corp will speak at TechConf 2024."
	ents := r.Extract(text, MethodUnspecified, "Acme Corp")

	known := map[string]struct{}{
		TypeOrganization: {}, TypePerson: {}, TypeLocation: {},
		TypeMoney: {}, TypePercent: {}, TypeDate: {}, TypeMisc: {},
	}
	var org *Entity
	for i := range ents {
		if _, ok := known[ents[i].Type]; !ok {
			t.Errorf("entity %q has type %q outside the package's type set", ents[i].Text, ents[i].Type)
		}
		if ents[i].Type == TypeOrganization && ents[i].Text == "Acme Corp" {
			org = &ents[i]
		}
	}
	if org == nil {
		t.Fatalf("expected an organization mention of Acme Corp, got %v", ents)
	}
	if org.Confidence < 0.9 {
		t.Errorf("expected confidence >= 0.9 for the recovered mention, got %v", org.Confidence)
	}
}

func TestSynthesisIgnoresNonOrganizationMatches(t *testing.T) {
	text := "Acme Corp announced results."
	ents := []Entity{{Text: "Acme Corp", Type: TypePerson, Start: 0, End: 9, Confidence: 0.8}}
	out := newTestRecognizer().synthesizeContext(text, "Acme Corp", ents)
	if len(out) != 2 {
		t.Fatalf("expected a synthesized organization alongside the person, got %v", out)
	}
	last := out[len(out)-1]
	if last.Type != TypeOrganization || last.Confidence != contextConfidence {
		t.Errorf("synthesized entity = %+v", last)
	}

	ents = []Entity{{Text: "Acme Corp", Type: TypeOrganization, Start: 0, End: 9, Confidence: 0.8}}
	out = newTestRecognizer().synthesizeContext(text, "Acme Corp", ents)
	if len(out) != 1 {
		t.Fatalf("expected no synthesis when an organization already covers the context, got %v", out)
	}
}

func TestMapProseLabel(t *testing.T) {
	cases := map[string]string{
		"PERSON":       TypePerson,
		"GPE":          TypeLocation,
		"ORGANIZATION": TypeOrganization,
		"ORG":          TypeOrganization,
		"DATE":         TypeDate,
		"FAC":          TypeMisc,
		"NORP":         TypeMisc,
	}
	for label, want := range cases {
		if got := mapProseLabel(label); got != want {
			t.Errorf("mapProseLabel(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestExtractContextAlreadyCaptured(t *testing.T) {
	r := newTestRecognizer()
	text := "We welcomed Sarah Johnson to the team at Globex Corp."
	ents := r.Extract(text, MethodRule, "Globex Corp")

	var count int
	for _, e := range ents {
		if e.Text == "Globex Corp" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one Globex Corp mention, got %d in %v", count, ents)
	}
}

func TestDedupe(t *testing.T) {
	ents := []Entity{
		{Text: "Acme", Type: TypeOrganization, Start: 0, End: 4, Confidence: 0.6},
		{Text: "Acme Corp", Type: TypeOrganization, Start: 0, End: 9, Confidence: 0.8},
		{Text: "Q3 2025", Type: TypeDate, Start: 20, End: 27, Confidence: 0.8},
	}
	out := dedupe(ents)
	if len(out) != 2 {
		t.Fatalf("expected 2 entities after dedupe, got %v", out)
	}
	if out[0].Text != "Acme Corp" {
		t.Errorf("expected the higher-confidence overlap to win, got %q", out[0].Text)
	}
	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].End {
			t.Errorf("deduped entities overlap: %v and %v", out[i-1], out[i])
		}
	}
}

func TestDedupeKeepsLowerConfidenceFirst(t *testing.T) {
	ents := []Entity{
		{Text: "Acme Corp", Start: 0, End: 9, Confidence: 0.8},
		{Text: "Corp", Start: 5, End: 9, Confidence: 0.8},
	}
	out := dedupe(ents)
	if len(out) != 1 || out[0].Text != "Acme Corp" {
		t.Errorf("equal confidence should not displace the accepted span, got %v", out)
	}
}

func TestAdjustConfidence(t *testing.T) {
	r := newTestRecognizer()

	long := Entity{Text: "Sarah Johnson from Acme Corp", Confidence: 0.6}
	if got := r.adjustConfidence(long); got >= 0.6 {
		t.Errorf("expected long span penalty, got %v", got)
	}

	known := Entity{Text: "Google", Confidence: 0.6}
	if got := r.adjustConfidence(known); got != 0.8 {
		t.Errorf("expected known-company boost to 0.8, got %v", got)
	}

	capped := Entity{Text: "Microsoft", Confidence: 0.9}
	if got := r.adjustConfidence(capped); got != 0.95 {
		t.Errorf("expected boost capped at 0.95, got %v", got)
	}
}

func TestExtraCompanies(t *testing.T) {
	r := New(Options{DisableTagger: true, ExtraCompanies: []string{"Initech"}})
	e := Entity{Text: "Initech", Confidence: 0.6}
	if got := r.adjustConfidence(e); got != 0.8 {
		t.Errorf("expected extra company boost, got %v", got)
	}
}

func TestExtractBatch(t *testing.T) {
	r := newTestRecognizer()
	texts := []string{
		"We welcomed Sarah Johnson to the team at Globex Corp.",
		"",
		"Revenue grew 18% this quarter.",
	}
	out := r.ExtractBatch(texts, MethodRule, "")
	if len(out) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(out))
	}
	if len(out[1]) != 0 {
		t.Errorf("expected no entities for empty text, got %v", out[1])
	}
}

func TestExtractDeterministic(t *testing.T) {
	r := newTestRecognizer()
	text := "Sarah Johnson from Acme Corp announced $3B in funding, up 12% in Q1 2026."
	first := r.Extract(text, MethodEnsemble, "Acme Corp")
	second := r.Extract(text, MethodEnsemble, "Acme Corp")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differed:\n%v\n%v", first, second)
	}
}

func TestAvailableMethodsDegraded(t *testing.T) {
	r := newTestRecognizer()
	got := r.AvailableMethods()
	if len(got) != 2 || got[0] != MethodRegex || got[1] != MethodRule {
		t.Errorf("expected regex and rule methods, got %v", got)
	}
	if r.TaggerAvailable() {
		t.Error("tagger should be disabled")
	}
}

func TestMethodString(t *testing.T) {
	cases := map[Method]string{
		MethodRegex:       "regex",
		MethodRule:        "rule_based",
		MethodTagger:      "statistical",
		MethodEnsemble:    "ensemble",
		MethodUnspecified: "unspecified",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", m, got, want)
		}
	}
}
