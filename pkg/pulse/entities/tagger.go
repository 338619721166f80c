package entities

import (
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

const taggerConfidence = 0.8

// proseTagger wraps the statistical model behind a span-recovering layer.
// The model reports entity text and label only, so spans are found by a
// forward scan through the source text.
type proseTagger struct{}

func newProseTagger() (*proseTagger, error) {
	// Probe once so a broken model shows up at construction time instead
	// of on the first analyzed post.
	if _, err := prose.NewDocument("probe", prose.WithSegmentation(false)); err != nil {
		return nil, fmt.Errorf("tagger probe: %w", err)
	}
	return &proseTagger{}, nil
}

func (p *proseTagger) extract(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tagger: %w", err)
	}

	var out []Entity
	cursor := 0
	for _, ent := range doc.Entities() {
		idx := strings.Index(text[cursor:], ent.Text)
		if idx < 0 {
			// Repeated mention earlier in the text, restart the scan.
			idx = strings.Index(text, ent.Text)
			if idx < 0 {
				continue
			}
			cursor = 0
		}
		start := cursor + idx
		end := start + len(ent.Text)
		cursor = end

		out = append(out, Entity{
			Text:       ent.Text,
			Type:       mapProseLabel(ent.Label),
			Start:      start,
			End:        end,
			Confidence: taggerConfidence,
		})
	}
	return out, nil
}

// mapProseLabel normalizes the model's label set onto the package's type
// constants so one mention is typed the same no matter which method found it.
func mapProseLabel(label string) string {
	switch label {
	case "PERSON":
		return TypePerson
	case "GPE":
		return TypeLocation
	case "ORG", "ORGANIZATION":
		return TypeOrganization
	case "MONEY":
		return TypeMoney
	case "PERCENT":
		return TypePercent
	case "DATE":
		return TypeDate
	default:
		return TypeMisc
	}
}
