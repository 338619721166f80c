package pipeline

import (
	"time"

	"github.com/cognicore/pulse/pkg/pulse/entities"
	"github.com/cognicore/pulse/pkg/pulse/sentiment"
	"github.com/cognicore/pulse/pkg/pulse/topics"
)

// Config tunes a Pipeline. Zero values take the documented defaults when
// passed to New or UpdateConfig.
type Config struct {
	SentimentMethod sentiment.Method `json:"-" yaml:"-"`
	TopicMethod     topics.Method    `json:"-" yaml:"-"`
	EntityMethod    entities.Method  `json:"-" yaml:"-"`

	MaxTopicsPerText   int `json:"max_topics_per_text" yaml:"max_topics_per_text"`     // default 5
	MinTextsForTopics  int `json:"min_texts_for_topics" yaml:"min_texts_for_topics"`   // default 3
	MaxEntitiesPerText int `json:"max_entities_per_text" yaml:"max_entities_per_text"` // default 20

	// Parallel fan-out and language detection are on unless disabled, so a
	// zero Config keeps the documented defaults.
	DisableParallel bool          `json:"disable_parallel" yaml:"disable_parallel"`
	MaxWorkers      int           `json:"max_workers" yaml:"max_workers"` // default 4
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`         // default 30s

	DisableLanguageDetection bool     `json:"disable_language_detection" yaml:"disable_language_detection"`
	SupportedLanguages       []string `json:"supported_languages" yaml:"supported_languages"` // default en, fr, nl

	// ExtraStopwords extends the topic extractor's noise lists.
	ExtraStopwords []string `json:"-" yaml:"-"`
	// KnownCompanies extends the entity recognizer's boost list.
	KnownCompanies []string `json:"-" yaml:"-"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxTopicsPerText:   5,
		MinTextsForTopics:  3,
		MaxEntitiesPerText: 20,
		MaxWorkers:         4,
		Timeout:            30 * time.Second,
		SupportedLanguages: []string{"en", "fr", "nl"},
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxTopicsPerText <= 0 {
		c.MaxTopicsPerText = def.MaxTopicsPerText
	}
	if c.MinTextsForTopics <= 0 {
		c.MinTextsForTopics = def.MinTextsForTopics
	}
	if c.MaxEntitiesPerText <= 0 {
		c.MaxEntitiesPerText = def.MaxEntitiesPerText
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = def.MaxWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if len(c.SupportedLanguages) == 0 {
		c.SupportedLanguages = def.SupportedLanguages
	}
	return c
}

func (c Config) languageSupported(lang string) bool {
	for _, l := range c.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
