package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/pulse/pkg/pulse/pipeline"
)

// Service represents the service configuration
type Service struct {
	Server struct {
		Addr string `yaml:"addr"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`

	Collection struct {
		MaxPostsPerSource int   `yaml:"max_posts_per_source"`
		Seed              int64 `yaml:"seed"`
		RetentionDays     int   `yaml:"retention_days"`
	} `yaml:"collection"`

	Analysis struct {
		MaxTopicsPerText    int      `yaml:"max_topics_per_text"`
		MinTextsForTopics   int      `yaml:"min_texts_for_topics"`
		MaxEntitiesPerText  int      `yaml:"max_entities_per_text"`
		DisableParallel     bool     `yaml:"disable_parallel"`
		MaxWorkers          int      `yaml:"max_workers"`
		TimeoutSeconds      int      `yaml:"timeout_seconds"`
		DisableLanguageGate bool     `yaml:"disable_language_gate"`
		SupportedLanguages  []string `yaml:"supported_languages"`
	} `yaml:"analysis"`
}

// LoadService loads the service configuration from a YAML file
func LoadService(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var svc Service
	if err := yaml.Unmarshal(data, &svc); err != nil {
		return nil, err
	}

	if svc.Server.Addr == "" {
		svc.Server.Addr = ":8080"
	}
	if svc.Collection.MaxPostsPerSource <= 0 {
		svc.Collection.MaxPostsPerSource = 25
	}
	if svc.Collection.RetentionDays <= 0 {
		svc.Collection.RetentionDays = 30
	}

	return &svc, nil
}

// PipelineConfig converts the analysis section into a pipeline configuration,
// falling back to pipeline defaults for unset fields.
func (s *Service) PipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	a := s.Analysis

	if a.MaxTopicsPerText > 0 {
		cfg.MaxTopicsPerText = a.MaxTopicsPerText
	}
	if a.MinTextsForTopics > 0 {
		cfg.MinTextsForTopics = a.MinTextsForTopics
	}
	if a.MaxEntitiesPerText > 0 {
		cfg.MaxEntitiesPerText = a.MaxEntitiesPerText
	}
	if a.MaxWorkers > 0 {
		cfg.MaxWorkers = a.MaxWorkers
	}
	if a.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(a.TimeoutSeconds) * time.Second
	}
	if len(a.SupportedLanguages) > 0 {
		cfg.SupportedLanguages = a.SupportedLanguages
	}
	cfg.DisableParallel = a.DisableParallel
	cfg.DisableLanguageDetection = a.DisableLanguageGate

	return cfg
}

// Stopwords represents the extra stopword list configuration
type Stopwords struct {
	Terms []string `yaml:"terms"`
}

// LoadStopwords loads extra stopwords from a YAML file
func LoadStopwords(path string) (*Stopwords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sw Stopwords
	if err := yaml.Unmarshal(data, &sw); err != nil {
		return nil, err
	}

	return &sw, nil
}

// Companies represents the known-company list configuration
type Companies struct {
	Names []string `yaml:"names"`
}

// LoadCompanies loads known company names from a YAML file
func LoadCompanies(path string) (*Companies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Companies
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	return &c, nil
}
