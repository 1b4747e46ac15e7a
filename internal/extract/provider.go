package extract

import (
	"fmt"

	"github.com/fyrsmithlabs/notesd/internal/config"
)

// New creates an extractor based on configuration. An empty provider name
// selects the default rule set.
func New(cfg config.ExtractConfig) (Extractor, error) {
	switch cfg.Provider {
	case config.ProviderRules, "":
		return NewRulesExtractor(), nil
	case config.ProviderBullets:
		return NewBulletExtractor(), nil
	case config.ProviderSimple:
		return NewSimpleExtractor(), nil
	case config.ProviderLLM:
		return NewLLMExtractor(cfg)
	case config.ProviderNoop:
		return &NoopExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extract provider: %q", cfg.Provider)
	}
}
