package extract

import (
	"testing"

	"github.com/fyrsmithlabs/notesd/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ExtractConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "rules provider",
			cfg:      config.ExtractConfig{Provider: config.ProviderRules},
			wantType: "*extract.RulesExtractor",
		},
		{
			name:     "empty provider defaults to rules",
			cfg:      config.ExtractConfig{},
			wantType: "*extract.RulesExtractor",
		},
		{
			name:     "bullets provider",
			cfg:      config.ExtractConfig{Provider: config.ProviderBullets},
			wantType: "*extract.BulletExtractor",
		},
		{
			name:     "simple provider",
			cfg:      config.ExtractConfig{Provider: config.ProviderSimple},
			wantType: "*extract.SimpleExtractor",
		},
		{
			name: "llm provider",
			cfg: config.ExtractConfig{
				Provider:   config.ProviderLLM,
				LLMBaseURL: "http://localhost:11434/v1",
				LLMModel:   "llama3.1:8b",
			},
			wantType: "*extract.LLMExtractor",
		},
		{
			name:     "noop provider",
			cfg:      config.ExtractConfig{Provider: config.ProviderNoop},
			wantType: "*extract.NoopExtractor",
		},
		{
			name:    "unknown provider",
			cfg:     config.ExtractConfig{Provider: "magic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var gotType string
			switch extractor.(type) {
			case *RulesExtractor:
				gotType = "*extract.RulesExtractor"
			case *BulletExtractor:
				gotType = "*extract.BulletExtractor"
			case *SimpleExtractor:
				gotType = "*extract.SimpleExtractor"
			case *LLMExtractor:
				gotType = "*extract.LLMExtractor"
			case *NoopExtractor:
				gotType = "*extract.NoopExtractor"
			default:
				gotType = "unknown"
			}
			if gotType != tt.wantType {
				t.Errorf("New() returned %s, want %s", gotType, tt.wantType)
			}
		})
	}
}
