package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/metrics"
)

// ExtractService turns free-form text into persisted action items.
type ExtractService interface {
	// Extract runs the configured extractor over text and stores the
	// resulting items. When saveNote is true the full text is saved as
	// a note and the items are attached to it.
	Extract(ctx context.Context, text string, saveNote bool) (*ExtractResult, error)

	// ExtractLLM is Extract using the language model extractor.
	ExtractLLM(ctx context.Context, text string, saveNote bool) (*ExtractResult, error)
}

// ExtractServiceOptions configures NewExtractService.
type ExtractServiceOptions struct {
	// Extractor handles Extract calls. Required.
	Extractor extract.Extractor

	// LLM handles ExtractLLM calls. Leaving it nil makes ExtractLLM
	// reject requests.
	LLM extract.Extractor

	// Provider names the configured extractor for logs and metrics.
	Provider string
}

// extractService implements ExtractService.
type extractService struct {
	extractor extract.Extractor
	llm       extract.Extractor
	provider  string
	notes     NoteStore
	items     ItemStore
	logger    *zap.Logger
}

// NewExtractService creates an extraction service backed by the given
// stores.
func NewExtractService(opts ExtractServiceOptions, notes NoteStore, items ItemStore, logger *zap.Logger) (ExtractService, error) {
	if opts.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if notes == nil {
		return nil, errors.New("note store is required")
	}
	if items == nil {
		return nil, errors.New("item store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &extractService{
		extractor: opts.Extractor,
		llm:       opts.LLM,
		provider:  opts.Provider,
		notes:     notes,
		items:     items,
		logger:    logger,
	}, nil
}

// Extract runs the configured extractor over text and stores the
// resulting items.
func (s *extractService) Extract(ctx context.Context, text string, saveNote bool) (*ExtractResult, error) {
	if text == "" {
		return nil, Validationf("text must not be empty")
	}

	found, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract action items: %w", err)
	}
	return s.persist(ctx, s.provider, found, text, saveNote)
}

// ExtractLLM is Extract using the language model extractor.
func (s *extractService) ExtractLLM(ctx context.Context, text string, saveNote bool) (*ExtractResult, error) {
	if s.llm == nil {
		return nil, Validationf("llm extraction is not configured")
	}
	if text == "" {
		return nil, Validationf("text must not be empty")
	}

	found, err := s.llm.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, extract.ErrMalformedResponse) {
			return nil, Validationf("%s", err)
		}
		return nil, fmt.Errorf("extract action items: %w", err)
	}
	return s.persist(ctx, "llm", found, text, saveNote)
}

// persist stores the extracted items, optionally saving the source text
// as a note first so the items can reference it.
func (s *extractService) persist(ctx context.Context, provider string, found []string, text string, saveNote bool) (*ExtractResult, error) {
	var noteID *int64
	if saveNote {
		note := &Note{
			Title:   deriveTitle(text),
			Content: text,
			Tags:    []Tag{},
		}
		if err := s.notes.Create(ctx, note); err != nil {
			return nil, fmt.Errorf("save note: %w", err)
		}
		noteID = &note.ID
	}

	items := make([]*ActionItem, 0, len(found))
	for _, description := range found {
		items = append(items, &ActionItem{Description: description, NoteID: noteID})
	}
	if len(items) > 0 {
		if err := s.items.CreateMany(ctx, items); err != nil {
			return nil, fmt.Errorf("save action items: %w", err)
		}
	}

	metrics.ExtractedItems.WithLabelValues(provider).Add(float64(len(items)))
	s.logger.Info("extracted action items",
		zap.String("provider", provider),
		zap.Int("count", len(items)),
		zap.Bool("saved_note", saveNote))

	return &ExtractResult{NoteID: noteID, Items: items}, nil
}

// deriveTitle builds a note title from free-form text: the first
// non-blank line, truncated to the title limit, or "Untitled".
func deriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > maxTitleLen {
			return string(runes[:maxTitleLen])
		}
		return trimmed
	}
	return "Untitled"
}

var _ ExtractService = (*extractService)(nil)
