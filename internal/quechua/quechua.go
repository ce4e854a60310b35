// Package quechua implements the dedicated Spanish→Quechua decoding
// strategy on top of a fine-tuned T5 model.
package quechua

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pricofy/translation-dispatcher/internal/inference"
	"github.com/sirupsen/logrus"
)

// Decoding parameters of the Spanish→Quechua model.
const (
	NumBeams  = 4
	MaxLength = 40
)

// Tokenizer is the paired tokenizer of the model.
type Tokenizer interface {
	Encode(ctx context.Context, text string) ([]int, error)
	Decode(ctx context.Context, ids []int, skipSpecial bool) (string, error)
}

// Model generates output token sequences.
type Model interface {
	Generate(ctx context.Context, ids []int, opts inference.GenerateOptions) ([][]int, error)
}

// Translator runs beam search decoding against the preloaded model.
type Translator struct {
	tokenizer Tokenizer
	model     Model
	logger    *logrus.Entry
}

// New creates a Translator from an already loaded tokenizer/model pair.
func New(tokenizer Tokenizer, model Model) *Translator {
	return &Translator{
		tokenizer: tokenizer,
		model:     model,
		logger:    logrus.WithField("component", "quechua"),
	}
}

// Translate encodes text, generates with beam search and decodes the
// best sequence, skipping special tokens.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	ids, err := t.tokenizer.Encode(ctx, text)
	if err != nil {
		return "", fmt.Errorf("encode failed: %w", err)
	}

	outputs, err := t.model.Generate(ctx, ids, inference.GenerateOptions{
		NumBeams:      NumBeams,
		MaxLength:     MaxLength,
		EarlyStopping: true,
	})
	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}
	if len(outputs) == 0 {
		return "", fmt.Errorf("model returned no sequences")
	}
	t.logger.Debugf("generated %d sequences, best has %d tokens", len(outputs), len(outputs[0]))

	translated, err := t.tokenizer.Decode(ctx, outputs[0], true)
	if err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	return translated, nil
}

// Shared loads the model once per process and hands out the same
// Translator to every caller. A failed load is retried on the next call.
// Callers queue behind a load in progress, so each load is bounded by
// loadTimeout (when positive) regardless of the caller's context.
type Shared struct {
	load        func(ctx context.Context) (*Translator, error)
	loadTimeout time.Duration

	mu         sync.Mutex
	translator *Translator
}

// NewShared creates a lazily loaded Translator for modelID.
func NewShared(inv inference.Invoker, modelID string, loadTimeout time.Duration) *Shared {
	return NewSharedFunc(func(ctx context.Context) (*Translator, error) {
		tok, model, err := inference.LoadSeq2Seq(ctx, inv, modelID)
		if err != nil {
			return nil, err
		}
		return New(tok, model), nil
	}, loadTimeout)
}

// NewSharedFunc is NewShared with a custom loader.
func NewSharedFunc(load func(ctx context.Context) (*Translator, error), loadTimeout time.Duration) *Shared {
	return &Shared{load: load, loadTimeout: loadTimeout}
}

// Get returns the loaded Translator, loading it on first use.
func (s *Shared) Get(ctx context.Context) (*Translator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.translator != nil {
		return s.translator, nil
	}

	if s.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	t, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quechua model: %w", err)
	}
	logrus.WithField("component", "quechua").Info("model loaded")
	s.translator = t
	return t, nil
}

// Translate loads the model if needed and translates text.
func (s *Shared) Translate(ctx context.Context, text string) (string, error) {
	t, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return t.Translate(ctx, text)
}
