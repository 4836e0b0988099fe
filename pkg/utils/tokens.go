// Package utils provides small shared helpers: token counting for prompt
// budgeting and name sanitization for filesystem-safe artifact names.
package utils

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates token counts for prompt-budget decisions. Counts are
// estimates only and must never gate correctness.
type TokenCounter struct {
	mu    sync.Mutex
	codec tokenizer.Codec
}

//nolint:gochecknoglobals // process-wide shared counter
var (
	defaultCounter     *TokenCounter
	defaultCounterOnce sync.Once
)

// NewTokenCounter creates a token counter. The GPT-4 BPE vocabulary is a close
// enough proxy across the models the pipeline targets; if the codec cannot be
// loaded the counter falls back to a bytes/4 heuristic.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// DefaultTokenCounter returns the shared process-wide counter.
func DefaultTokenCounter() *TokenCounter {
	defaultCounterOnce.Do(func() {
		defaultCounter = NewTokenCounter()
	})
	return defaultCounter
}

// Count returns the estimated token count for text.
func (t *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if t.codec == nil {
		return len(text) / 4
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return n
}

// Truncate returns a prefix of text whose estimated token count does not
// exceed maxTokens. Truncation is byte-approximate, biased to under-shoot.
func (t *TokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if t.Count(text) <= maxTokens {
		return text
	}

	// Binary search the longest prefix under budget.
	lo, hi := 0, len(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.Count(text[:mid]) <= maxTokens {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return text[:lo]
}
