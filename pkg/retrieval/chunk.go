package retrieval

import (
	"math"
	"strings"
)

// ChunkText splits text into overlapping chunks of at most size bytes,
// preferring to break on newlines so chunks stay line-aligned. Overlap bytes
// from the end of each chunk are carried into the next.
func ChunkText(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		// Break at the last newline inside the window when one exists in the
		// second half, so overlap regions line up with line boundaries.
		cut := end
		if idx := strings.LastIndexByte(text[start:end], '\n'); idx > size/2 {
			cut = start + idx + 1
		}

		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// tokenize lowercases text and splits it into alphanumeric terms.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_'
	})
}

// termFrequencies returns the term-frequency vector for text.
func termFrequencies(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, term := range tokenize(text) {
		tf[term]++
	}
	return tf
}

// cosineDistance returns 1 minus the cosine similarity of two term-frequency
// vectors. Lower means more similar; 0 is identical, 1 is orthogonal.
func cosineDistance(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for term, va := range a {
		normA += va * va
		if vb, ok := b[term]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if dot == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
