package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "collapses whitespace and lowercases",
			input: "  Hello   World\n\tFoo ",
			want:  "hello world foo",
		},
		{
			name:  "keeps technical tokens",
			input: "run /usr/bin/app --flag=value_2:8080",
			want:  "run /usr/bin/app --flag value_2:8080",
		},
		{
			name:  "strips punctuation",
			input: "What is RAG? (Retrieval!)",
			want:  "what is rag retrieval",
		},
		{
			name:  "only punctuation",
			input: "?!()",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := "Chunking MUST match across ingest/query paths."
	once := Normalize(input)
	assert.Equal(t, once, Normalize(once))
}
