package rag

import (
	"strings"
	"testing"
)

func TestSplitChunksPacksParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	chunks := SplitChunks(text)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if !strings.Contains(chunks[0], "First paragraph.") || !strings.Contains(chunks[0], "Third paragraph.") {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitChunksRespectsSizeLimit(t *testing.T) {
	paragraph := strings.Repeat("word ", 120) // ~600 bytes
	text := paragraph + "\n\n" + paragraph + "\n\n" + paragraph
	chunks := SplitChunks(text)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want at least 2", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > chunkSize {
			t.Errorf("chunk %d is %d bytes", i, len(chunk))
		}
	}
}

func TestSplitChunksHardSplitsOversizedParagraph(t *testing.T) {
	text := strings.Repeat("x", chunkSize*2+100)
	chunks := SplitChunks(text)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
}

func TestSplitChunksEmptyInput(t *testing.T) {
	if chunks := SplitChunks("  \n\n  "); len(chunks) != 0 {
		t.Errorf("chunks = %v, want none", chunks)
	}
}
