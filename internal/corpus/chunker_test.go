package corpus

import (
	"strings"
	"testing"
)

func TestChunkShortTextSinglePiece(t *testing.T) {
	got := Chunk("a short passage", 1000, 200)
	if len(got) != 1 || got[0] != "a short passage" {
		t.Fatalf("short text should stay whole: %v", got)
	}
}

func TestChunkEmptyText(t *testing.T) {
	if got := Chunk("   ", 1000, 200); got != nil {
		t.Fatalf("blank text should produce no chunks: %v", got)
	}
}

func TestChunkWindowsOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // 300 runes
	got := Chunk(text, 100, 20)

	// Steps of 80: windows at 0, 80, 160, 240.
	if len(got) != 4 {
		t.Fatalf("chunks: want=4 got=%d", len(got))
	}
	for i, c := range got[:3] {
		if len([]rune(c)) != 100 {
			t.Fatalf("chunk %d length: want=100 got=%d", i, len([]rune(c)))
		}
	}
	// Consecutive windows share their 20-rune overlap.
	first := []rune(got[0])
	second := []rune(got[1])
	if string(first[80:]) != string(second[:20]) {
		t.Fatalf("overlap mismatch: %q vs %q", string(first[80:]), string(second[:20]))
	}
}

func TestChunkRuneBoundaries(t *testing.T) {
	text := strings.Repeat("劇場版月がきれい", 40)
	chunks := Chunk(text, 50, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if !strings.Contains(text, c) {
			t.Fatalf("chunk is not a clean substring: %q", c)
		}
	}
}

func TestChunkDegenerateOverlap(t *testing.T) {
	// Overlap equal to the window size would stall; it must be reduced so
	// the window still advances and the walk terminates.
	text := strings.Repeat("abcde", 50)
	got := Chunk(text, 100, 100)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	joined := got[len(got)-1]
	if !strings.HasSuffix(text, joined) {
		t.Fatalf("final chunk should close out the text: %q", joined)
	}
}
