package chunker

import (
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		size     int
		overlap  int
		wantErr  bool
	}{
		{"valid tokens", StrategyTokens, 512, 50, false},
		{"valid sentences", StrategySentences, 512, 0, false},
		{"overlap equals size", StrategyTokens, 100, 100, true},
		{"overlap exceeds size", StrategyTokens, 100, 150, true},
		{"zero size", StrategySentences, 0, 0, true},
		{"negative overlap", StrategyTokens, 100, -1, true},
		{"unknown strategy", Strategy("words"), 100, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.strategy, tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%s, %d, %d) error = %v, wantErr %v", tt.strategy, tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, strategy := range []Strategy{StrategyTokens, StrategySentences, StrategyParagraphs} {
		c, err := New(strategy, 512, 50)
		if err != nil {
			t.Fatalf("New(%s): %v", strategy, err)
		}
		for _, input := range []string{"", "   ", "\n\n\t  \n"} {
			if got := c.Split(input); len(got) != 0 {
				t.Errorf("%s: Split(%q) = %d chunks, want 0", strategy, input, len(got))
			}
		}
	}
}

func TestSplitByTokens_StrideAndCounts(t *testing.T) {
	// 1000 words at size 512, overlap 50 must give chunks covering
	// words 0-511, 462-973, 924-999.
	words := strings.Fields(strings.Repeat("A ", 1000))
	text := strings.Join(words, " ")

	c, _ := New(StrategyTokens, 512, 50)
	chunks := c.Split(text)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	counts := []int{512, 512, 76}
	for i, chunk := range chunks {
		if n := len(strings.Fields(chunk)); n != counts[i] {
			t.Errorf("chunk %d has %d words, want %d", i, n, counts[i])
		}
	}
}

func TestSplitByTokens_NonFinalChunksAreFull(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 777; i++ {
		b.WriteString("w")
		b.WriteString(string(rune('a' + i%26)))
		b.WriteString(" ")
	}
	c, _ := New(StrategyTokens, 100, 20)
	chunks := c.Split(b.String())

	for i, chunk := range chunks[:len(chunks)-1] {
		if n := len(strings.Fields(chunk)); n != 100 {
			t.Errorf("non-final chunk %d has %d words, want 100", i, n)
		}
	}
}

func TestSplitByTokens_SmallInputSingleChunk(t *testing.T) {
	c, _ := New(StrategyTokens, 512, 50)
	chunks := c.Split("just a few words here")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "just a few words here" {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitBySentences_NeverSplitsASentence(t *testing.T) {
	sentences := []string{
		"The quarterly results beat every street estimate by a wide margin.",
		"Margins expanded on the back of lower raw material costs!",
		"Will the rally sustain into the next quarter?",
		"Analysts remain divided on valuations.",
		"The stock closed three percent higher.",
	}
	text := strings.Join(sentences, " ")

	c, _ := New(StrategySentences, 20, 0)
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// every chunk must be a concatenation of whole input sentences
	var rebuilt []string
	for _, chunk := range chunks {
		rebuilt = append(rebuilt, splitSentences(chunk)...)
	}
	if len(rebuilt) != len(sentences) {
		t.Fatalf("rebuilt %d sentences, want %d", len(rebuilt), len(sentences))
	}
	for i, s := range rebuilt {
		if s != sentences[i] {
			t.Errorf("sentence %d = %q, want %q", i, s, sentences[i])
		}
	}
}

func TestSplitBySentences_OversizedSentenceKeptWhole(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 50)) + "."
	text := "Short one. " + long + " Another short one."

	c, _ := New(StrategySentences, 10, 0)
	chunks := c.Split(text)

	found := false
	for _, chunk := range chunks {
		if chunk == long {
			found = true
		}
	}
	if !found {
		t.Errorf("oversized sentence was not kept as its own chunk: %v", chunks)
	}
}

func TestSplitSentences_DecimalsNotBoundaries(t *testing.T) {
	got := splitSentences("Revenue grew 3.5 percent. Profit fell.")
	want := []string{"Revenue grew 3.5 percent.", "Profit fell."}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitByParagraphs_MergesSmallParagraphs(t *testing.T) {
	text := "Para one is short.\n\nPara two is also short.\n\nPara three as well."

	c, _ := New(StrategyParagraphs, 100, 0)
	chunks := c.Split(text)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1 merged chunk: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "Para one") || !strings.Contains(chunks[0], "Para three") {
		t.Errorf("merged chunk missing paragraphs: %q", chunks[0])
	}
}

func TestSplitByParagraphs_OversizedFallsBackToSentences(t *testing.T) {
	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, strings.TrimSpace(strings.Repeat("word ", 8))+".")
	}
	big := strings.Join(sentences, " ") // 96 words, no blank lines
	text := "Small intro paragraph.\n\n" + big

	c, _ := New(StrategyParagraphs, 30, 0)
	chunks := c.Split(text)

	if len(chunks) < 3 {
		t.Fatalf("expected the big paragraph to be sentence-chunked, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks[1:] {
		if n := len(strings.Fields(chunk)); n > 32 {
			t.Errorf("fallback chunk %d has %d words, want <= size + one sentence", i, n)
		}
	}
}

func TestSplit_OrderPreserved(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	c, _ := New(StrategySentences, 6, 0)
	chunks := c.Split(text)

	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Errorf("chunk order broke reconstruction:\n got %q\nwant %q", joined, text)
	}
}
