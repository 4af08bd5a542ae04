package embedding

import (
	"errors"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxWords  int
		wantWords int
	}{
		{"under cap untouched", "one two three", 10, 3},
		{"exactly at cap", "one two three", 3, 3},
		{"over cap truncated", strings.Repeat("w ", 100), 40, 40},
		{"zero cap disables truncation", strings.Repeat("w ", 100), 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.maxWords)
			if n := len(strings.Fields(got)); n != tt.wantWords {
				t.Errorf("Truncate() kept %d words, want %d", n, tt.wantWords)
			}
		})
	}
}

func TestTruncate_PreservesShortTextVerbatim(t *testing.T) {
	text := "spacing   is   odd\nbut short"
	if got := Truncate(text, 50); got != text {
		t.Errorf("short input must pass through unchanged, got %q", got)
	}
}

func TestError_Wraps(t *testing.T) {
	cause := errors.New("backend down")
	err := &Error{Backend: "google", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Error must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "google") {
		t.Errorf("Error() = %q, want backend name included", err.Error())
	}

	var embErr *Error
	if !errors.As(error(err), &embErr) {
		t.Error("errors.As must match *embedding.Error")
	}
}
