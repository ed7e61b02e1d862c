package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := New(&out, 10, 4)

	if !strings.HasPrefix(bar.String(), "|          |") {
		t.Errorf("string: expected empty bar, got %q", bar.String())
	}

	bar.Increment()
	bar.Increment()
	if bar.Progress() != 0.5 {
		t.Errorf("progress: expected 0.5, got %v", bar.Progress())
	}
	if !strings.HasPrefix(bar.String(), "|█████     | [50.00%") {
		t.Errorf("string: expected half bar, got %q", bar.String())
	}

	// Progress saturates at the maximum
	for i := 0; i < 10; i++ {
		bar.Increment()
	}
	if bar.Progress() != 1 {
		t.Errorf("progress: expected 1, got %v", bar.Progress())
	}

	bar.Display()
	bar.Close()
	if !strings.Contains(out.String(), "[100.00%") {
		t.Errorf("display: expected full bar, got %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("close: expected trailing newline")
	}
}
