package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleMarkers(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Step("uploading %s", "report.pdf")
	c.Success("conversion finished")
	c.Warn("still waiting after %d polls", 3)
	c.Failure("no download control found")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "uploading report.pdf" {
		t.Errorf("step line: %q", lines[0])
	}
	if lines[1] != "✓ conversion finished" {
		t.Errorf("success line: %q", lines[1])
	}
	if lines[2] != "! still waiting after 3 polls" {
		t.Errorf("warn line: %q", lines[2])
	}
	if lines[3] != "✗ no download control found" {
		t.Errorf("failure line: %q", lines[3])
	}
}
