package stderr

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestScan_SkipsBlankLines(t *testing.T) {
	lines := make(chan string, 10)
	scan(strings.NewReader("ALSA lib pcm.c: underrun\n\n   \n  second  \n"), lines)

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	want := []string{"ALSA lib pcm.c: underrun", "second"}
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScan_DropsWhenFull(t *testing.T) {
	lines := make(chan string, 1)
	scan(strings.NewReader("a\nb\nc\n"), lines)

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("lines = %q, want [a]", got)
	}
}

func TestForward_LogsEachLine(t *testing.T) {
	lines := make(chan string, 2)
	lines <- "one"
	lines <- "two"
	close(lines)

	var buf bytes.Buffer
	forward(lines, slog.New(slog.NewTextHandler(&buf, nil)))

	out := buf.String()
	if strings.Count(out, "audio backend") != 2 || !strings.Contains(out, "stderr=two") {
		t.Errorf("log output = %q", out)
	}
}
