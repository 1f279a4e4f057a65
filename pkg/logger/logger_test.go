package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_OnlyFirstCallConfigures(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first bytes.Buffer
	firstLogger := Init(Options{Level: "debug", Output: &first})
	firstLogger.Debug().Msg("one")

	var second bytes.Buffer
	secondLogger := Init(Options{Level: "error", Output: &second})
	secondLogger.Debug().Msg("two")

	out := first.String()
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Fatalf("both lines must land on the first writer, got %q", out)
	}
	if second.Len() != 0 {
		t.Fatalf("a second Init must not reconfigure the output, got %q", second.String())
	}
}

func TestGet_ReturnsInitialisedInstance(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	lg := Get()
	lg.Info().Str("component", "store").Msg("ready")

	if !strings.Contains(buf.String(), `"component":"store"`) {
		t.Fatalf("expected structured field in output, got %q", buf.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("Get before Init must panic")
		}
	}()
	Get()
}

func TestInit_LevelFiltersOutput(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	lg := Get()
	lg.Info().Msg("quiet")
	lg.Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info line must be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line must pass, got %q", out)
	}
}

func TestParseLevel_Fallback(t *testing.T) {
	for _, s := range []string{"", "  ", "verbose", "INFO"} {
		if lvl := parseLevel(s); lvl.String() != "info" {
			t.Fatalf("parseLevel(%q) = %v, want info", s, lvl)
		}
	}
	if lvl := parseLevel(" Warning "); lvl.String() != "warn" {
		t.Fatalf("parseLevel fold/trim failed: %v", lvl)
	}
}
