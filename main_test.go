package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.png")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record passed a warn level logger")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"file":"a.png"`) {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Error("unknown level accepted")
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Error("unknown format accepted")
	}
}
