package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugIsGated(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Debug("row %d rejected", 3)
	if out.Len() != 0 {
		t.Fatalf("expected no debug output while disabled, got %q", out.String())
	}

	l.SetDebug(true)
	if !l.DebugEnabled() {
		t.Fatal("debug should report enabled")
	}
	l.Debug("row %d rejected", 4)
	if !strings.Contains(out.String(), `level=DEBUG msg="row 4 rejected"`) {
		t.Fatalf("expected debug line, got %q", out.String())
	}

	out.Reset()
	l.SetDebug(false)
	l.Debug("row %d rejected", 5)
	if out.Len() != 0 {
		t.Fatalf("debug output after disabling: %q", out.String())
	}
}

func TestErrorsGoToErrorWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)
	l.Error("load failed: %s", "404")
	l.Info("loaded")
	if !strings.Contains(errOut.String(), `level=ERROR msg="load failed: 404"`) {
		t.Fatalf("missing error line: %q", errOut.String())
	}
	if strings.Contains(out.String(), "load failed") {
		t.Fatalf("error leaked to info writer: %q", out.String())
	}
	if !strings.Contains(out.String(), "level=INFO msg=loaded") {
		t.Fatalf("missing info line: %q", out.String())
	}
}
