package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestModuleLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	SetLevel(Notice)
	SetModuleLevel("chatty", Debug)

	if !IsEnabledFor("chatty", Debug) {
		t.Fatal("expected debug messages to be enabled for module chatty")
	}
	if IsEnabledFor("quiet", Debug) {
		t.Fatal("expected debug messages to be disabled for module quiet")
	}

	New("chatty").Debugf("wave %d", 3)
	New("quiet").Debugf("wave %d", 4)
	New("quiet").Notice("done")

	out := buf.String()
	if !strings.Contains(out, "[chatty] [DEBUG]") || !strings.Contains(out, "wave 3") {
		t.Fatalf("expected debug output from chatty module; got %q", out)
	}
	if strings.Contains(out, "wave 4") {
		t.Fatalf("expected debug output from quiet module to be filtered; got %q", out)
	}
	if !strings.Contains(out, "done") {
		t.Fatalf("expected notice output from quiet module; got %q", out)
	}
}

func TestSetSinkPreservesLevel(t *testing.T) {
	defer SetLevel(Notice)
	SetLevel(Warning)

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("sink-test").Notice("filtered")
	New("sink-test").Warning("kept")

	out := buf.String()
	if strings.Contains(out, "filtered") || !strings.Contains(out, "kept") {
		t.Fatalf("expected only warning output; got %q", out)
	}
}
