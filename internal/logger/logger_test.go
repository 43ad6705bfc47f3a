package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// capture routes log output to a buffer for the duration of the test.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(nil)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("test message %s", "arg") }, "[DEBUG] test message arg\n"},
		{"info", func() { Info("info message %d", 42) }, "[INFO] info message 42\n"},
		{"warn", func() { Warn("warning message") }, "[WARN] warning message\n"},
		{"error", func() { Error("failed: %v", "boom") }, "[ERROR] failed: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}

	Error("watcher stopped")
	if got := buf.String(); got != "[ERROR] watcher stopped\n" {
		t.Errorf("errors are always printed, got %q", got)
	}
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Test Section")

	if got := buf.String(); got != "\n=== Test Section ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestScope(t *testing.T) {
	buf := capture(t, true)

	With("presenter", "3f2a").Warn("persist page: %v", "disk full")
	With("file watcher", "").Debug("started")

	want := "[WARN] presenter 3f2a: persist page: disk full\n[DEBUG] file watcher: started\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected scoped output: %q", got)
	}
}

func TestScope_PercentInPrefix(t *testing.T) {
	buf := capture(t, true)

	With("panel", "100%").Info("ready")

	if got := buf.String(); got != "[INFO] panel 100%: ready\n" {
		t.Errorf("prefix must not be treated as a format: %q", got)
	}
}

func TestLevel_String(t *testing.T) {
	if got := Level(42).String(); got != "LOG" {
		t.Errorf("unknown level printed %q", got)
	}
}

func TestSetOutput_NilRestoresDefault(t *testing.T) {
	capture(t, false)

	SetOutput(nil)

	mu.RLock()
	defer mu.RUnlock()
	if output == nil {
		t.Error("expected a default writer")
	}
}

func TestConcurrentAccess(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Debug("concurrent %d", i)
			With("panel", "p").Warn("concurrent %d", i)
			IsVerbose()
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 whole lines, got %d", len(lines))
	}
}
