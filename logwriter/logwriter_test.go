package logwriter

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.log")
	w := NewFile(path, true, false)
	if err := w.Create(); err != nil {
		t.Fatal(err)
	}
	w.Flags = 0
	w.Logger("test: ").Println("hello")
	w.Cleanup()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "test: hello\n" {
		t.Errorf("log file contains %q", b)
	}
	if !color.NoColor {
		t.Error("colour not disabled")
	}
}

func TestDisabled(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, false, false)
	if err := w.Create(); err != nil {
		t.Fatal(err)
	}
	w.Logger("").Println("dropped")
	w.Cleanup()
	if buf.Len() != 0 {
		t.Errorf("disabled writer wrote %q", buf.String())
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, true, false)
	if err := w.Create(); err != nil {
		t.Fatal(err)
	}
	w.Logger("x: ").Println("kept")
	if !strings.Contains(buf.String(), "x: ") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("got %q", buf.String())
	}
}

func TestBadPath(t *testing.T) {
	w := NewFile(filepath.Join(t.TempDir(), "missing", "dir", "log"), true, false)
	if err := w.Create(); err == nil {
		t.Error("Create() succeeded on a missing directory")
	}
}

func TestConcurrentLoggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handoff.log")
	w := NewFile(path, true, false)
	if err := w.Create(); err != nil {
		t.Fatal(err)
	}
	w.Flags = 0

	const loggers, lines = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < loggers; i++ {
		wg.Add(1)
		go func(l *log.Logger) {
			defer wg.Done()
			for j := 0; j < lines; j++ {
				l.Println("line")
			}
		}(w.Logger(fmt.Sprintf("l%d: ", i)))
	}
	wg.Wait()
	w.Cleanup()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if len(got) != loggers*lines {
		t.Fatalf("log file has %d lines, want %d", len(got), loggers*lines)
	}
	for _, line := range got {
		if !strings.HasPrefix(line, "l") || !strings.HasSuffix(line, ": line") {
			t.Fatalf("corrupted line %q", line)
		}
	}
}
