// Package logwriter sets up where handoff writes its logs.
package logwriter // "github.com/nickng/handoff/logwriter"

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Writer is a log destination and its configuration.
type Writer struct {
	io.Writer

	LogFile       string // Path to log file, stdout if empty.
	EnableLogging bool
	EnableColour  bool
	Flags         int // Flags for loggers created by Logger.

	cleanup []func() error
}

// NewFile creates a Writer logging to logfile.
func NewFile(logfile string, enableLogging, enableColour bool) *Writer {
	return &Writer{
		LogFile:       logfile,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
		Flags:         log.LstdFlags,
	}
}

// New creates a Writer logging to w.
func New(w io.Writer, enableLogging, enableColour bool) *Writer {
	return &Writer{
		Writer:        w,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
		Flags:         log.LstdFlags,
	}
}

// syncWriter serialises writes from loggers sharing one destination.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(*bufio.Writer); ok {
		return f.Flush()
	}
	return nil
}

// Create opens the destination. Colour output is switched globally.
// Loggers returned by Logger may be used from any goroutine.
func (w *Writer) Create() error {
	color.NoColor = !w.EnableColour
	switch {
	case !w.EnableLogging:
		w.Writer = ioutil.Discard
		return nil
	case w.Writer != nil:
	case w.LogFile != "":
		f, err := os.Create(w.LogFile)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		sw := &syncWriter{w: bufio.NewWriter(f)}
		w.Writer = sw
		w.cleanup = append(w.cleanup, sw.flush, f.Close)
		return nil
	default:
		w.Writer = os.Stdout
	}
	if _, ok := w.Writer.(*syncWriter); !ok {
		w.Writer = &syncWriter{w: w.Writer}
	}
	return nil
}

// Logger returns a logger writing to w with the given prefix.
func (w *Writer) Logger(prefix string) *log.Logger {
	if w.Writer == nil {
		return log.New(ioutil.Discard, prefix, w.Flags)
	}
	return log.New(w.Writer, prefix, w.Flags)
}

// Cleanup flushes and closes the log file, if there is one.
func (w *Writer) Cleanup() {
	for _, fn := range w.cleanup {
		if err := fn(); err != nil {
			log.Printf("logwriter: %s", err)
		}
	}
	w.cleanup = nil
}
