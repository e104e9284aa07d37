// Package notifier reports user-facing failures and confirmations. Commands
// hold a Sink and never print or log errors of other layers themselves.
package notifier

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/maticai/matic/internal/logger"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Sink interface {
	Notify(level Level, text string) error
}

// LogSink writes notifications to a logger.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = logger.Named("notify")
	}
	return &LogSink{logger: l}
}

func (s *LogSink) Notify(level Level, text string) error {
	switch level {
	case LevelError:
		s.logger.Error(text)
	case LevelWarn:
		s.logger.Warn(text)
	default:
		s.logger.Info(text)
	}
	return nil
}

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// WriterSink prints notifications, typically to stderr.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Notify(level Level, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var line string
	switch level {
	case LevelError:
		line = errorStyle.Render("Error: ") + text
	case LevelWarn:
		line = warnStyle.Render("Warning: ") + text
	default:
		line = text
	}
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// Multi fans a notification out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Notify(level Level, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Notify(level, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Errorf sends a formatted error-level notification, ignoring sink failures.
func Errorf(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	_ = s.Notify(LevelError, fmt.Sprintf(format, args...))
}

// Infof sends a formatted info-level notification, ignoring sink failures.
func Infof(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	_ = s.Notify(LevelInfo, fmt.Sprintf(format, args...))
}
