// Package logging provides the JSON-lines logger used across the service.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/seclens/seclens/internal/interfaces"
)

// StdoutLogger implements interfaces.Logger, writing one JSON object per
// line. Child loggers created with With share the output writer and carry
// accumulated fields.
type StdoutLogger struct {
	component string
	base      []interfaces.Field
	out       io.Writer
}

// NewStdoutLogger creates a logger writing to stdout. component is optional
// and is included on every line when set.
func NewStdoutLogger(component string) *StdoutLogger {
	return &StdoutLogger{component: component, out: os.Stdout}
}

// NewWriterLogger creates a logger writing to w. Used by tests to capture
// output.
func NewWriterLogger(component string, w io.Writer) *StdoutLogger {
	return &StdoutLogger{component: component, out: w}
}

type line struct {
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Time      string         `json:"time"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (s *StdoutLogger) log(level, msg string, fields []interfaces.Field) {
	m := make(map[string]any, len(s.base)+len(fields))
	for _, f := range s.base {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	enc, err := json.Marshal(line{
		Level:     level,
		Msg:       msg,
		Component: s.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	})
	if err != nil {
		// Some field value json.Marshal cannot handle; degrade to plain text
		// rather than dropping the message.
		fmt.Fprintf(s.out, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(s.out, string(enc))
}

func (s *StdoutLogger) Debug(msg string, fields ...interfaces.Field) {
	s.log("debug", msg, fields)
}

func (s *StdoutLogger) Info(msg string, fields ...interfaces.Field) {
	s.log("info", msg, fields)
}

func (s *StdoutLogger) Warn(msg string, fields ...interfaces.Field) {
	s.log("warn", msg, fields)
}

func (s *StdoutLogger) Error(msg string, fields ...interfaces.Field) {
	s.log("error", msg, fields)
}

// With returns a child logger whose fields appear on every subsequent line.
// A "component" field renames the component instead of accumulating.
func (s *StdoutLogger) With(fields ...interfaces.Field) interfaces.Logger {
	child := &StdoutLogger{
		component: s.component,
		base:      make([]interfaces.Field, len(s.base), len(s.base)+len(fields)),
		out:       s.out,
	}
	copy(child.base, s.base)
	for _, f := range fields {
		if f.Key == "component" {
			if name, ok := f.Value.(string); ok {
				child.component = name
				continue
			}
		}
		child.base = append(child.base, f)
	}
	return child
}
