package config

import (
	"fmt"
	"strings"

	"easel/internal/element"
	"easel/internal/logging"
)

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Canvas.Width < element.MinWidth {
		add("canvas.width", "must be at least %d, got %g", element.MinWidth, c.Canvas.Width)
	}
	if c.Canvas.Height < element.MinHeight {
		add("canvas.height", "must be at least %d, got %g", element.MinHeight, c.Canvas.Height)
	}

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Dir == "" {
			add("storage.dir", "required for the %s backend", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		add("storage.backend", "unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		add("storage.key", "must not be empty")
	} else if strings.ContainsAny(c.Storage.Key, `/\`) {
		add("storage.key", "must not contain path separators")
	}
	if c.Storage.Watch && c.Storage.Backend != BackendFile {
		add("storage.watch", "only supported by the file backend")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		add("logging.format", "%v", err)
	}
	if c.Logging.File == "" {
		add("logging.file", "must not be empty")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
