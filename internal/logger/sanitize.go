package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ghkeep/ghkeep/internal/redact"
)

// sanitizingCore wraps a zapcore.Core and rewrites every entry's message
// and fields through the redaction engine before the inner core encodes
// them. This is the single interception point between call sites and sinks.
type sanitizingCore struct {
	inner  zapcore.Core
	engine *redact.Engine
}

// WrapCore returns a core that sanitizes all records written through it.
func WrapCore(core zapcore.Core, engine *redact.Engine) zapcore.Core {
	return &sanitizingCore{inner: core, engine: engine}
}

func (c *sanitizingCore) Enabled(level zapcore.Level) bool {
	return c.inner.Enabled(level)
}

func (c *sanitizingCore) With(fields []zapcore.Field) zapcore.Core {
	return &sanitizingCore{inner: c.inner.With(c.sanitizeFields(fields)), engine: c.engine}
}

func (c *sanitizingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *sanitizingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Message = c.engine.SanitizeMessage(entry.Message)
	return c.inner.Write(entry, c.sanitizeFields(fields))
}

func (c *sanitizingCore) Sync() error {
	return c.inner.Sync()
}

func (c *sanitizingCore) sanitizeFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = c.sanitizeField(f)
	}
	return out
}

func (c *sanitizingCore) sanitizeField(f zapcore.Field) zapcore.Field {
	if f.Type != zapcore.NamespaceType && c.engine.IsSensitiveKey(f.Key) {
		return zap.String(f.Key, c.engine.Mask())
	}

	switch f.Type {
	case zapcore.StringType:
		return zap.String(f.Key, c.engine.SanitizeMessage(f.String))
	case zapcore.ByteStringType:
		if b, ok := f.Interface.([]byte); ok {
			return zap.String(f.Key, c.engine.SanitizeMessage(string(b)))
		}
		return f
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok && err != nil {
			return zap.String(f.Key, c.engine.SanitizeMessage(err.Error()))
		}
		return f
	case zapcore.StringerType:
		if s, ok := f.Interface.(fmt.Stringer); ok {
			return zap.String(f.Key, c.engine.SanitizeMessage(s.String()))
		}
		return f
	case zapcore.ReflectType:
		return zap.Any(f.Key, c.engine.SanitizeFields(f.Interface))
	case zapcore.ObjectMarshalerType, zapcore.ArrayMarshalerType, zapcore.InlineMarshalerType:
		// Marshaler fields would otherwise encode themselves straight
		// into the sink. Walking the underlying value trades their
		// custom encoding for a scanned one.
		return zap.Any(f.Key, c.engine.SanitizeFields(f.Interface))
	default:
		// Numeric, bool, time and duration fields carry no free text.
		return f
	}
}
