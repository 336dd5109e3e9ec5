package server

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// ConsoleMessage represents a log entry captured for an API response
type ConsoleMessage struct {
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"` // "debug", "info", "warn", "error"
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Console collects the log entries of a single request so that parser and
// renderer warnings can be returned to the client
type Console struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	limit    int
}

// NewConsole creates a console that keeps at most limit messages
func NewConsole(limit int) *Console {
	return &Console{limit: limit}
}

// Core returns a zap core that records entries at or above level into the console
func (c *Console) Core(level zapcore.LevelEnabler) zapcore.Core {
	return &consoleCore{LevelEnabler: level, console: c}
}

// Messages returns a copy of the captured messages
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConsoleMessage(nil), c.messages...)
}

func (c *Console) add(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Full console, drop (don't grow unbounded)
	if c.limit > 0 && len(c.messages) >= c.limit {
		return
	}
	c.messages = append(c.messages, msg)
}

// consoleCore implements zapcore.Core on top of a Console
type consoleCore struct {
	zapcore.LevelEnabler
	console *Console
	fields  []zapcore.Field
}

func (cc *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	return &consoleCore{
		LevelEnabler: cc.LevelEnabler,
		console:      cc.console,
		fields:       append(append([]zapcore.Field(nil), cc.fields...), fields...),
	}
}

func (cc *consoleCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if cc.Enabled(entry.Level) {
		return checked.AddCore(entry, cc)
	}
	return checked
}

func (cc *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range cc.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	msg := ConsoleMessage{
		Message:   entry.Message,
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
	}
	if len(enc.Fields) > 0 {
		msg.Fields = enc.Fields
	}
	cc.console.add(msg)
	return nil
}

func (cc *consoleCore) Sync() error {
	return nil
}
