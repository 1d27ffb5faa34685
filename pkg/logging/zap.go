package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface using uber-go/zap
type ZapLogger struct {
	logger *zap.Logger
	fields []Field
}

// NewZapLogger creates a new Logger implementation backed by zap
func NewZapLogger(options ...ZapOption) Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	opts := defaultZapOptions()
	for _, opt := range options {
		opt(opts)
	}

	if opts.development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if opts.level != nil {
		config.Level = zap.NewAtomicLevelAt(*opts.level)
	}

	if len(opts.outputPaths) > 0 {
		config.OutputPaths = opts.outputPaths
	}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fall back to the default logger if zap logger creation fails
		return NewLogger()
	}

	return &ZapLogger{
		logger: logger,
	}
}

// ZapOption defines a function that can configure a zap logger
type ZapOption func(*zapOptions)

// zapOptions holds configuration for the zap logger
type zapOptions struct {
	development bool
	level       *zapcore.Level
	outputPaths []string
}

func defaultZapOptions() *zapOptions {
	return &zapOptions{
		development: false,
		outputPaths: []string{"stdout"},
	}
}

// WithDevelopmentMode enables development mode with more verbose logging
func WithDevelopmentMode() ZapOption {
	return func(opts *zapOptions) {
		opts.development = true
	}
}

// WithDebugLevel sets the log level to debug
func WithDebugLevel() ZapOption {
	return func(opts *zapOptions) {
		level := zapcore.DebugLevel
		opts.level = &level
	}
}

// WithLogLevel sets a specific log level
func WithLogLevel(level Level) ZapOption {
	return func(opts *zapOptions) {
		var zapLevel zapcore.Level
		switch level {
		case DEBUG:
			zapLevel = zapcore.DebugLevel
		case INFO:
			zapLevel = zapcore.InfoLevel
		case WARN:
			zapLevel = zapcore.WarnLevel
		case ERROR:
			zapLevel = zapcore.ErrorLevel
		default:
			zapLevel = zapcore.InfoLevel
		}
		opts.level = &zapLevel
	}
}

// WithOutputPaths sets output paths for the logger
func WithOutputPaths(paths ...string) ZapOption {
	return func(opts *zapOptions) {
		opts.outputPaths = paths
	}
}

// Debug implements Logger interface
func (l *ZapLogger) Debug(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Info implements Logger interface
func (l *ZapLogger) Info(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.InfoLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Warn implements Logger interface
func (l *ZapLogger) Warn(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.WarnLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Error implements Logger interface
func (l *ZapLogger) Error(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.ErrorLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// WithFields implements Logger interface
func (l *ZapLogger) WithFields(fields ...Field) Logger {
	newLogger := *l
	newLogger.fields = make([]Field, len(l.fields)+len(fields))
	copy(newLogger.fields, l.fields)
	copy(newLogger.fields[len(l.fields):], fields)
	return &newLogger
}

// SetLevel implements Logger interface. The zap level is fixed at
// construction time; use WithLogLevel instead.
func (l *ZapLogger) SetLevel(level Level) {
	l.logger.Info("SetLevel not supported with zap logger; use WithLogLevel at construction")
}

// SetOutput implements Logger interface by rebuilding the core around w
func (l *ZapLogger) SetOutput(w io.Writer) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	atom := zap.NewAtomicLevel()
	atom.SetLevel(l.logger.Level())

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		atom,
	)

	l.logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// GetZapLogger returns the underlying zap.Logger
func (l *ZapLogger) GetZapLogger() *zap.Logger {
	return l.logger
}

// convertFields converts our Field type to zap.Field
func (l *ZapLogger) convertFields(fields ...Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(l.fields)+len(fields))
	for _, f := range l.fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}

// Close flushes any buffered log entries
func (l *ZapLogger) Close() error {
	return l.logger.Sync()
}
