package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, eventID, userID, seatID uint) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.Uint64("booking_id", uint64(bookingID)),
		slog.Uint64("event_id", uint64(eventID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("seat_id", uint64(seatID)),
	)
}

// LogBookingCancelled logs when a booking is cancelled
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingID, userID uint) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.Uint64("booking_id", uint64(bookingID)),
		slog.Uint64("user_id", uint64(userID)),
	)
}

// LogScanProcessed logs a processed attendance scan
func (l *Logger) LogScanProcessed(ctx context.Context, bookingID uint, action string, autoCorrected bool) {
	l.Logger.InfoContext(ctx,
		"Scan Processed",
		slog.Uint64("booking_id", uint64(bookingID)),
		slog.String("action", action),
		slog.Bool("auto_corrected", autoCorrected),
	)
}

// LogEventStatusChanged logs a scheduler-driven status transition
func (l *Logger) LogEventStatusChanged(ctx context.Context, eventID uint, from, to string) {
	l.Logger.InfoContext(ctx,
		"Event Status Changed",
		slog.Uint64("event_id", uint64(eventID)),
		slog.String("from", from),
		slog.String("to", to),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
