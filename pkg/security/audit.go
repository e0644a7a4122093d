package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventSessionCreated     EventType = "session_created"
	EventSessionRejected    EventType = "session_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventDataExport         EventType = "data_export"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // masked or hashed
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// AuditLogger writes security events through zap, separate from the
// application log so they can be shipped and retained on their own.
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *AuditLogger
)

// NewAuditLogger builds a production zap logger writing JSON to stdout.
func NewAuditLogger(serviceName, environment string) *AuditLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger = zap.NewNop()
	}
	return WithZap(logger, serviceName, environment)
}

// WithZap wraps an existing zap logger.
func WithZap(logger *zap.Logger, serviceName, environment string) *AuditLogger {
	return &AuditLogger{zapLogger: logger, serviceName: serviceName, environment: environment}
}

// SetDefault installs the logger returned by Default.
func SetDefault(l *AuditLogger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the installed audit logger, or a no-op one before SetDefault.
func Default() *AuditLogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return WithZap(zap.NewNop(), "", "")
	}
	return defaultLogger
}

// Log logs a security event. Severity is always derived from the event type.
func (l *AuditLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment
	event.Severity = GetSeverity(event.Event)

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
		zap.Time("occurred_at", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(event.Severity.zapLevel(), string(event.Event), fields...)
}

// LogSessionCreated records a sign-in through the page area.
func (l *AuditLogger) LogSessionCreated(ctx context.Context, userID, role, ip, userAgent, requestID string) {
	l.Log(ctx, SecurityEvent{
		Event:        EventSessionCreated,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"role": role},
	})
}

// LogSessionRejected records a token that failed verification.
func (l *AuditLogger) LogSessionRejected(ctx context.Context, ip, userAgent, requestID, reason string) {
	l.Log(ctx, SecurityEvent{
		Event:     EventSessionRejected,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Details:   map[string]interface{}{"reason": reason},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (l *AuditLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	l.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogUnauthorizedAccess records a rejected operator credential.
func (l *AuditLogger) LogUnauthorizedAccess(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	l.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
		Details:   map[string]interface{}{"endpoint": endpoint},
	})
}

// LogDataExport records a bulk download of personal data.
func (l *AuditLogger) LogDataExport(ctx context.Context, ip, requestID, dataset string, size int) {
	l.Log(ctx, SecurityEvent{
		Event:     EventDataExport,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"dataset": dataset, "bytes": size},
	})
}

// Sync flushes any buffered log entries
func (l *AuditLogger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns the first 16 hex chars of the SHA-256 of value.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
