package security

import "go.uber.org/zap/zapcore"

// Severity is derived from EventType, never supplied by the caller.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

var eventSeverity = map[EventType]Severity{
	EventSessionCreated:     SeverityINFO,
	EventDataExport:         SeverityMEDIUM,
	EventSessionRejected:    SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventUnauthorizedAccess: SeverityHIGH,
}

// GetSeverity returns the severity for an event type; unmapped types are MEDIUM.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := eventSeverity[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityINFO, SeverityMEDIUM:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
