package util

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ariebrainware/neuro-clinic/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType represents different types of audit events
type AuditEventType string

const (
	EventLoginSuccess       AuditEventType = "LOGIN_SUCCESS"
	EventLoginFailure       AuditEventType = "LOGIN_FAILURE"
	EventLogout             AuditEventType = "LOGOUT"
	EventRecordCreated      AuditEventType = "RECORD_CREATED"
	EventRecordUpdated      AuditEventType = "RECORD_UPDATED"
	EventRecordDeleted      AuditEventType = "RECORD_DELETED"
	EventUnauthorizedAccess AuditEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
)

// AuditEvent represents an audit event to be logged
type AuditEvent struct {
	EventType AuditEventType
	DoctorID  string
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var auditDB *gorm.DB

// SetAuditLoggerDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization.
func SetAuditLoggerDB(db *gorm.DB) {
	auditDB = db
}

// maxLogValueBytes bounds user-supplied values written to logs and audit rows.
const maxLogValueBytes = 200

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(value)
	if len(value) > maxLogValueBytes {
		cut := maxLogValueBytes
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut] + "..."
	}
	return value
}

// LogAuditEvent logs an audit event and persists it when a DB is configured.
// Persistence is best-effort and never fails the calling request.
func LogAuditEvent(event AuditEvent) {
	GetLogger().Info("audit",
		zap.String("event", string(event.EventType)),
		zap.String("doctor_id", sanitizeLogValue(event.DoctorID)),
		zap.String("email", sanitizeLogValue(event.Email)),
		zap.String("ip", sanitizeLogValue(event.IP)),
		zap.String("user_agent", sanitizeLogValue(event.UserAgent)),
		zap.String("message", sanitizeLogValue(event.Message)),
		zap.Int("details_count", len(event.Details)),
	)

	if auditDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	entry := model.AuditLog{
		EventType: string(event.EventType),
		DoctorID:  sanitizeLogValue(event.DoctorID),
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}
	if err := auditDB.Create(&entry).Error; err != nil {
		GetLogger().Warn("failed to persist audit event", zap.Error(err))
	}
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(doctorID, email, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginSuccess,
		DoctorID:  doctorID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Doctor logged in successfully",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

// LogLogout logs a logout event
func LogLogout(doctorID, email, ip, userAgent string) {
	LogAuditEvent(AuditEvent{
		EventType: EventLogout,
		DoctorID:  doctorID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "Doctor logged out",
	})
}

// LogRecordChange logs a create, update or delete of a resource record.
func LogRecordChange(eventType AuditEventType, resource, recordID, ip string) {
	LogAuditEvent(AuditEvent{
		EventType: eventType,
		IP:        ip,
		Message:   fmt.Sprintf("%s %s", resource, recordID),
		Details:   map[string]interface{}{"resource": resource, "record_id": recordID},
	})
}

// LogUnauthorizedAccess logs unauthorized access attempts
func LogUnauthorizedAccess(ip, resource, reason string) {
	LogAuditEvent(AuditEvent{
		EventType: EventUnauthorizedAccess,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogAuditEvent(AuditEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}
