package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// observeLogs swaps the process logger for an observer and restores it afterwards.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := GetLogger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "removes newlines", input: "hello\nworld", expected: "hello world"},
		{name: "removes carriage returns", input: "hello\rworld", expected: "hello world"},
		{name: "removes tabs", input: "hello\tworld", expected: "hello world"},
		{name: "keeps plain text", input: "plain", expected: "plain"},
		{name: "truncates long values", input: strings.Repeat("a", 250), expected: strings.Repeat("a", 200) + "..."},
		{name: "truncates on a rune boundary", input: "a" + strings.Repeat("é", 150), expected: "a" + strings.Repeat("é", 99) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLogValue(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestLogLoginFailure_WritesStructuredEntry(t *testing.T) {
	logs := observeLogs(t)

	LogLoginFailure("doc@example.com", "10.0.0.1", "curl/8.0", "invalid\npassword")

	entries := logs.FilterMessage("audit").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, string(EventLoginFailure), fields["event"])
		assert.Equal(t, "doc@example.com", fields["email"])
		assert.Equal(t, "Login failed: invalid password", fields["message"])
	}
}

func TestLogAuditEvent_PersistsToDB(t *testing.T) {
	observeLogs(t)

	db, err := gorm.Open(sqlite.Open("file:audit_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	SetAuditLoggerDB(db)
	t.Cleanup(func() { SetAuditLoggerDB(nil) })

	LogRecordChange(EventRecordDeleted, "disorder", "abc-123", "127.0.0.1")

	var entry model.AuditLog
	assert.NoError(t, db.Last(&entry).Error)
	assert.Equal(t, string(EventRecordDeleted), entry.EventType)
	assert.Equal(t, "disorder abc-123", entry.Message)
	assert.Contains(t, string(entry.Details), `"record_id":"abc-123"`)
}

func TestLogAuditEvent_WithoutDB(t *testing.T) {
	logs := observeLogs(t)
	SetAuditLoggerDB(nil)

	LogLogout("doc-1", "doc@example.com", "127.0.0.1", "test")
	assert.Equal(t, 1, logs.FilterMessage("audit").Len())
}
