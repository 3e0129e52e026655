package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "http.log")

	l := logger.New(logger.Options{File: logPath})
	// пишем лог
	l.Info("test message")
	// закрываем буферы zap
	_ = l.Sync()

	// проверяем, что файл создан
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist at %q, got error: %v", logPath, err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if len(s) == 0 {
		t.Fatalf("expected non-empty log file")
	}
	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "http.log")

	l := logger.New(logger.Options{File: logPath})
	l.LogRequest("DELETE", "/users/7", 204, 0, 12.5, "req-1")
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"method", "DELETE",
		"uri", "/users/7",
		"status", "204",
		"response_size",
		"duration_ms",
		"request_id", "req-1",
	}
	for _, sub := range mustContain {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestNew_JSONFormat_RespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "http.log")

	l := logger.New(logger.Options{File: logPath, Format: "json", Level: "warn"})
	l.Info("hidden info")
	l.Warn("visible warn")
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if regexp.MustCompile(`hidden info`).MatchString(s) {
		t.Fatalf("info message must be filtered at warn level, got: %q", s)
	}
	if !regexp.MustCompile(`"msg":"visible warn"`).MatchString(s) {
		t.Fatalf("expected json encoded warn message, got: %q", s)
	}
}
