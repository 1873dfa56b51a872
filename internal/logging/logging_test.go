package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" Error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, ожидалось %v", test.input, got, test.expected)
		}
	}
}

func TestSetupWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "playdeck.log")

	logger, closer, err := Setup(path, "debug")
	if err != nil {
		t.Fatalf("ошибка настройки логгера: %v", err)
	}
	logger.Debug("проверка", "song_id", "a")
	if err := closer.Close(); err != nil {
		t.Fatalf("ошибка закрытия: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ошибка чтения лога: %v", err)
	}
	if !strings.Contains(string(content), `"song_id":"a"`) {
		t.Errorf("в логе нет ожидаемого поля: %s", content)
	}
}
