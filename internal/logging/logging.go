// Package logging настраивает структурированный логгер приложения
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup создает JSON-логгер, пишущий в файл.
// Терминал занят интерфейсом, поэтому в stdout логи не выводятся
func Setup(filePath, level string) (*slog.Logger, io.Closer, error) {
	path := filePath
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка получения домашней директории: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("ошибка создания директории логов: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler), logFile, nil
}

// ParseLevel переводит строковый уровень в slog.Level, по умолчанию INFO
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Null возвращает логгер, отбрасывающий все записи
func Null() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
