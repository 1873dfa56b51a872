// Package uploader загружает локальные mp3 в S3 и превращает их в песни библиотеки
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/metadata"
)

// Uploader загружает содержимое под ключом и возвращает ссылку на объект
type Uploader interface {
	Upload(ctx context.Context, reader io.Reader, key string) (string, error)
}

// Service управляет процессом загрузки файлов
type Service struct {
	uploader  Uploader
	extractor *metadata.Extractor
}

// NewService создает новый сервис загрузки
func NewService(uploader Uploader, extractor *metadata.Extractor) *Service {
	return &Service{uploader: uploader, extractor: extractor}
}

// Upload загружает файл и возвращает песню, источником которой стал объект в S3.
// Идентификатор песни назначает библиотека при добавлении
func (s *Service) Upload(ctx context.Context, filePath string, onProgress func(done, total int64)) (data.Song, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return data.Song{}, fmt.Errorf("файл не найден: %s", filePath)
	}

	meta := s.extractor.ExtractFromFile(filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return data.Song{}, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if onProgress != nil {
		reader = &ProgressReader{Reader: file, Size: info.Size(), OnProgress: onProgress}
	}

	uri, err := s.uploader.Upload(ctx, reader, filepath.Base(filePath))
	if err != nil {
		return data.Song{}, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	return data.Song{Title: meta.Title, Artist: meta.Artist, Src: uri}, nil
}

// ProgressReader сообщает, сколько байт прочитано
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(done, total int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead, pr.Size)
	}
	return n, err
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
