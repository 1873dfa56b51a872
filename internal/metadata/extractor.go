// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// ErrUnknownDuration возвращается, если длительность источника определить нельзя
var ErrUnknownDuration = errors.New("длительность неизвестна")

// TrackMetadata хранит метаданные трека
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
}

// Opener открывает источник по адресу
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// Extractor извлекает метаданные и длительность аудио
type Extractor struct {
	opener Opener
}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor(opener Opener) *Extractor {
	return &Extractor{opener: opener}
}

// ExtractFromReader извлекает теги из io.ReadSeeker.
// Если тегов нет, название и исполнитель берутся из имени файла
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) TrackMetadata {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return defaultMetadata(source)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return defaultMetadata(source)
	}

	result := TrackMetadata{
		Artist: strings.TrimSpace(metadata.Artist()),
		Title:  strings.TrimSpace(metadata.Title()),
		Album:  strings.TrimSpace(metadata.Album()),
	}

	// Пустые теги дополняем из имени файла
	fallback := defaultMetadata(source)
	if result.Title == "" {
		result.Title = fallback.Title
	}
	if result.Artist == "" {
		result.Artist = fallback.Artist
	}
	return result
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		return defaultMetadata(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// ProbeDuration определяет длительность источника, читая только заголовки MP3 кадров
func (e *Extractor) ProbeDuration(ctx context.Context, src string) (time.Duration, error) {
	reader, err := e.opener.Open(ctx, src)
	if err != nil {
		return 0, err
	}

	streamer, format, err := mp3.Decode(reader)
	if err != nil {
		reader.Close()
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	// Закрывает и исходный reader
	defer streamer.Close()

	// Для потоков без перемотки длина неизвестна
	if streamer.Len() <= 0 {
		return 0, ErrUnknownDuration
	}
	return format.SampleRate.D(streamer.Len()), nil
}

// defaultMetadata возвращает метаданные по умолчанию на основе имени файла
func defaultMetadata(source string) TrackMetadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	// Пытаемся разобрать имя файла в формате "Artist - Title"
	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return TrackMetadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return TrackMetadata{
		Artist: "Неизвестный исполнитель",
		Title:  nameWithoutExt,
	}
}
