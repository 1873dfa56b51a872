// Package source открывает аудиоисточники по их адресу
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hazadus/go-playdeck/internal/streaming"
)

// bufferSize размер буфера для сетевых потоков
const bufferSize = 256 * 1024

// ErrUnsupportedScheme возвращается для неизвестных схем адреса
var ErrUnsupportedScheme = errors.New("неподдерживаемая схема источника")

// Presigner подписывает s3-ссылки
type Presigner interface {
	Presign(uri string) (string, error)
}

// Opener открывает локальные файлы, HTTP(S)-адреса и ссылки s3://
type Opener struct {
	presigner Presigner // nil, если S3 не настроен
}

// NewOpener создает Opener. presigner может быть nil
func NewOpener(presigner Presigner) *Opener {
	return &Opener{presigner: presigner}
}

// Open открывает источник для чтения
func (o *Opener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	resolved, err := o.Resolve(src)
	if err != nil {
		return nil, err
	}

	if isRemote(resolved) {
		reader, err := streaming.NewReader(ctx, resolved, bufferSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия потока %s: %w", src, err)
		}
		return reader, nil
	}

	file, err := os.Open(localPath(resolved))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return file, nil
}

// Resolve превращает адрес источника в путь или HTTP(S)-адрес
func (o *Opener) Resolve(src string) (string, error) {
	if src == "" {
		return "", fmt.Errorf("%w: пустой адрес", ErrUnsupportedScheme)
	}

	scheme := ""
	if parsed, err := url.Parse(src); err == nil {
		scheme = strings.ToLower(parsed.Scheme)
	}

	switch scheme {
	case "", "file", "http", "https":
		return src, nil
	case "s3":
		if o.presigner == nil {
			return "", fmt.Errorf("ссылка %s требует настроенного S3", src)
		}
		return o.presigner.Presign(src)
	default:
		// Пути Windows вида C:\music разбираются как схема из одной буквы
		if len(scheme) == 1 {
			return src, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func localPath(src string) string {
	if strings.HasPrefix(src, "file://") {
		if parsed, err := url.Parse(src); err == nil {
			return parsed.Path
		}
	}
	return src
}
