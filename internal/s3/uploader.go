package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrNoBucket возвращается, если бакет для загрузки не задан
var ErrNoBucket = errors.New("не указан бакет S3")

// uploadAPI часть s3manager.Uploader, нужная для загрузки
type uploadAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Uploader загружает файлы в бакет из конфигурации
type Uploader struct {
	api    uploadAPI
	config *Config
}

// NewUploader создает новый S3 uploader
func NewUploader(config *Config) (*Uploader, error) {
	if config.BucketName == "" {
		return nil, ErrNoBucket
	}
	sess, err := newSession(config)
	if err != nil {
		return nil, err
	}
	return &Uploader{api: s3manager.NewUploader(sess), config: config}, nil
}

// Upload загружает содержимое reader под ключом key и возвращает ссылку s3://bucket/key
func (u *Uploader) Upload(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := u.api.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}
	return URI(u.config.BucketName, key), nil
}

// URI собирает ссылку s3://bucket/key
func URI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}
