// Package s3 превращает ссылки s3://bucket/key в подписанные HTTPS-адреса
package s3

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// DefaultTTL время жизни подписанной ссылки по умолчанию
const DefaultTTL = 15 * time.Minute

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string        // Бакет для ссылок вида s3:///key
	TTL        time.Duration // Время жизни подписанной ссылки
}

// Presigner подписывает ссылки на объекты S3
type Presigner struct {
	client *s3.S3
	config *Config
}

// NewPresigner создает подписчик ссылок
func NewPresigner(config *Config) (*Presigner, error) {
	sess, err := newSession(config)
	if err != nil {
		return nil, err
	}

	return &Presigner{
		client: s3.New(sess),
		config: config,
	}, nil
}

func newSession(config *Config) (*session.Session, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Для S3-совместимых хранилищ используем path-style адреса
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}
	return sess, nil
}

// ParseURI разбирает ссылку s3://bucket/key
func ParseURI(uri, defaultBucket string) (bucket, key string, err error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("неверная ссылка S3: %w", err)
	}
	if parsed.Scheme != "s3" {
		return "", "", fmt.Errorf("ожидалась схема s3, получено %q", parsed.Scheme)
	}

	bucket = parsed.Host
	if bucket == "" {
		bucket = defaultBucket
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("в ссылке %q не указан бакет или ключ", uri)
	}
	return bucket, key, nil
}

// Presign возвращает подписанный HTTPS-адрес для s3-ссылки
func (p *Presigner) Presign(uri string) (string, error) {
	bucket, key, err := ParseURI(uri, p.config.BucketName)
	if err != nil {
		return "", err
	}

	ttl := p.config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	req, _ := p.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	signed, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи ссылки: %w", err)
	}
	return signed, nil
}
