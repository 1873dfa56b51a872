package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hazadus/go-playdeck/internal/config"
	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/logging"
	"github.com/hazadus/go-playdeck/internal/s3"
	"github.com/hazadus/go-playdeck/internal/source"
	"github.com/hazadus/go-playdeck/internal/storage"
)

// Application хранит зависимости, общие для всех команд
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   storage.KV
	Library *data.Library

	closers []io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &Application{}
	rootCmd := app.createRootCommand(ctx)

	err := rootCmd.ExecuteContext(ctx)
	app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// Init загружает конфигурацию, открывает лог, хранилище и библиотеку
func (app *Application) Init(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.Config = cfg

	logger, logCloser, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("ошибка настройки логирования: %w", err)
	}
	app.Logger = logger
	app.closers = append(app.closers, logCloser)

	if err := os.MkdirAll(filepath.Dir(cfg.StateFile), 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога состояния: %w", err)
	}
	store, err := storage.OpenBolt(cfg.StateFile)
	if err != nil {
		return err
	}
	app.Store = store
	app.closers = append(app.closers, store)

	lib, err := data.LoadLibrary(cfg.LibraryFile)
	if err != nil {
		return err
	}
	app.Library = lib

	logger.Info("приложение запущено", "library", cfg.LibraryFile, "songs", len(lib.Songs))
	return nil
}

// Close освобождает ресурсы в обратном порядке
func (app *Application) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("ошибка закрытия ресурса", "error", err)
		}
	}
	app.closers = nil
}

// SaveLibrary сохраняет библиотеку в файл из конфигурации
func (app *Application) SaveLibrary() error {
	return app.Library.SaveLibrary(app.Config.LibraryFile)
}

// newOpener создает Opener. S3 подключается, только если заданы ключи
func (app *Application) newOpener() *source.Opener {
	if !app.Config.S3Enabled() {
		return source.NewOpener(nil)
	}

	presigner, err := s3.NewPresigner(app.s3Config())
	if err != nil {
		app.Logger.Warn("S3 недоступен, ссылки s3:// открываться не будут", "error", err)
		return source.NewOpener(nil)
	}
	return source.NewOpener(presigner)
}

func (app *Application) s3Config() *s3.Config {
	return &s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
		TTL:        app.Config.PresignTTL,
	}
}

// localFiles превращает аргументы командной строки в локальные файлы
func localFiles(paths []string) ([]data.LocalFile, error) {
	files := make([]data.LocalFile, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("файл не найден: %s", p)
		}
		if info.IsDir() {
			return nil, errors.New("ожидался файл, а не каталог: " + p)
		}
		files = append(files, data.LocalFile{Name: filepath.Base(abs), Src: abs})
	}
	return files, nil
}
