package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/metadata"
	"github.com/hazadus/go-playdeck/internal/s3"
	"github.com/hazadus/go-playdeck/internal/uploader"
)

// errS3Disabled возвращается при --upload без ключей S3 в конфигурации
var errS3Disabled = errors.New("загрузка невозможна: в конфигурации не заданы параметры S3")

// createImportCommand создает команду import
func (app *Application) createImportCommand(ctx context.Context) *cobra.Command {
	var upload bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Add mp3 files to the library",
		Long: `Read title and artist from the mp3 tags (or the file name) and add the files to the library permanently.
With --upload the files are first copied to the configured S3 bucket and played from there.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if upload {
				return app.uploadFiles(ctx, args)
			}
			return app.importFiles(args)
		},
	}
	cmd.Flags().BoolVarP(&upload, "upload", "u", false, "upload files to S3 before adding them")
	return cmd
}

func (app *Application) importFiles(paths []string) error {
	files, err := localFiles(paths)
	if err != nil {
		return err
	}

	extractor := metadata.NewExtractor(app.newOpener())
	for _, f := range files {
		meta := extractor.ExtractFromFile(f.Src)
		song := app.Library.AddSong(data.Song{
			Title:  meta.Title,
			Artist: meta.Artist,
			Src:    f.Src,
		})
		fmt.Printf("➕ %s - %s (%s)\n", song.Artist, song.Title, song.ID)
	}

	if err := app.SaveLibrary(); err != nil {
		return fmt.Errorf("ошибка сохранения библиотеки: %w", err)
	}
	fmt.Printf("✅ Добавлено песен: %d\n", len(files))
	return nil
}

func (app *Application) uploadFiles(ctx context.Context, paths []string) error {
	if !app.Config.S3Enabled() {
		return errS3Disabled
	}
	files, err := localFiles(paths)
	if err != nil {
		return err
	}

	s3Uploader, err := s3.NewUploader(app.s3Config())
	if err != nil {
		return fmt.Errorf("ошибка создания S3 uploader: %w", err)
	}
	return app.uploadWith(ctx, uploader.NewService(s3Uploader, metadata.NewExtractor(app.newOpener())), files)
}

// uploadWith загружает файлы через сервис и добавляет их в библиотеку.
// Песни, загруженные до ошибки, сохраняются
func (app *Application) uploadWith(ctx context.Context, service *uploader.Service, files []data.LocalFile) error {
	added := 0
	var uploadErr error
	for _, f := range files {
		song, err := service.Upload(ctx, f.Src, func(done, total int64) {
			fmt.Printf("\r⬆️  %s: %s / %s", f.Name, uploader.FormatFileSize(done), uploader.FormatFileSize(total))
		})
		fmt.Println()
		if err != nil {
			app.Logger.Error("ошибка загрузки файла", "file", f.Src, "error", err)
			uploadErr = err
			break
		}
		song = app.Library.AddSong(song)
		added++
		fmt.Printf("☁️  %s - %s (%s)\n", song.Artist, song.Title, song.Src)
	}

	if added > 0 {
		if err := app.SaveLibrary(); err != nil {
			return fmt.Errorf("ошибка сохранения библиотеки: %w", err)
		}
	}
	fmt.Printf("✅ Загружено песен: %d\n", added)
	return uploadErr
}
