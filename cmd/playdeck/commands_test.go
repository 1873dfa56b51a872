package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/go-playdeck/internal/config"
	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/favorites"
	"github.com/hazadus/go-playdeck/internal/logging"
	"github.com/hazadus/go-playdeck/internal/metadata"
	"github.com/hazadus/go-playdeck/internal/source"
	"github.com/hazadus/go-playdeck/internal/storage"
	"github.com/hazadus/go-playdeck/internal/theme"
	"github.com/hazadus/go-playdeck/internal/uploader"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	os.Stdout = w
	os.Stderr = w

	fn()

	os.Stdout = oldStdout
	os.Stderr = oldStderr
	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}
	return buf.String()
}

// createTestApplication создает приложение без файлов состояния и лога
func createTestApplication(t *testing.T, tempDir string) *Application {
	t.Helper()

	return &Application{
		Config: &config.Config{
			LibraryFile:      filepath.Join(tempDir, "library.yaml"),
			StateFile:        filepath.Join(tempDir, "state.db"),
			Volume:           1,
			ProbeConcurrency: 2,
		},
		Logger:  logging.Null(),
		Store:   storage.NewMemoryStore(),
		Library: &data.Library{Songs: make([]data.Song, 0)},
	}
}

// TestCmdList проверяет, что команда `list` выводит песни библиотеки
func TestCmdList(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	app.Library.Songs = []data.Song{
		{ID: "s1", Title: "Группа крови", Artist: "Кино", Src: "/non/existent/1.mp3"},
		{ID: "s2", Title: "Hey Jude", Artist: "The Beatles", Src: "/non/existent/2.mp3"},
	}

	listCmd := app.createListCommand(context.Background())

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	expectedStrings := []string{
		"📚 Найдено песен: 2",
		"Группа крови",
		"The Beatles",
		"--:--",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды list не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdListFilters проверяет флаги --query и --favorites
func TestCmdListFilters(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	app.Library.Songs = []data.Song{
		{ID: "s1", Title: "Группа крови", Artist: "Кино"},
		{ID: "s2", Title: "Hey Jude", Artist: "The Beatles"},
	}

	output := captureOutput(t, func() {
		listCmd := app.createListCommand(context.Background())
		listCmd.SetArgs([]string{"--query", "КИНО", "--no-probe"})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})
	if !strings.Contains(output, "Группа крови") || strings.Contains(output, "Hey Jude") {
		t.Errorf("Фильтр по запросу работает неверно: %s", output)
	}

	output = captureOutput(t, func() {
		listCmd := app.createListCommand(context.Background())
		listCmd.SetArgs([]string{"--favorites", "--no-probe"})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})
	if !strings.Contains(output, "Избранных песен нет") {
		t.Errorf("Для пустого избранного ожидалась заглушка: %s", output)
	}
}

// TestCmdListEmpty проверяет, что команда `list` корректно обрабатывает пустую библиотеку
func TestCmdListEmpty(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	listCmd := app.createListCommand(context.Background())
	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	if !strings.Contains(output, "📚 Библиотека пуста") {
		t.Errorf("Команда list не отобразила сообщение о пустой библиотеке: %s", output)
	}
}

// TestCmdFavoritesToggle проверяет добавление и удаление из избранного
func TestCmdFavoritesToggle(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	app.Library.Songs = []data.Song{{ID: "s1", Title: "Hey Jude", Artist: "The Beatles"}}

	output := captureOutput(t, func() {
		cmd := app.createFavoritesCommand()
		cmd.SetArgs([]string{"toggle", "s1"})
		if err := cmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды favorites toggle: %v", err)
		}
	})
	if !strings.Contains(output, "Добавлено в избранное") {
		t.Errorf("Неожиданный вывод: %s", output)
	}
	if !favorites.Load(app.Store, app.Logger).IsFavorite("s1") {
		t.Error("Песня должна оказаться в избранном")
	}

	output = captureOutput(t, func() {
		cmd := app.createFavoritesCommand()
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды favorites: %v", err)
		}
	})
	if !strings.Contains(output, "The Beatles - Hey Jude") {
		t.Errorf("Список избранного не содержит песню: %s", output)
	}
}

// TestCmdFavoritesUnknownSong проверяет обработку неизвестного ID
func TestCmdFavoritesUnknownSong(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	cmd := app.createFavoritesCommand()
	cmd.SetArgs([]string{"toggle", "missing"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if !errors.Is(err, data.ErrSongNotFound) {
		t.Errorf("Ожидалась ошибка ErrSongNotFound, получено: %v", err)
	}
}

// TestCmdTheme проверяет переключение темы
func TestCmdTheme(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	output := captureOutput(t, func() {
		cmd := app.createThemeCommand()
		cmd.SetArgs([]string{"toggle"})
		if err := cmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды theme toggle: %v", err)
		}
	})

	if !strings.Contains(output, "dark") {
		t.Errorf("Ожидалась темная тема в выводе: %s", output)
	}
	if theme.Load(app.Store) != theme.Dark {
		t.Error("Тема должна сохраниться в хранилище")
	}
}

// TestCmdImport проверяет добавление файлов в библиотеку
func TestCmdImport(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	songPath := filepath.Join(tempDir, "Кино - Кукушка.mp3")
	if err := os.WriteFile(songPath, []byte("fake content"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	output := captureOutput(t, func() {
		cmd := app.createImportCommand(context.Background())
		cmd.SetArgs([]string{songPath})
		if err := cmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды import: %v", err)
		}
	})

	if !strings.Contains(output, "Кино - Кукушка") {
		t.Errorf("Неожиданный вывод команды import: %s", output)
	}

	lib, err := data.LoadLibrary(app.Config.LibraryFile)
	if err != nil {
		t.Fatalf("Ошибка загрузки библиотеки: %v", err)
	}
	if len(lib.Songs) != 1 || lib.Songs[0].Title != "Кукушка" || lib.Songs[0].Artist != "Кино" {
		t.Errorf("Библиотека сохранена неверно: %+v", lib.Songs)
	}
}

// TestCmdImportMissingFile проверяет ошибку для несуществующего файла
func TestCmdImportMissingFile(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	cmd := app.createImportCommand(context.Background())
	cmd.SetArgs([]string{"/non/existent.mp3"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); err == nil {
		t.Error("Ожидалась ошибка для несуществующего файла")
	}
	if len(app.Library.Songs) != 0 {
		t.Error("Библиотека не должна меняться")
	}
}

type fakeS3 struct {
	failOn string
}

func (f *fakeS3) Upload(_ context.Context, reader io.Reader, key string) (string, error) {
	if key == f.failOn {
		return "", errors.New("нет сети")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return "s3://music/" + key, nil
}

// TestCmdImportUploadWithoutS3 проверяет, что --upload требует настроек S3
func TestCmdImportUploadWithoutS3(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)
	songPath := filepath.Join(tempDir, "a.mp3")
	if err := os.WriteFile(songPath, []byte("x"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	cmd := app.createImportCommand(context.Background())
	cmd.SetArgs([]string{"--upload", songPath})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); !errors.Is(err, errS3Disabled) {
		t.Errorf("Ожидалась errS3Disabled, получено %v", err)
	}
}

// TestUploadWithKeepsUploadedSongs проверяет, что песни до ошибки сохраняются
func TestUploadWithKeepsUploadedSongs(t *testing.T) {
	tempDir := t.TempDir()
	app := createTestApplication(t, tempDir)

	var paths []string
	for _, name := range []string{"Кино - Звезда.mp3", "broken.mp3"} {
		p := filepath.Join(tempDir, name)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("Ошибка создания тестового файла: %v", err)
		}
		paths = append(paths, p)
	}
	files, err := localFiles(paths)
	if err != nil {
		t.Fatalf("Ошибка разбора файлов: %v", err)
	}

	service := uploader.NewService(&fakeS3{failOn: "broken.mp3"}, metadata.NewExtractor(source.NewOpener(nil)))
	var uploadErr error
	captureOutput(t, func() {
		uploadErr = app.uploadWith(context.Background(), service, files)
	})
	if uploadErr == nil {
		t.Error("Ожидалась ошибка загрузки второго файла")
	}

	lib, err := data.LoadLibrary(app.Config.LibraryFile)
	if err != nil {
		t.Fatalf("Ошибка загрузки библиотеки: %v", err)
	}
	if len(lib.Songs) != 1 || lib.Songs[0].Src != "s3://music/Кино - Звезда.mp3" || lib.Songs[0].Title != "Звезда" {
		t.Errorf("Библиотека сохранена неверно: %+v", lib.Songs)
	}
}

// TestApplicationInit проверяет загрузку конфигурации и открытие хранилища
func TestApplicationInit(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	content := "state_file: " + filepath.Join(tempDir, "state.db") + "\n" +
		"library_file: " + filepath.Join(tempDir, "library.yaml") + "\n" +
		"log_file: " + filepath.Join(tempDir, "playdeck.log") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи конфигурации: %v", err)
	}

	app := &Application{}
	if err := app.Init(configPath); err != nil {
		t.Fatalf("Ошибка инициализации: %v", err)
	}
	defer app.Close()

	if app.Store == nil || app.Library == nil || app.Logger == nil {
		t.Fatal("Зависимости приложения должны быть созданы")
	}
	if err := app.Store.Set(theme.Key, string(theme.Dark)); err != nil {
		t.Errorf("Хранилище должно быть доступно для записи: %v", err)
	}
}

// TestLocalFiles проверяет разбор аргументов команды tui
func TestLocalFiles(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "song.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}

	files, err := localFiles([]string{path})
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if len(files) != 1 || files[0].Name != "song.mp3" || files[0].Src != path {
		t.Errorf("Неожиданный результат: %+v", files)
	}

	if _, err := localFiles([]string{tempDir}); err == nil {
		t.Error("Каталог не должен приниматься как файл")
	}
}
