package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/deck"
	"github.com/hazadus/go-playdeck/internal/durations"
	"github.com/hazadus/go-playdeck/internal/favorites"
	"github.com/hazadus/go-playdeck/internal/logging"
	"github.com/hazadus/go-playdeck/internal/playback"
	"github.com/hazadus/go-playdeck/internal/playback/mock"
	"github.com/hazadus/go-playdeck/internal/render"
	"github.com/hazadus/go-playdeck/internal/storage"
	"github.com/hazadus/go-playdeck/internal/theme"
	"github.com/hazadus/go-playdeck/internal/tui/tracklist"
)

type noProber struct{}

func (noProber) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return 42 * time.Second, nil
}

func newTestModel(t *testing.T) (*MainModel, *mock.Primitive, *storage.MemoryStore) {
	t.Helper()

	kv := storage.NewMemoryStore()
	prim := mock.New()
	ctl := deck.New(deck.Deps{
		Playlist: data.NewPlaylist([]data.Song{
			{ID: "a", Title: "Группа крови", Artist: "Кино", Src: "a.mp3"},
			{ID: "b", Title: "Hey Jude", Artist: "The Beatles", Src: "b.mp3"},
			{ID: "c", Title: "Звезда по имени Солнце", Artist: "Кино", Src: "c.mp3"},
		}),
		Favorites: favorites.Load(kv, logging.Null()),
		Durations: durations.New(noProber{}, 2, logging.Null()),
		Primitive: prim,
		Logger:    logging.Null(),
	})

	m := NewMainModel(context.Background(), Options{
		Controller: ctl,
		Events:     prim.Events(),
		Store:      kv,
		Theme:      theme.Light,
		Logger:     logging.Null(),
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, prim, kv
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// play выбирает песню под курсором и выполняет цепочку команд до startMsg
func play(t *testing.T, m *MainModel) {
	t.Helper()

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("Enter должен создавать команду")
	}
	intent, ok := cmd().(tracklist.IntentMsg)
	if !ok {
		t.Fatal("ожидалось IntentMsg")
	}
	_, cmd = m.Update(intent)
	if cmd == nil {
		t.Fatal("действие play должно создавать задачу запуска")
	}
	m.Update(cmd())
}

func TestPlayFromList(t *testing.T) {
	m, prim, _ := newTestModel(t)

	m.Update(key("down"))
	play(t, m)

	if m.ctl.ActiveID() != "b" {
		t.Fatalf("ожидалась активная песня b, получено %q", m.ctl.ActiveID())
	}
	if prim.Source() != "b.mp3" {
		t.Errorf("ожидался источник b.mp3, получено %q", prim.Source())
	}
	if !strings.Contains(m.View(), "Воспроизведение: Hey Jude") {
		t.Error("в статусе должно быть название песни")
	}
}

func TestTransportKeys(t *testing.T) {
	m, prim, _ := newTestModel(t)
	play(t, m)

	m.Update(key("p"))
	if m.ctl.State() != deck.LoadedPaused {
		t.Errorf("p должна ставить на паузу, состояние %s", m.ctl.State())
	}

	_, cmd := m.Update(key("n"))
	if cmd == nil {
		t.Fatal("n должна создавать задачу запуска")
	}
	m.Update(cmd())
	if m.ctl.ActiveID() != "b" {
		t.Errorf("n должна переходить к b, получено %q", m.ctl.ActiveID())
	}

	m.Update(key("m"))
	if !prim.Muted() {
		t.Error("m должна отключать звук")
	}

	m.Update(key("-"))
	if v := prim.Volume(); v < 0.89 || v > 0.91 {
		t.Errorf("громкость должна уменьшиться до 0.9, получено %v", v)
	}
}

func TestEndedEventAdvances(t *testing.T) {
	m, prim, _ := newTestModel(t)
	play(t, m)

	_, cmd := m.Update(eventMsg{event: prim.End()})
	if cmd == nil {
		t.Fatal("конец трека должен запускать следующую песню")
	}
	if m.ctl.ActiveID() != "b" {
		t.Errorf("после конца a должна стать активной b, получено %q", m.ctl.ActiveID())
	}
}

func TestPositionEventUpdatesTime(t *testing.T) {
	m, prim, _ := newTestModel(t)
	prim.Durations["a.mp3"] = 100 * time.Second
	play(t, m)

	m.Update(eventMsg{event: playback.Event{Kind: playback.EventMetadata, Gen: prim.Generation(), Duration: 100 * time.Second}})
	m.Update(eventMsg{event: prim.Tick(30 * time.Second)})

	if !strings.Contains(m.View(), "0:30 / 1:40") {
		t.Errorf("в панели должно быть время 0:30 / 1:40: %q", m.View())
	}
}

func TestSearchMode(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(key("/"))
	if m.mode != searchMode {
		t.Fatal("/ должна включать режим поиска")
	}
	for _, r := range "кино" {
		m.Update(key(string(r)))
	}

	if m.ctl.Filter().Query != "кино" {
		t.Errorf("запрос должен обновляться при вводе, получено %q", m.ctl.Filter().Query)
	}
	if n := m.tracklistModel.Len(); n != 2 {
		t.Errorf("ожидалось 2 песни группы Кино, получено %d", n)
	}

	m.Update(key("enter"))
	if m.mode != browseMode {
		t.Error("Enter должен выходить из режима поиска")
	}

	m.Update(key("esc"))
	if m.ctl.Filter().Query != "" || m.tracklistModel.Len() != 3 {
		t.Error("Esc в режиме просмотра должен сбрасывать запрос")
	}
}

func TestFavoritesTab(t *testing.T) {
	m, _, kv := newTestModel(t)

	m.Update(key("tab"))
	if !m.ctl.Filter().FavoritesOnly {
		t.Fatal("Tab должен включать вкладку избранного")
	}
	if !strings.Contains(m.View(), render.PlaceholderFavorites) {
		t.Error("пустое избранное должно показывать заглушку")
	}

	m.Update(key("tab"))
	_, cmd := m.Update(key("f"))
	m.Update(cmd())

	if raw, ok, _ := kv.Get(favorites.Key); !ok || !strings.Contains(raw, "a") {
		t.Errorf("избранное должно сохраниться, получено %q", raw)
	}

	m.Update(key("tab"))
	if m.tracklistModel.Len() != 1 {
		t.Errorf("во вкладке избранного ожидалась 1 песня, получено %d", m.tracklistModel.Len())
	}
}

func TestThemeToggle(t *testing.T) {
	m, _, kv := newTestModel(t)

	m.Update(key("t"))

	if m.Theme() != theme.Dark {
		t.Errorf("ожидалась темная тема, получено %s", m.Theme())
	}
	if theme.Load(kv) != theme.Dark {
		t.Error("тема должна сохраняться сразу")
	}
	if m.styles.Theme != theme.Dark {
		t.Error("стили должны переключиться на темную палитру")
	}
}

func TestAddFiles(t *testing.T) {
	m, _, _ := newTestModel(t)

	dir := t.TempDir()
	for _, name := range []string{"one.mp3", "two.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Ошибка создания файла: %v", err)
		}
	}

	m.Update(key("a"))
	if m.mode != addFilesMode {
		t.Fatal("a должна открывать ввод файлов")
	}
	m.addInput.SetValue(filepath.Join(dir, "*.mp3"))
	_, cmd := m.Update(key("enter"))

	songs := m.ctl.Playlist().Songs()
	if len(songs) != 5 || songs[0].Title != "one" || songs[1].Title != "two" {
		t.Fatalf("локальные файлы должны оказаться в начале: %+v", songs)
	}
	if !songs[0].IsLocal {
		t.Error("добавленная песня должна быть помечена как локальная")
	}
	if cmd == nil {
		t.Error("для новых песен должны запускаться пробы длительности")
	}
}

func TestAddFilesNotFound(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(key("a"))
	m.addInput.SetValue(filepath.Join(t.TempDir(), "*.mp3"))
	m.Update(key("enter"))

	if m.ctl.Playlist().Len() != 3 {
		t.Error("плейлист не должен меняться, если файлы не найдены")
	}
	if !strings.Contains(m.ctl.Status(), "не найдены") {
		t.Errorf("ожидался статус об ошибке, получено %q", m.ctl.Status())
	}
}

func TestDurationMsgRefreshesList(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(durationMsg{result: durations.Result{SongID: "a", Duration: 65 * time.Second}})

	if row, _ := m.tracklistModel.Selected(); row.Duration != "1:05" {
		t.Errorf("ожидалась длительность 1:05, получено %s", row.Duration)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s: ожидалась команда выхода", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: ожидался tea.QuitMsg", k)
		}
	}
}

func TestIgnoresStaleEvent(t *testing.T) {
	m, prim, _ := newTestModel(t)
	play(t, m)

	stale := playback.Event{Kind: playback.EventEnded, Gen: prim.Generation() + 5}
	m.Update(eventMsg{event: stale})

	if m.ctl.ActiveID() != "a" {
		t.Errorf("событие чужого поколения не должно менять песню, получено %q", m.ctl.ActiveID())
	}
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Ошибка создания файла: %v", err)
	}

	files, err := ExpandFiles(path + " ; " + path)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if len(files) != 1 || files[0].Name != "song.mp3" {
		t.Errorf("ожидался один файл song.mp3, получено %+v", files)
	}

	if _, err := ExpandFiles("   "); err == nil {
		t.Error("пустой ввод должен давать ошибку")
	}
}
