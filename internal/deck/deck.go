// Package deck содержит контроллер воспроизведения: активную песню,
// фильтр списка, избранное и реакцию на события примитива.
//
// Все методы Controller вызываются из одного цикла событий.
// Единственная работа вне цикла - задачи Start и пробы длительностей,
// результаты которых возвращаются в цикл через ApplyStart и ApplyDuration
package deck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/durations"
	"github.com/hazadus/go-playdeck/internal/favorites"
	"github.com/hazadus/go-playdeck/internal/playback"
	"github.com/hazadus/go-playdeck/internal/render"
	"github.com/hazadus/go-playdeck/internal/search"
	"github.com/hazadus/go-playdeck/internal/utils"
)

// Глифы и подписи транспорта
const (
	GlyphMuted   = "🔇"
	GlyphSound   = "🔈"
	LabelPlay    = "Воспроизвести"
	LabelPause   = "Пауза"
	zeroTimeText = "0:00"
)

// State - состояние транспорта
type State int

// Состояния транспорта
const (
	Idle State = iota
	LoadedPaused
	LoadedPlaying
)

func (s State) String() string {
	switch s {
	case LoadedPaused:
		return "paused"
	case LoadedPlaying:
		return "playing"
	default:
		return "idle"
	}
}

// Direction - направление перехода по плейлисту
type Direction int

// Направления
const (
	Forward Direction = iota
	Backward
)

// NowPlaying - отображаемое состояние текущей песни
type NowPlaying struct {
	Title    string
	Artist   string
	Favorite bool
	CurTime  string
	DurTime  string
	SeekPct  float64 // 0-100
}

// FavoriteGlyph возвращает значок избранного для текущей песни
func (n NowPlaying) FavoriteGlyph() string {
	if n.Favorite {
		return render.GlyphFavorite
	}
	return render.GlyphNotFavorite
}

// StartResult - итог задачи запуска
type StartResult struct {
	Request uint64
	SongID  string
	Title   string
	LoadErr error // Источник не удалось загрузить
	PlayErr error // Примитив отказал в запуске
	Stale   bool  // Задачу обогнал более новый запуск
}

// Start загружает источник и запускает воспроизведение вне цикла событий
type Start func() StartResult

// Deps - зависимости контроллера
type Deps struct {
	Playlist  *data.Playlist
	Favorites *favorites.Store
	Durations *durations.Cache
	Primitive playback.Primitive
	Logger    *slog.Logger
}

// Controller владеет указателем на текущую песню и управляет примитивом
type Controller struct {
	playlist  *data.Playlist
	favorites *favorites.Store
	durations *durations.Cache
	primitive playback.Primitive
	logger    *slog.Logger

	filter   search.Filter
	activeID string
	controls bool
	loaded   bool // Источник активной песни успешно загружен
	pending  bool // Есть незавершенная задача запуска
	now      NowPlaying
	status   string

	request uint64
	latest  atomic.Uint64 // Копия request для задач, работающих вне цикла
	startMu sync.Mutex    // Упорядочивает задачи запуска на примитиве
}

// New создает контроллер в состоянии Idle
func New(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		playlist:  deps.Playlist,
		favorites: deps.Favorites,
		durations: deps.Durations,
		primitive: deps.Primitive,
		logger:    logger,
		now:       NowPlaying{CurTime: zeroTimeText, DurTime: zeroTimeText},
	}
}

// ActiveID возвращает ID активной песни или пустую строку
func (c *Controller) ActiveID() string {
	return c.activeID
}

// State возвращает состояние транспорта
func (c *Controller) State() State {
	if c.activeID == "" {
		return Idle
	}
	if c.primitive.Paused() {
		return LoadedPaused
	}
	return LoadedPlaying
}

// ControlsEnabled сообщает, доступны ли кнопки транспорта
func (c *Controller) ControlsEnabled() bool {
	return c.controls
}

// Now возвращает отображаемое состояние текущей песни
func (c *Controller) Now() NowPlaying {
	return c.now
}

// Status возвращает последнее статусное сообщение
func (c *Controller) Status() string {
	return c.status
}

// SetStatus заменяет статусное сообщение
func (c *Controller) SetStatus(msg string) {
	c.status = msg
}

// Playlist возвращает плейлист
func (c *Controller) Playlist() *data.Playlist {
	return c.playlist
}

// Favorites возвращает хранилище избранного
func (c *Controller) Favorites() *favorites.Store {
	return c.favorites
}

// Filter возвращает текущий фильтр
func (c *Controller) Filter() search.Filter {
	return c.filter
}

// SetQuery меняет поисковый запрос
func (c *Controller) SetQuery(query string) {
	c.filter.Query = query
}

// SetFavoritesOnly включает или выключает вкладку избранного
func (c *Controller) SetFavoritesOnly(on bool) {
	c.filter.FavoritesOnly = on
}

// Visible возвращает песни, прошедшие фильтр, в порядке плейлиста
func (c *Controller) Visible() []data.Song {
	return search.Visible(c.playlist.Songs(), c.filter, c.favorites)
}

// Listing строит строки списка для текущего состояния
func (c *Controller) Listing() render.Listing {
	return render.Project(c.Visible(), c.activeID, c.favorites, c.durations, c.filter.FavoritesOnly)
}

// SelectAndPlay делает песню активной и возвращает задачу запуска.
// Для неизвестного ID возвращает nil и ничего не меняет
func (c *Controller) SelectAndPlay(id string) Start {
	song, ok := c.playlist.SongByID(id)
	if !ok {
		return nil
	}

	c.activeID = song.ID
	c.controls = true
	c.loaded = false
	c.pending = true
	c.now = NowPlaying{
		Title:    song.Title,
		Artist:   song.Artist,
		Favorite: c.favorites.IsFavorite(song.ID),
		CurTime:  zeroTimeText,
		DurTime:  zeroTimeText,
	}
	if d, ok := c.durations.Get(song.ID); ok {
		c.now.DurTime = utils.FormatDuration(d)
	}

	c.request++
	req := c.request
	c.latest.Store(req)
	c.logger.Info("выбрана песня", "song_id", song.ID, "title", song.Title)

	primitive := c.primitive
	return func() StartResult {
		c.startMu.Lock()
		defer c.startMu.Unlock()

		result := StartResult{Request: req, SongID: song.ID, Title: song.Title}
		if c.latest.Load() != req {
			result.Stale = true
			return result
		}
		if err := primitive.Load(song.Src); err != nil {
			result.LoadErr = err
			return result
		}
		result.PlayErr = primitive.Play()
		return result
	}
}

// ApplyStart применяет итог задачи запуска. Отказ меняет только статус:
// активная песня и доступность кнопок сохраняются
func (c *Controller) ApplyStart(r StartResult) {
	if r.Request != c.request || r.Stale {
		return
	}
	c.pending = false

	switch {
	case r.LoadErr != nil:
		c.logger.Warn("не удалось загрузить источник", "song_id", r.SongID, "error", r.LoadErr)
		c.status = fmt.Sprintf("Не удалось открыть «%s». Нажмите воспроизведение, чтобы повторить.", r.Title)
	case r.PlayErr != nil:
		c.loaded = true
		c.logger.Warn("автовоспроизведение отклонено", "song_id", r.SongID, "error", r.PlayErr)
		c.status = "Автовоспроизведение заблокировано. Нажмите воспроизведение."
	default:
		c.loaded = true
		c.status = fmt.Sprintf("Воспроизведение: %s", r.Title)
	}
}

// TogglePlayPause ставит на паузу или возобновляет активную песню.
// Если источник не загрузился, возвращает задачу повторного запуска
func (c *Controller) TogglePlayPause() Start {
	if c.activeID == "" || c.pending {
		return nil
	}
	if !c.loaded {
		return c.SelectAndPlay(c.activeID)
	}

	if !c.primitive.Paused() {
		c.primitive.Pause()
		return nil
	}
	if err := c.primitive.Play(); err != nil {
		c.logger.Warn("воспроизведение отклонено", "song_id", c.activeID, "error", err)
		c.status = "Воспроизведение заблокировано. Нажмите воспроизведение еще раз."
	}
	return nil
}

// Advance переходит к соседней песне по кругу
func (c *Controller) Advance(dir Direction) Start {
	if c.activeID == "" {
		return nil
	}

	var (
		song data.Song
		err  error
	)
	if dir == Backward {
		song, err = c.playlist.Previous(c.activeID)
	} else {
		song, err = c.playlist.Next(c.activeID)
	}
	if err != nil {
		c.logger.Warn("переход по плейлисту невозможен", "song_id", c.activeID, "error", err)
		return nil
	}
	return c.SelectAndPlay(song.ID)
}

// Next переходит к следующей песне
func (c *Controller) Next() Start {
	return c.Advance(Forward)
}

// Previous переходит к предыдущей песне
func (c *Controller) Previous() Start {
	return c.Advance(Backward)
}

// HandleEvent обрабатывает событие примитива. События устаревших загрузок
// игнорируются. Конец трека возвращает задачу запуска следующей песни
func (c *Controller) HandleEvent(e playback.Event) Start {
	if c.activeID == "" || e.Gen != c.primitive.Generation() {
		return nil
	}

	switch e.Kind {
	case playback.EventEnded:
		if c.pending {
			return nil
		}
		c.logger.Debug("трек закончился", "song_id", c.activeID)
		return c.Next()
	case playback.EventMetadata:
		c.now.DurTime = utils.FormatDuration(e.Duration)
		c.now.SeekPct = 0
		if c.durations.Store(c.activeID, e.Duration) {
			c.logger.Debug("длительность получена из метаданных", "song_id", c.activeID)
		}
	case playback.EventPosition:
		c.now.CurTime = utils.FormatDuration(e.Position)
		total := e.Duration
		if total <= 0 {
			total = c.primitive.Duration()
		}
		if total > 0 {
			c.now.SeekPct = percent(e.Position, total)
		}
	}
	return nil
}

// SeekPercent перематывает на pct процентов длительности.
// Без известной длительности ничего не делает
func (c *Controller) SeekPercent(pct float64) {
	if c.activeID == "" {
		return
	}
	total := c.primitive.Duration()
	if total <= 0 {
		return
	}

	pct = min(max(pct, 0), 100)
	target := time.Duration(float64(total) * pct / 100)
	if err := c.primitive.Seek(target); err != nil {
		c.logger.Warn("перемотка не удалась", "song_id", c.activeID, "error", err)
		return
	}
	c.now.CurTime = utils.FormatDuration(target)
	c.now.SeekPct = pct
}

// SeekBy сдвигает позицию на delta процентов относительно текущей
func (c *Controller) SeekBy(delta float64) {
	total := c.primitive.Duration()
	if c.activeID == "" || total <= 0 {
		return
	}
	c.SeekPercent(percent(c.primitive.Position(), total) + delta)
}

// Volume возвращает громкость примитива
func (c *Controller) Volume() float64 {
	return c.primitive.Volume()
}

// SetVolume устанавливает громкость 0.0-1.0
func (c *Controller) SetVolume(v float64) {
	c.primitive.SetVolume(min(max(v, 0), 1))
}

// ToggleMute переключает отключение звука. До первого выбора песни недоступно
func (c *Controller) ToggleMute() {
	if !c.controls {
		return
	}
	c.primitive.SetMuted(!c.primitive.Muted())
}

// MuteGlyph возвращает значок звука
func (c *Controller) MuteGlyph() string {
	if c.primitive.Muted() || c.primitive.Volume() == 0 {
		return GlyphMuted
	}
	return GlyphSound
}

// PlayLabel возвращает подпись кнопки воспроизведения
func (c *Controller) PlayLabel() string {
	if c.State() == LoadedPlaying {
		return LabelPause
	}
	return LabelPlay
}

// ToggleFavorite переключает членство песни в избранном.
// Ошибка сохранения не откатывает изменение и попадает в статус
func (c *Controller) ToggleFavorite(id string) {
	if _, ok := c.playlist.SongByID(id); !ok {
		return
	}
	if _, err := c.favorites.Toggle(id); err != nil {
		c.logger.Error("не удалось сохранить избранное", "error", err)
		c.status = "Не удалось сохранить избранное."
	}
	if id == c.activeID {
		c.now.Favorite = c.favorites.IsFavorite(id)
	}
}

// ToggleNowFavorite переключает избранное для активной песни
func (c *Controller) ToggleNowFavorite() {
	if c.activeID == "" {
		return
	}
	c.ToggleFavorite(c.activeID)
}

// Dispatch выполняет действие строки списка
func (c *Controller) Dispatch(intent render.Intent) Start {
	switch intent.Action {
	case render.ActionPlay:
		return c.SelectAndPlay(intent.SongID)
	case render.ActionFavorite:
		c.ToggleFavorite(intent.SongID)
	}
	return nil
}

// AddLocal добавляет локальные файлы в начало плейлиста и возвращает
// задачи проб длительности для новых песен
func (c *Controller) AddLocal(ctx context.Context, files []data.LocalFile) []durations.Job {
	if len(files) == 0 {
		return nil
	}
	added := c.playlist.PrependLocal(files)
	c.status = fmt.Sprintf("Добавлено локальных файлов: %d. После выхода они не сохранятся.", len(added))
	c.logger.Info("добавлены локальные файлы", "count", len(added))
	return c.durations.ProbeAll(ctx, added)
}

// ProbeAll возвращает задачи проб для всех песен без известной длительности
func (c *Controller) ProbeAll(ctx context.Context) []durations.Job {
	return c.durations.ProbeAll(ctx, c.playlist.Songs())
}

// ApplyDuration применяет итог пробы. true означает, что список нужно перерисовать
func (c *Controller) ApplyDuration(r durations.Result) bool {
	changed := c.durations.Apply(r)
	if changed && r.SongID == c.activeID && c.primitive.Duration() <= 0 {
		c.now.DurTime = utils.FormatDuration(r.Duration)
	}
	return changed
}

func percent(pos, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(pos) / float64(total) * 100
}
