// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/go-playdeck/internal/playback"
)

// Ошибки плеера
var (
	ErrNotLoaded  = errors.New("источник не загружен")
	ErrSuperseded = errors.New("загрузка отменена более новой")
)

// speakerRate частота, на которой работает вывод звука
const speakerRate = beep.SampleRate(44100)

// Opener открывает источник по адресу
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// Player - примитив воспроизведения на beep. Реализует playback.Primitive
type Player struct {
	opener Opener
	logger *slog.Logger
	events chan playback.Event

	ctx    context.Context
	cancel context.CancelFunc
	mutex  sync.RWMutex

	isInitialized bool
	gen           uint64
	queued        bool // Поток передан в speaker
	stopMonitor   context.CancelFunc

	// Компоненты для воспроизведения
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	gain     *effects.Volume

	level float64
	muted bool
}

var _ playback.Primitive = (*Player)(nil)

// NewPlayer создает новый экземпляр плеера
func NewPlayer(opener Opener, volume float64, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		opener: opener,
		logger: logger,
		events: make(chan playback.Event, 16),
		ctx:    ctx,
		cancel: cancel,
		level:  clamp(volume),
	}
}

// Events возвращает канал событий плеера
func (p *Player) Events() <-chan playback.Event {
	return p.events
}

// Load останавливает текущий трек и загружает новый источник на паузе.
// Открытие и декодирование идут без блокировки, поэтому состояние плеера
// можно читать, пока источник загружается
func (p *Player) Load(src string) error {
	p.mutex.Lock()
	p.stopInternal()
	p.gen++
	gen := p.gen
	p.mutex.Unlock()

	rc, err := p.opener.Open(p.ctx, src)
	if err != nil {
		return err
	}
	if p.superseded(gen) {
		rc.Close()
		return ErrSuperseded
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		return fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: true}
	var out beep.Streamer = ctrl
	if format.SampleRate != speakerRate {
		out = beep.Resample(4, format.SampleRate, speakerRate, ctrl)
	}
	gain := &effects.Volume{Streamer: out, Base: 2}

	p.mutex.Lock()
	// Пока источник открывался, могла начаться новая загрузка
	if gen != p.gen {
		p.mutex.Unlock()
		streamer.Close()
		return ErrSuperseded
	}
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.gain = gain
	p.applyGain()

	monitorCtx, stop := context.WithCancel(p.ctx)
	p.stopMonitor = stop
	go p.monitorProgress(monitorCtx, gen)
	p.mutex.Unlock()

	p.logger.Debug("источник загружен", "src", src, "gen", gen)
	if total := format.SampleRate.D(streamer.Len()); total > 0 {
		p.deliver(playback.Event{Kind: playback.EventMetadata, Gen: gen, Duration: total})
	}
	return nil
}

func (p *Player) superseded(gen uint64) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return gen != p.gen
}

// Play запускает или возобновляет воспроизведение
func (p *Player) Play() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return ErrNotLoaded
	}

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		if err := speaker.Init(speakerRate, speakerRate.N(time.Second/5)); err != nil {
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	if !p.queued {
		gen := p.gen
		speaker.Play(beep.Seq(p.gain, beep.Callback(func() {
			// Колбэк вызывается под блокировкой speaker
			go p.finished(gen)
		})))
		p.queued = true
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()

	p.emit(playback.Event{Kind: playback.EventStarted, Gen: p.gen})
	return nil
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.emit(playback.Event{Kind: playback.EventPaused, Gen: p.gen})
}

// Paused возвращает true, если трек не воспроизводится
func (p *Player) Paused() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.ctrl == nil {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.ctrl.Paused
}

// Position возвращает текущую позицию
func (p *Player) Position() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration возвращает длительность загруженного трека или 0
func (p *Player) Duration() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Seek перематывает трек на позицию d
func (p *Player) Seek(d time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return ErrNotLoaded
	}

	speaker.Lock()
	defer speaker.Unlock()

	sample := p.format.SampleRate.N(d)
	if sample < 0 {
		sample = 0
	}
	if last := p.streamer.Len() - 1; sample > last {
		sample = max(last, 0)
	}
	if err := p.streamer.Seek(sample); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// Volume возвращает громкость в диапазоне 0.0-1.0
func (p *Player) Volume() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.level
}

// SetVolume устанавливает громкость, значение приводится к 0.0-1.0
func (p *Player) SetVolume(v float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.level = clamp(v)
	p.applyGain()
}

// Muted возвращает флаг отключения звука
func (p *Player) Muted() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.muted
}

// SetMuted включает или отключает звук
func (p *Player) SetMuted(muted bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.muted = muted
	p.applyGain()
}

// Generation возвращает номер текущей загрузки
func (p *Player) Generation() uint64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.gen
}

// Close закрывает плеер и освобождает ресурсы.
// Канал событий не закрывается: слушатель может быть еще активен
func (p *Player) Close() error {
	p.cancel()
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
	return nil
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.stopMonitor != nil {
		p.stopMonitor()
		p.stopMonitor = nil
	}

	if p.queued {
		speaker.Clear()
		p.queued = false
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	p.ctrl = nil
	p.gain = nil
}

// applyGain переносит громкость и mute в эффект (должен вызываться под мьютексом).
// Громкость линейная, эффект работает в логарифмической шкале по основанию 2
func (p *Player) applyGain() {
	if p.gain == nil {
		return
	}

	silent := p.muted || p.level == 0
	volume := 0.0
	if !silent {
		volume = math.Log2(p.level)
	}

	if p.queued {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.gain.Silent = silent
	p.gain.Volume = volume
}

// finished сообщает о конце трека, если за это время не было новой загрузки
func (p *Player) finished(gen uint64) {
	p.mutex.Lock()
	if gen != p.gen {
		p.mutex.Unlock()
		return
	}
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	p.queued = false
	p.mutex.Unlock()

	p.deliver(playback.Event{Kind: playback.EventEnded, Gen: gen})
}

// monitorProgress дважды в секунду отправляет текущую позицию, пока трек играет
func (p *Player) monitorProgress(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(time.Second / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.streamer == nil || p.ctrl == nil || gen != p.gen {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			paused := p.ctrl.Paused
			current := p.format.SampleRate.D(p.streamer.Position())
			total := p.format.SampleRate.D(p.streamer.Len())
			speaker.Unlock()

			if !paused {
				p.emit(playback.Event{Kind: playback.EventPosition, Gen: gen, Position: current, Duration: total})
			}
			p.mutex.RUnlock()
		}
	}
}

// emit отправляет событие без блокировки. Подходит для позиции и смены
// паузы: следующее событие или чтение состояния их заменит
func (p *Player) emit(e playback.Event) {
	select {
	case p.events <- e:
	default:
		// Если канал заблокирован, пропускаем событие
	}
}

// deliver дожидается, пока событие заберут, или закрытия плеера.
// Вызывается без мьютекса: читатель канала сам обращается к плееру
func (p *Player) deliver(e playback.Event) {
	select {
	case p.events <- e:
	case <-p.ctx.Done():
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
