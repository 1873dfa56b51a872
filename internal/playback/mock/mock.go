// Package mock содержит управляемый из тестов примитив воспроизведения
package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/hazadus/go-playdeck/internal/playback"
)

// ErrPlayRejected возвращается из Play, когда отказ включен через RejectPlay
var ErrPlayRejected = errors.New("воспроизведение отклонено")

// Primitive - примитив без звука. Все вызовы записываются
type Primitive struct {
	mu sync.Mutex

	src      string
	gen      uint64
	paused   bool
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool

	// Durations задает длительность, которую сообщит Load для источника
	Durations map[string]time.Duration
	// LoadErr возвращается из Load, если не nil
	LoadErr error

	rejectPlay bool
	loads      []string
	plays      int
	events     chan playback.Event
}

// New создает примитив с громкостью 1.0 в состоянии паузы
func New() *Primitive {
	return &Primitive{
		paused:    true,
		volume:    1,
		Durations: make(map[string]time.Duration),
		events:    make(chan playback.Event, 64),
	}
}

// RejectPlay включает или выключает отказ в Play
func (p *Primitive) RejectPlay(reject bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejectPlay = reject
}

// Load implements playback.Primitive
func (p *Primitive) Load(src string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loads = append(p.loads, src)
	if p.LoadErr != nil {
		return p.LoadErr
	}
	p.gen++
	p.src = src
	p.paused = true
	p.position = 0
	p.duration = p.Durations[src]
	if p.duration > 0 {
		p.emit(playback.Event{Kind: playback.EventMetadata, Gen: p.gen, Duration: p.duration})
	}
	return nil
}

// Play implements playback.Primitive
func (p *Primitive) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.plays++
	if p.rejectPlay {
		return ErrPlayRejected
	}
	p.paused = false
	p.emit(playback.Event{Kind: playback.EventStarted, Gen: p.gen})
	return nil
}

// Pause implements playback.Primitive
func (p *Primitive) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	p.emit(playback.Event{Kind: playback.EventPaused, Gen: p.gen})
}

// Paused implements playback.Primitive
func (p *Primitive) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position implements playback.Primitive
func (p *Primitive) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Seek implements playback.Primitive
func (p *Primitive) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = d
	return nil
}

// Duration implements playback.Primitive
func (p *Primitive) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Volume implements playback.Primitive
func (p *Primitive) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume implements playback.Primitive
func (p *Primitive) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

// Muted implements playback.Primitive
func (p *Primitive) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// SetMuted implements playback.Primitive
func (p *Primitive) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Generation implements playback.Primitive
func (p *Primitive) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Events implements playback.Primitive
func (p *Primitive) Events() <-chan playback.Event {
	return p.events
}

// Source возвращает текущий источник
func (p *Primitive) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

// Loads возвращает все источники, переданные в Load
func (p *Primitive) Loads() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loads...)
}

// Plays возвращает число вызовов Play
func (p *Primitive) Plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

// End имитирует окончание текущего трека
func (p *Primitive) End() playback.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	p.position = p.duration
	return playback.Event{Kind: playback.EventEnded, Gen: p.gen}
}

// Tick имитирует продвижение позиции
func (p *Primitive) Tick(pos time.Duration) playback.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
	return playback.Event{Kind: playback.EventPosition, Gen: p.gen, Position: pos, Duration: p.duration}
}

// emit отправляет событие без блокировки (вызывается под мьютексом)
func (p *Primitive) emit(e playback.Event) {
	select {
	case p.events <- e:
	default:
	}
}
