// Package playback описывает контракт примитива воспроизведения
package playback

import "time"

// Kind - тип события примитива
type Kind int

// Типы событий
const (
	EventMetadata Kind = iota // Метаданные загружены, длительность известна
	EventPosition             // Позиция изменилась
	EventStarted              // Воспроизведение началось
	EventPaused               // Воспроизведение приостановлено
	EventEnded                // Трек доиграл до конца
)

// String возвращает имя типа события для логов
func (k Kind) String() string {
	switch k {
	case EventMetadata:
		return "metadata"
	case EventPosition:
		return "position"
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event - асинхронное событие жизненного цикла.
// Gen - поколение загрузки, к которому относится событие
type Event struct {
	Kind     Kind
	Gen      uint64
	Position time.Duration
	Duration time.Duration
}

// Primitive - один аудиоэлемент: источник, позиция, громкость и события
type Primitive interface {
	// Load назначает новый источник и ставит его на паузу в начале
	Load(src string) error
	// Play запускает воспроизведение. Ошибка означает отказ в запуске
	Play() error
	Pause()
	Paused() bool
	Position() time.Duration
	Seek(d time.Duration) error
	// Duration возвращает 0, пока длительность неизвестна
	Duration() time.Duration
	Volume() float64
	SetVolume(v float64)
	Muted() bool
	SetMuted(muted bool)
	// Generation увеличивается при каждом Load
	Generation() uint64
	Events() <-chan Event
}
