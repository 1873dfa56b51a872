// Package durations кэширует длительности песен, полученные фоновыми пробами
package durations

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hazadus/go-playdeck/internal/data"
)

// Prober определяет длительность источника
type Prober interface {
	ProbeDuration(ctx context.Context, src string) (time.Duration, error)
}

// Result - итог одной пробы
type Result struct {
	SongID   string
	Duration time.Duration
	Err      error
}

// Job выполняет пробу и блокируется до ее завершения
type Job func() Result

// Cache хранит длительности по ID песни.
// Записи меняются только из цикла событий, поэтому блокировки не нужны
type Cache struct {
	entries map[string]time.Duration
	prober  Prober
	sem     *semaphore.Weighted
	logger  *slog.Logger
}

// New создает кэш. concurrency ограничивает число одновременных проб
func New(prober Prober, concurrency int, logger *slog.Logger) *Cache {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[string]time.Duration),
		prober:  prober,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		logger:  logger,
	}
}

// Get возвращает длительность, если она известна
func (c *Cache) Get(id string) (time.Duration, bool) {
	d, ok := c.entries[id]
	return d, ok
}

// Len возвращает количество известных длительностей
func (c *Cache) Len() int {
	return len(c.entries)
}

// Store сохраняет длительность. Побеждает первое успешное значение,
// неположительные значения отбрасываются
func (c *Cache) Store(id string, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	if _, ok := c.entries[id]; ok {
		return false
	}
	c.entries[id] = d
	return true
}

// Probe возвращает задачу пробы для песни или nil, если длительность уже известна.
// Задача не трогает кэш: результат применяется через Apply
func (c *Cache) Probe(ctx context.Context, song data.Song) Job {
	if _, ok := c.entries[song.ID]; ok {
		return nil
	}
	prober := c.prober
	sem := c.sem
	return func() Result {
		if err := sem.Acquire(ctx, 1); err != nil {
			return Result{SongID: song.ID, Err: err}
		}
		defer sem.Release(1)

		d, err := prober.ProbeDuration(ctx, song.Src)
		return Result{SongID: song.ID, Duration: d, Err: err}
	}
}

// ProbeAll возвращает задачи для всех песен без известной длительности
func (c *Cache) ProbeAll(ctx context.Context, songs []data.Song) []Job {
	jobs := make([]Job, 0, len(songs))
	for _, s := range songs {
		if job := c.Probe(ctx, s); job != nil {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Apply применяет результат пробы. Возвращает true, если кэш изменился
func (c *Cache) Apply(r Result) bool {
	if r.Err != nil {
		c.logger.Debug("проба длительности не удалась", "song_id", r.SongID, "error", r.Err)
		return false
	}
	return c.Store(r.SongID, r.Duration)
}
