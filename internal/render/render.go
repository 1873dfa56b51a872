// Package render проецирует отфильтрованные песни в строки списка
package render

import (
	"time"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/utils"
)

// Глифы и подписи строк
const (
	GlyphFavorite    = "★"
	GlyphNotFavorite = "☆"
	GlyphLocal       = "↓"
	UnknownDuration  = "--:--"

	PlaceholderFavorites = "Избранных песен нет. Нажмите ☆ у песни, чтобы добавить ее в избранное."
	PlaceholderSearch    = "Нет песен, подходящих под запрос."
)

// Action - действие, доступное в строке
type Action string

// Действия строки
const (
	ActionPlay     Action = "play"
	ActionFavorite Action = "favorite"
)

// Intent - намерение пользователя, адресованное конкретной песне
type Intent struct {
	Action Action
	SongID string
}

// Favorites отвечает на вопрос о членстве песни в избранном
type Favorites interface {
	IsFavorite(id string) bool
}

// Durations отдает известные длительности
type Durations interface {
	Get(id string) (time.Duration, bool)
}

// Row - одна строка списка песен
type Row struct {
	SongID        string
	Title         string
	Artist        string
	Duration      string
	Active        bool
	Favorite      bool
	FavoriteGlyph string
	IsLocal       bool // Файл добавлен в этой сессии и не сохранится
}

// Intent возвращает намерение для действия строки
func (r Row) Intent(action Action) Intent {
	return Intent{Action: action, SongID: r.SongID}
}

// Listing - результат проекции: строки или одна строка-заглушка
type Listing struct {
	Rows        []Row
	Placeholder string
}

// Empty сообщает, что отображается заглушка
func (l Listing) Empty() bool {
	return len(l.Rows) == 0
}

// Project строит строки для отфильтрованных песен. Чистая функция
func Project(songs []data.Song, activeID string, favorites Favorites, durations Durations, favoritesOnly bool) Listing {
	if len(songs) == 0 {
		placeholder := PlaceholderSearch
		if favoritesOnly {
			placeholder = PlaceholderFavorites
		}
		return Listing{Placeholder: placeholder}
	}

	rows := make([]Row, 0, len(songs))
	for _, s := range songs {
		fav := favorites.IsFavorite(s.ID)
		glyph := GlyphNotFavorite
		if fav {
			glyph = GlyphFavorite
		}

		duration := UnknownDuration
		if d, ok := durations.Get(s.ID); ok {
			duration = utils.FormatDuration(d)
		}

		rows = append(rows, Row{
			SongID:        s.ID,
			Title:         s.Title,
			Artist:        s.Artist,
			Duration:      duration,
			Active:        s.ID == activeID,
			Favorite:      fav,
			FavoriteGlyph: glyph,
			IsLocal:       s.IsLocal,
		})
	}
	return Listing{Rows: rows}
}
