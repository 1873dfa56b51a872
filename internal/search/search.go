// Package search отбирает видимые песни по строке поиска и вкладке избранного
package search

import (
	"strings"

	"github.com/samber/lo"

	"github.com/hazadus/go-playdeck/internal/data"
)

// Filter - состояние фильтра списка
type Filter struct {
	Query         string
	FavoritesOnly bool
}

// Favorites отвечает на вопрос о членстве песни в избранном
type Favorites interface {
	IsFavorite(id string) bool
}

// Matches проверяет, проходит ли песня фильтр
func (f Filter) Matches(song data.Song, favorites Favorites) bool {
	if f.FavoritesOnly && !favorites.IsFavorite(song.ID) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(song.Title), q) ||
		strings.Contains(strings.ToLower(song.Artist), q)
}

// Visible возвращает песни, прошедшие фильтр, в порядке плейлиста
func Visible(songs []data.Song, filter Filter, favorites Favorites) []data.Song {
	return lo.Filter(songs, func(s data.Song, _ int) bool {
		return filter.Matches(s, favorites)
	})
}
