package search

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hazadus/go-playdeck/internal/data"
)

type favSet map[string]bool

func (f favSet) IsFavorite(id string) bool { return f[id] }

var songs = []data.Song{
	{ID: "a", Title: "Группа крови", Artist: "Кино"},
	{ID: "b", Title: "Hey Jude", Artist: "The Beatles"},
	{ID: "c", Title: "Let It Be", Artist: "The Beatles"},
	{ID: "d", Title: "Bohemian Rhapsody", Artist: "Queen"},
}

func ids(list []data.Song) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestVisible(t *testing.T) {
	favorites := favSet{"c": true, "d": true}

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"пустой запрос", Filter{}, []string{"a", "b", "c", "d"}},
		{"пробелы", Filter{Query: "   "}, []string{"a", "b", "c", "d"}},
		{"по исполнителю", Filter{Query: "beatles"}, []string{"b", "c"}},
		{"по названию без учета регистра", Filter{Query: "  JUDE "}, []string{"b"}},
		{"кириллица", Filter{Query: "КРОВИ"}, []string{"a"}},
		{"нет совпадений", Filter{Query: "metallica"}, []string{}},
		{"только избранное", Filter{FavoritesOnly: true}, []string{"c", "d"}},
		{"избранное и запрос", Filter{Query: "the", FavoritesOnly: true}, []string{"c"}},
	}

	for _, test := range tests {
		got := ids(Visible(songs, test.filter, favorites))
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("%s: получено %v, ожидалось %v", test.name, got, test.expected)
		}
	}
}

func TestVisibleMatchesPredicate(t *testing.T) {
	favorites := favSet{"b": true}
	queries := []string{"", "e", "the", "Q", "кино", "x"}

	for _, q := range queries {
		for _, favOnly := range []bool{false, true} {
			filter := Filter{Query: q, FavoritesOnly: favOnly}
			visible := map[string]bool{}
			for _, s := range Visible(songs, filter, favorites) {
				visible[s.ID] = true
			}

			lq := strings.ToLower(strings.TrimSpace(q))
			for _, s := range songs {
				want := (strings.Contains(strings.ToLower(s.Title), lq) ||
					strings.Contains(strings.ToLower(s.Artist), lq)) &&
					(!favOnly || favorites[s.ID])
				if visible[s.ID] != want {
					t.Errorf("запрос %q, избранное=%v: песня %s видима=%v, ожидалось %v",
						q, favOnly, s.ID, visible[s.ID], want)
				}
			}
		}
	}
}

func TestVisibleDeterministic(t *testing.T) {
	filter := Filter{Query: "e"}
	first := ids(Visible(songs, filter, favSet{}))
	second := ids(Visible(songs, filter, favSet{}))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("результаты различаются: %v и %v", first, second)
	}
}

func TestFavoritesOnlyEmpty(t *testing.T) {
	for _, q := range []string{"", "jude", "zzz"} {
		if got := Visible(songs, Filter{Query: q, FavoritesOnly: true}, favSet{}); len(got) != 0 {
			t.Errorf("запрос %q: ожидался пустой список, получено %v", q, ids(got))
		}
	}
}
