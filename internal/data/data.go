// Package data содержит модель песен и плейлиста
package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// LocalArtist подпись исполнителя для локально добавленных файлов
const LocalArtist = "Локальный файл"

// ErrSongNotFound возвращается, если песни с указанным ID нет в плейлисте
var ErrSongNotFound = errors.New("песня не найдена")

// Song описывает одну песню плейлиста. После создания не изменяется
type Song struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Artist  string `yaml:"artist"`
	Src     string `yaml:"src"`
	IsLocal bool   `yaml:"-"` // Локальные файлы живут только в рамках сессии
}

// LocalFile - файл, выбранный пользователем во время сессии
type LocalFile struct {
	Name string // Имя файла
	Src  string // Путь или URI для воспроизведения
}

// Library содержит статический список песен из файла библиотеки
type Library struct {
	Songs []Song `yaml:"songs"`
}

// LoadLibrary загружает библиотеку из файла.
// Отсутствующий или пустой файл дает пустую библиотеку
func LoadLibrary(filePath string) (*Library, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Library{Songs: make([]Song, 0)}, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла библиотеки: %w", err)
	}

	lib := &Library{Songs: make([]Song, 0)}
	if len(raw) == 0 {
		return lib, nil
	}
	if err := yaml.Unmarshal(raw, lib); err != nil {
		return nil, fmt.Errorf("ошибка разбора библиотеки: %w", err)
	}

	seen := make(map[string]bool, len(lib.Songs))
	for _, s := range lib.Songs {
		if s.ID == "" {
			return nil, fmt.Errorf("песня %q без ID", s.Title)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("дублирующийся ID песни: %s", s.ID)
		}
		seen[s.ID] = true
	}
	return lib, nil
}

// SaveLibrary сохраняет библиотеку в файл
func (l *Library) SaveLibrary(filePath string) error {
	path, err := expandHome(filePath)
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("ошибка сериализации библиотеки: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла библиотеки: %w", err)
	}
	return nil
}

// AddSong добавляет песню в конец библиотеки, назначая ей новый ID
func (l *Library) AddSong(song Song) Song {
	song.ID = "s_" + uuid.NewString()
	song.IsLocal = false
	l.Songs = append(l.Songs, song)
	return song
}

// Playlist - упорядоченный список песен текущей сессии
type Playlist struct {
	songs []Song
}

// NewPlaylist создает плейлист из списка песен
func NewPlaylist(songs []Song) *Playlist {
	return &Playlist{songs: append([]Song(nil), songs...)}
}

// Songs возвращает песни в порядке плейлиста
func (p *Playlist) Songs() []Song {
	return p.songs
}

// Len возвращает количество песен
func (p *Playlist) Len() int {
	return len(p.songs)
}

// PrependLocal добавляет локальные файлы в начало плейлиста в исходном порядке
// и возвращает созданные песни
func (p *Playlist) PrependLocal(files []LocalFile) []Song {
	added := lo.Map(files, func(f LocalFile, _ int) Song {
		return Song{
			ID:      newLocalID(),
			Title:   TitleFromFileName(f.Name),
			Artist:  LocalArtist,
			Src:     f.Src,
			IsLocal: true,
		}
	})
	p.songs = append(append(make([]Song, 0, len(added)+len(p.songs)), added...), p.songs...)
	return added
}

// SongByID возвращает песню по ID
func (p *Playlist) SongByID(id string) (Song, bool) {
	return lo.Find(p.songs, func(s Song) bool { return s.ID == id })
}

// IndexOf возвращает позицию песни или -1
func (p *Playlist) IndexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(p.songs, func(s Song) bool { return s.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// Next возвращает следующую песню, после последней идет первая
func (p *Playlist) Next(id string) (Song, error) {
	idx := p.IndexOf(id)
	if idx < 0 {
		return Song{}, fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}
	return p.songs[(idx+1)%len(p.songs)], nil
}

// Previous возвращает предыдущую песню, перед первой идет последняя
func (p *Playlist) Previous(id string) (Song, error) {
	idx := p.IndexOf(id)
	if idx < 0 {
		return Song{}, fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}
	return p.songs[(idx-1+len(p.songs))%len(p.songs)], nil
}

// TitleFromFileName убирает путь и расширение из имени файла
func TitleFromFileName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newLocalID генерирует ID для локального файла
func newLocalID() string {
	return "u_" + uuid.NewString()
}

func expandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(filePath, "~", home, 1), nil
}
