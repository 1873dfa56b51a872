// Package favorites хранит множество избранных песен
package favorites

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-playdeck/internal/storage"
)

// Key ключ, под которым список избранного лежит в хранилище
const Key = "favorites"

// Store - множество ID избранных песен с сохранением порядка добавления
type Store struct {
	kv     storage.KV
	ids    []string
	logger *slog.Logger
}

// Load читает избранное из хранилища.
// Отсутствующие, поврежденные и не являющиеся списком данные дают пустое множество
func Load(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, ids: make([]string, 0), logger: logger}

	raw, ok, err := kv.Get(Key)
	if err != nil {
		logger.Warn("не удалось прочитать избранное", "error", err)
		return s
	}
	if !ok || raw == "" {
		return s
	}

	ids, err := decode(raw)
	if err != nil {
		logger.Warn("поврежденный список избранного, используем пустой", "error", err)
		return s
	}
	s.ids = ids
	return s
}

// IsFavorite проверяет, находится ли песня в избранном
func (s *Store) IsFavorite(id string) bool {
	return lo.Contains(s.ids, id)
}

// IDs возвращает копию списка избранного
func (s *Store) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len возвращает размер множества
func (s *Store) Len() int {
	return len(s.ids)
}

// Toggle добавляет песню в избранное или убирает ее оттуда и сохраняет список.
// Возвращает новое состояние. Множество в памяти меняется даже при ошибке записи
func (s *Store) Toggle(id string) (bool, error) {
	var now bool
	if s.IsFavorite(id) {
		s.ids = lo.Without(s.ids, id)
	} else {
		s.ids = append(s.ids, id)
		now = true
	}
	return now, s.save()
}

func (s *Store) save() error {
	raw, err := encode(s.ids)
	if err != nil {
		return fmt.Errorf("ошибка сериализации избранного: %w", err)
	}
	if err := s.kv.Set(Key, raw); err != nil {
		return fmt.Errorf("ошибка сохранения избранного: %w", err)
	}
	return nil
}

// errNotList возвращается, если в хранилище лежит не список
var errNotList = errors.New("ожидался список")

// decode принимает как YAML-список, так и JSON-массив.
// Список с элементами не строкового типа считается поврежденным
func decode(raw string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, errNotList
	}

	ids := make([]string, 0, len(doc.Content[0].Content))
	for _, item := range doc.Content[0].Content {
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, fmt.Errorf("элемент %q не является строкой", item.Value)
		}
		ids = append(ids, item.Value)
	}
	return lo.Compact(lo.Uniq(ids)), nil
}

// encode сериализует список в однострочный flow-стиль: [a, b]
func encode(ids []string) (string, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, id := range ids {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id})
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
