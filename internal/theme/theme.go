// Package theme хранит выбранную пользователем тему оформления
package theme

import (
	"fmt"

	"github.com/hazadus/go-playdeck/internal/storage"
)

// Key ключ темы в хранилище
const Key = "theme"

// Theme - тема оформления
type Theme string

// Доступные темы
const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse разбирает строку, неизвестные значения дают светлую тему
func Parse(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// Flip возвращает противоположную тему
func (t Theme) Flip() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Load читает тему из хранилища. Ошибки и мусор дают светлую тему
func Load(kv storage.KV) Theme {
	raw, ok, err := kv.Get(Key)
	if err != nil || !ok {
		return Light
	}
	return Parse(raw)
}

// Toggle переключает тему и сразу сохраняет ее
func Toggle(kv storage.KV, current Theme) (Theme, error) {
	next := current.Flip()
	if err := kv.Set(Key, string(next)); err != nil {
		return next, fmt.Errorf("ошибка сохранения темы: %w", err)
	}
	return next, nil
}
