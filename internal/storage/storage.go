// Package storage предоставляет персистентное хранилище строк по ключу
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketState = []byte("state")

// KV - хранилище строковых значений по ключу
type KV interface {
	// Get возвращает значение и признак его наличия
	Get(key string) (string, bool, error)
	// Set сохраняет значение
	Set(key, value string) error
}

// BoltStore реализует KV поверх BoltDB
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt открывает (или создает) файл базы состояния
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории состояния: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы состояния: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания бакета: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get читает значение по ключу
func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// Значение валидно только внутри транзакции
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("ошибка чтения ключа %s: %w", key, err)
	}
	return value, found, nil
}

// Set записывает значение по ключу
func (s *BoltStore) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketState)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("ошибка записи ключа %s: %w", key, err)
	}
	return nil
}

// Close закрывает базу
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// MemoryStore хранит значения в памяти, без сохранения между запусками
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get читает значение по ключу
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set записывает значение по ключу
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
