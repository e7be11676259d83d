package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Ключи передачи данных между этапами сессии
const (
	KeyTechnicalRole = "isTechnicalRole"
	KeyDSASummary    = "dsaSummary"
	KeyQnAFeedback   = "qnaFeedback"
)

// ErrKeyNotFound возвращается при чтении отсутствующего ключа
var ErrKeyNotFound = errors.New("ключ не найден")

// Handoff передает данные между этапами сессии: флаг технической роли,
// сводку DSA-раунда и сырой фидбек QnA-части
type Handoff interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MemoryHandoff хранит данные в памяти процесса
type MemoryHandoff struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryHandoff() *MemoryHandoff {
	return &MemoryHandoff{values: make(map[string]string)}
}

func (m *MemoryHandoff) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryHandoff) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *MemoryHandoff) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileHandoff хранит данные в одном JSON файле, переживая перезапуск
type FileHandoff struct {
	mu   sync.Mutex
	path string
}

func NewFileHandoff(path string) *FileHandoff {
	return &FileHandoff{path: path}
}

func (f *FileHandoff) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileHandoff) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (f *FileHandoff) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileHandoff) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", f.path, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}
	return values, nil
}

func (f *FileHandoff) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", f.path, err)
	}
	return nil
}

// RedisHandoff хранит данные в Redis, общем для нескольких инстансов
type RedisHandoff struct {
	client *redis.Client
	prefix string
}

func NewRedisHandoff(client *redis.Client, prefix string) *RedisHandoff {
	return &RedisHandoff{client: client, prefix: prefix}
}

func (r *RedisHandoff) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisHandoff) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи в redis: %w", err)
	}
	return nil
}

func (r *RedisHandoff) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения из redis: %w", err)
	}
	return value, nil
}

func (r *RedisHandoff) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления из redis: %w", err)
	}
	return nil
}
