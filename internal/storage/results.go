package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResultStore сохраняет результаты сессий в JSON файлы
type ResultStore struct {
	dir string
}

// NewResultStore создает хранилище результатов в указанной директории
func NewResultStore(dir string) *ResultStore {
	return &ResultStore{dir: dir}
}

// Save сохраняет результат сессии в JSON файл
func (s *ResultStore) Save(result *SessionResult) error {
	// Создаем директорию если её нет
	err := os.MkdirAll(s.dir, 0755)
	if err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	filename := fmt.Sprintf("session_%s.json", result.SessionID)
	path := filepath.Join(s.dir, filename)

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}

// Load загружает результат сессии из JSON файла
func (s *ResultStore) Load(sessionID string) (*SessionResult, error) {
	filename := fmt.Sprintf("session_%s.json", sessionID)
	path := filepath.Join(s.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result SessionResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// List возвращает идентификаторы всех сохраненных сессий
func (s *ResultStore) List() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "session_") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, "session_"), ".json"))
		}
	}

	return ids, nil
}
