package accessctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Ключи локального хранилища. Одновременная очистка KeyUser и KeyToken
// полностью деаутентифицирует клиента.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// Storage — персистентное локальное хранилище клиента: значения по строковым
// ключам, как в localStorage браузера. Реализации должны быть безопасны для
// конкурентного чтения.
type Storage interface {
	// Get возвращает значение ключа; второй результат false, если ключа нет.
	Get(key string) (string, bool)
	// Set записывает значение ключа.
	Set(key, value string) error
	// Delete удаляет ключ, отсутствие ключа не является ошибкой.
	Delete(key string) error
}

// MemoryStorage хранит значения в памяти процесса. Используется в тестах
// и в сценариях, где персистентность между запусками не нужна.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage создает пустое хранилище в памяти.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get возвращает значение ключа.
func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set записывает значение ключа.
func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete удаляет ключ.
func (s *MemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStorage хранит значения в одном JSON-файле. Файл перечитывается
// при создании и перезаписывается целиком при каждом изменении.
type FileStorage struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// NewFileStorage открывает хранилище по указанному пути. Отсутствующий
// файл равносилен пустому хранилищу.
func NewFileStorage(path string) (*FileStorage, error) {
	const op = "accessctl.NewFileStorage"

	values := make(map[string]string)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &FileStorage{path: path, values: values}, nil
}

// Get возвращает значение ключа.
func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set записывает значение ключа и сохраняет файл.
func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Delete удаляет ключ и сохраняет файл.
func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	const op = "accessctl.FileStorage.flush"

	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
