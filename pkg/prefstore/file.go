package prefstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "prefstore")

// FileStore 每个 key 一个 JSON 文件，写入走 tmp + rename
type FileStore struct {
	baseDir string
	mu      sync.Mutex
}

// NewFileStore 创建 JSON 文件偏好存储（目录在首次写入时创建）
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type fileRecord struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

func (s *FileStore) filePath(key string) string {
	safe := keySanitizer.ReplaceAllString(key, "_")
	return filepath.Join(s.baseDir, "pref_"+safe+".json")
}

func (s *FileStore) GetBool(key string) (bool, bool, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return false, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.filePath(k))
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, err
	}
	if len(b) == 0 {
		return false, false, nil
	}
	var rec fileRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, false, err
	}
	log.Debugf("[prefstore] load %s=%v", k, rec.Value)
	return rec.Value, true, nil
}

func (s *FileStore) SetBool(key string, value bool) error {
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(fileRecord{Key: k, Value: value}, "", "  ")
	if err != nil {
		return err
	}
	path := s.filePath(k)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	log.Debugf("[prefstore] save %s=%v", k, value)
	return os.Rename(tmp, path)
}

func (s *FileStore) Close() error { return nil }

// MemoryStore 进程内偏好存储（测试 / 临时会话）
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]bool)}
}

func (s *MemoryStore) GetBool(key string) (bool, bool, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return false, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[k]
	return v, ok, nil
}

func (s *MemoryStore) SetBool(key string, value bool) error {
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[k] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
