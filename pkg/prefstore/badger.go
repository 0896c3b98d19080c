package prefstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore 基于 Badger 的 KV 偏好存储
// 加密由 Badger options 提供（value log + key registry），不在这里做。
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger 打开（或创建）Badger 目录；encryptionKey 为空则不加密
func OpenBadger(path string, encryptionKey []byte) (*BadgerStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("prefstore: badger path is required")
	}
	bopts := badger.DefaultOptions(path).WithLogger(nil)
	if len(encryptionKey) > 0 {
		// 加密模式下 Badger 要求开启 index cache
		bopts = bopts.
			WithEncryptionKey(encryptionKey).
			WithIndexCacheSize(16 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("prefstore: open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) GetBool(key string) (bool, bool, error) {
	if s == nil || s.db == nil {
		return false, false, ErrClosed
	}
	k, err := normalizeKey(key)
	if err != nil {
		return false, false, err
	}
	var (
		raw   string
		found bool
	)
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		})
	})
	if err != nil {
		return false, false, err
	}
	if !found {
		return false, false, nil
	}
	return decodeBool(raw), true, nil
}

func (s *BadgerStore) SetBool(key string, value bool) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	v := []byte(encodeBool(value))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(k), v)
	})
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ParseKey expects 32 bytes (base64 or hex). Returns nil if input is empty.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
