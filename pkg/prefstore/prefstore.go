// Package prefstore 持久化 UI 偏好（例如暗色模式开关）。
// 每个偏好是一个 key -> bool，跨会话保留。
package prefstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Store 偏好存储接口
type Store interface {
	// GetBool 读取偏好；found=false 表示从未写过
	GetBool(key string) (value bool, found bool, err error)
	// SetBool 写入偏好，返回前必须已持久化
	SetBool(key string, value bool) error
	Close() error
}

// 支持的驱动
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// ErrEmptyKey key 为空
var ErrEmptyKey = errors.New("prefstore: key is empty")

// ErrClosed store 未打开或已关闭
var ErrClosed = errors.New("prefstore: not opened")

// Options 打开参数
type Options struct {
	Driver string
	// Path badger 目录 / sqlite 文件 / JSON 文件目录；memory 忽略
	Path string
	// EncryptionKey 仅 badger 使用（32 bytes，base64 或 hex）
	EncryptionKey string
}

// Open 按驱动打开偏好存储
func Open(opts Options) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverFile
	}
	if driver != DriverMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("prefstore: path is required for driver %q", driver)
	}

	switch driver {
	case DriverBadger:
		key, err := ParseKey(opts.EncryptionKey)
		if err != nil {
			return nil, err
		}
		return OpenBadger(opts.Path, key)
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverFile:
		return NewFileStore(opts.Path), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("prefstore: unknown driver %q", opts.Driver)
	}
}

func normalizeKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", ErrEmptyKey
	}
	return k, nil
}

// encodeBool/decodeBool 与浏览器 localStorage 的 "true"/"false" 保持一致
func encodeBool(v bool) string {
	return strconv.FormatBool(v)
}

func decodeBool(raw string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && b
}
