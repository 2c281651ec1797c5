package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/config"
	"io/fs"
	"os"
	"path/filepath"
)

// IStore 当前连接配置的持久化
type IStore interface {
	// Load 未保存过时返回 (nil, nil)
	Load() (*Connection, error)
	Save(conn *Connection) error
	Clear() error
}

type FileStore struct {
	path string
}

func NewFileStore(config *config.Config) *FileStore {
	return &FileStore{path: config.Setup.Path}
}

func (s *FileStore) Load() (*Connection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read connection file: %w", err)
	}
	conn := new(Connection)
	if err := json.Unmarshal(data, conn); err != nil {
		return nil, fmt.Errorf("decode connection file: %w", err)
	}
	if err := conn.Normalize(); err != nil {
		return nil, err
	}
	return conn, nil
}

// Save 先写临时文件再替换，避免留下半截配置
func (s *FileStore) Save(conn *Connection) error {
	data, err := json.MarshalIndent(conn, "", "  ")
	if err != nil {
		return fmt.Errorf("encode connection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create connection dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write connection file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace connection file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove connection file: %w", err)
	}
	return nil
}
