// internal/storage/json_store.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONStore is a string-keyed store persisting one JSON document per key.
// Writes are atomic (temp file + rename) and serialized per key; reads go
// through a small expiring cache.
type JSONStore struct {
	BaseDir string

	// per-key locks, key -> *sync.RWMutex
	keyLocks sync.Map

	cache       map[string]*cacheEntry
	cacheMutex  sync.RWMutex
	cacheExpiry time.Duration
}

type cacheEntry struct {
	data      []byte
	timestamp time.Time
}

// NewJSONStore creates the store rooted at baseDir.
func NewJSONStore(baseDir string) (*JSONStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &JSONStore{
		BaseDir:     baseDir,
		cache:       make(map[string]*cacheEntry),
		cacheExpiry: 5 * time.Minute,
	}
	s.startCacheCleanup()
	return s, nil
}

func (s *JSONStore) getKeyLock(key string) *sync.RWMutex {
	value, _ := s.keyLocks.LoadOrStore(key, &sync.RWMutex{})
	return value.(*sync.RWMutex)
}

func (s *JSONStore) pathFor(key string) string {
	return filepath.Join(s.BaseDir, key+".json")
}

// Save marshals v and writes it under key atomically.
func (s *JSONStore) Save(key string, v interface{}) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	lock := s.getKeyLock(key)
	lock.Lock()
	defer lock.Unlock()

	fullPath := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("write temp file for %s: %w", key, err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("persist %s: %w", key, err)
	}

	s.invalidateCache(key)
	return nil
}

// Load unmarshals the document stored under key into v. Missing keys
// return os.ErrNotExist.
func (s *JSONStore) Load(key string, v interface{}) error {
	content, err := s.loadRaw(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}

func (s *JSONStore) loadRaw(key string) ([]byte, error) {
	s.cacheMutex.RLock()
	if entry, exists := s.cache[key]; exists && time.Since(entry.timestamp) < s.cacheExpiry {
		s.cacheMutex.RUnlock()
		return entry.data, nil
	}
	s.cacheMutex.RUnlock()

	lock := s.getKeyLock(key)
	lock.RLock()
	defer lock.RUnlock()

	content, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	s.cacheMutex.Lock()
	s.cache[key] = &cacheEntry{data: content, timestamp: time.Now()}
	s.cacheMutex.Unlock()

	return content, nil
}

// Exists reports whether a document is stored under key.
func (s *JSONStore) Exists(key string) bool {
	_, err := os.Stat(s.pathFor(key))
	return err == nil
}

// Delete removes the document under key. Deleting a missing key is an
// error so callers can distinguish the cases.
func (s *JSONStore) Delete(key string) error {
	lock := s.getKeyLock(key)
	lock.Lock()
	defer lock.Unlock()

	fullPath := s.pathFor(key)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("key does not exist: %s", key)
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	s.invalidateCache(key)
	return nil
}

func (s *JSONStore) invalidateCache(key string) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	delete(s.cache, key)
}

func (s *JSONStore) startCacheCleanup() {
	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			s.cacheMutex.Lock()
			now := time.Now()
			for key, entry := range s.cache {
				if now.Sub(entry.timestamp) > s.cacheExpiry {
					delete(s.cache, key)
				}
			}
			s.cacheMutex.Unlock()
		}
	}()
}
