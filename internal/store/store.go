// Package store is the optional key-value persistence collaborator: last
// input text, column name, and bookmarks. The core functions correctly
// with no store at all; both backends here are conveniences for the CLI.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/fieldsift/fieldsift/internal/errors"
)

// Well-known store keys.
const (
	KeyLastInput  = "last_input"
	KeyColumnName = "column_name"
	KeyBookmarks  = "bookmarks"
)

// Store is a minimal key-value surface. All methods must be safe for
// concurrent use.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-process store, used when persistence is disabled and in
// tests.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// File persists the key-value map as a single JSON file, rewritten on
// every mutation. Payloads are small (input text, a column name, a
// bookmark list), so the rewrite cost is irrelevant.
type File struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// OpenFile loads a file-backed store, starting empty when the file does
// not exist yet.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.NewStoreError(fmt.Sprintf("failed to read store file '%s'", path), err)
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, errors.NewStoreError(fmt.Sprintf("store file '%s' is corrupt", path), err)
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flushLocked()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return errors.NewStoreError("failed to encode store contents", err)
	}
	if err := os.WriteFile(f.path, raw, 0644); err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to write store file '%s'", f.path), err)
	}
	return nil
}

// Bookmark is a saved path with a user label. Bookmarks outlive the
// document they were created against.
type Bookmark struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"` // encoded path, pathing.Encode form
}

// LoadBookmarks reads the bookmark list, empty when none were saved.
func LoadBookmarks(s Store) ([]Bookmark, error) {
	raw, ok, err := s.Get(KeyBookmarks)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var list []Bookmark
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errors.NewStoreError("bookmark list is corrupt", err)
	}
	return list, nil
}

// SaveBookmarks replaces the bookmark list wholesale.
func SaveBookmarks(s Store, list []Bookmark) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.NewStoreError("failed to encode bookmarks", err)
	}
	return s.Set(KeyBookmarks, string(raw))
}

// AddBookmark appends a bookmark with a fresh id and returns it.
func AddBookmark(s Store, label, encodedPath string) (Bookmark, error) {
	list, err := LoadBookmarks(s)
	if err != nil {
		return Bookmark{}, err
	}
	bm := Bookmark{ID: uuid.NewString(), Label: label, Path: encodedPath}
	if err := SaveBookmarks(s, append(list, bm)); err != nil {
		return Bookmark{}, err
	}
	return bm, nil
}

// RemoveBookmark deletes a bookmark by id and reports whether it existed.
func RemoveBookmark(s Store, id string) (bool, error) {
	list, err := LoadBookmarks(s)
	if err != nil {
		return false, err
	}
	kept := list[:0]
	found := false
	for _, bm := range list {
		if bm.ID == id {
			found = true
			continue
		}
		kept = append(kept, bm)
	}
	if !found {
		return false, nil
	}
	return true, SaveBookmarks(s, kept)
}
