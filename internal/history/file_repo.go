package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// document maps a user id (as decimal string) to that user's records.
// The whole document is the unit of read and write.
type document map[string][]Record

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Append(userID int64, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.loadUnlocked()
	key := strconv.FormatInt(userID, 10)
	doc[key] = append(doc[key], rec)
	return r.saveUnlocked(doc)
}

func (r *FileRepository) Load(userID int64) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.loadUnlocked()
	return doc[strconv.FormatInt(userID, 10)]
}

func (r *FileRepository) loadUnlocked() document {
	f, err := os.Open(r.path)
	if err != nil {
		return document{}
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	var doc document
	dec := json.NewDecoder(f)
	if err := dec.Decode(&doc); err != nil {
		// empty or malformed -> start fresh
		return document{}
	}
	if doc == nil {
		return document{}
	}
	return doc
}

func (r *FileRepository) saveUnlocked(doc document) error {
	f, err := os.OpenFile(r.path, os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
		}
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
