package storage

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"avgspeed/internal/model"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const backendFile = "file"

// FileReportStore persists the whole report sequence as one indented JSON array.
// Every append rewrites the file; the mutex makes the read-modify-write cycle single-writer
// and the temp-file rename keeps readers from ever seeing a half-written document.
type FileReportStore struct {
	path  string
	mutex sync.Mutex
}

// NewFileReportStore creates a store backed by path. The file is created on first append.
func NewFileReportStore(path string) *FileReportStore {
	return &FileReportStore{path: path}
}

// Path returns the backing file
func (s *FileReportStore) Path() string {
	return s.path
}

func (s *FileReportStore) Append(_ context.Context, report model.Report) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return &StorageError{Op: "append", Backend: backendFile, Err: err}
	}

	// Entries are carried over raw so records this version can't decode survive the rewrite
	entries := append(s.read(), json.RawMessage(entry))

	if err := s.write(entries); err != nil {
		return &StorageError{Op: "append", Backend: backendFile, Err: err}
	}
	return nil
}

func (s *FileReportStore) LoadAll(_ context.Context) ([]model.Report, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries := s.read()
	reports := make([]model.Report, 0, len(entries))
	for i, entry := range entries {
		var report model.Report
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			log.Warnf("Skipping null entry %d in reports file %s", i, s.path)
			continue
		}
		if err := json.Unmarshal(entry, &report); err != nil {
			log.Warnf("Skipping undecodable entry %d in reports file %s: %v", i, s.path, err)
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *FileReportStore) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "clear", Backend: backendFile, Err: err}
	}
	return nil
}

func (s *FileReportStore) Close() error {
	return nil
}

// read loads the raw entries; a missing file or one that isn't a JSON array counts as empty
func (s *FileReportStore) read() []json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("Failed to read reports file %s, treating as empty: %v", s.path, err)
		}
		return []json.RawMessage{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warnf("Reports file %s is not a JSON array, treating as empty: %v", s.path, err)
		return []json.RawMessage{}
	}
	if entries == nil {
		entries = []json.RawMessage{}
	}

	return entries
}

func (s *FileReportStore) write(entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
