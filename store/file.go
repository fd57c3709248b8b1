package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File is a Store backed by one JSON document on disk, namespace -> key ->
// value. Writes go through a temp file and rename so power loss mid-write
// leaves the previous document intact.
type File struct {
	path      string
	namespace string
	doc       map[string]map[string]string
}

func NewFile(path, namespace string) (*File, error) {
	f := &File{
		path:      path,
		namespace: namespace,
		doc:       make(map[string]map[string]string),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read store: %w", err)
		}
		return f, nil
	}
	if err := json.Unmarshal(data, &f.doc); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return f, nil
}

func (f *File) ns() map[string]string {
	m, ok := f.doc[f.namespace]
	if !ok {
		m = make(map[string]string)
		f.doc[f.namespace] = m
	}
	return m
}

func (f *File) GetString(key, def string) string {
	if v, ok := f.ns()[key]; ok {
		return v
	}
	return def
}

func (f *File) SetString(key, value string) error {
	f.ns()[key] = value
	return f.flush()
}

func (f *File) GetBool(key string, def bool) bool {
	if v, ok := f.ns()[key]; ok {
		return v == "1"
	}
	return def
}

func (f *File) SetBool(key string, value bool) error {
	return f.SetString(key, encodeBool(value))
}

func (f *File) Remove(key string) error {
	delete(f.ns(), key)
	return f.flush()
}

func (f *File) flush() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
