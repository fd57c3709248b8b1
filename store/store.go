// Package store provides the minimal durable key/value contract the gate
// needs for pairing state.
package store

// Store holds string and bool values under a private namespace. Read once
// at boot, written only on pairing-state changes.
type Store interface {
	GetString(key, def string) string
	SetString(key, value string) error
	GetBool(key string, def bool) bool
	SetBool(key string, value bool) error
	Remove(key string) error
}

// Memory is a volatile Store for tests and simulation.
type Memory struct {
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) GetString(key, def string) string {
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *Memory) SetString(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *Memory) GetBool(key string, def bool) bool {
	if v, ok := m.values[key]; ok {
		return v == "1"
	}
	return def
}

func (m *Memory) SetBool(key string, value bool) error {
	return m.SetString(key, encodeBool(value))
}

func (m *Memory) Remove(key string) error {
	delete(m.values, key)
	return nil
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
