package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record tracks the ownership state of one clipped mesh: the original
// source it was cut from, the cache key of the cut result, and whether
// the cut has been applied in place of the original.
type Record struct {
	ID       int    `json:"id"`
	Original string `json:"original"`
	CutKey   string `json:"cutKey,omitempty"`
	Applied  bool   `json:"applied"`
}

// Registry is an arena of ownership records looked up by a stable
// integer handle, persisted as a JSON sidecar file.
type Registry struct {
	path    string
	nextID  int
	records map[int]Record
}

// registryData is the JSON structure for the saved registry
type registryData struct {
	Version string   `json:"version"`
	NextID  int      `json:"nextId"`
	Records []Record `json:"records"`
}

// LoadRegistry reads the registry at path, returning an empty registry
// when the file does not exist yet.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		nextID:  1,
		records: make(map[int]Record),
	}

	jsonData, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var data registryData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}

	r.nextID = data.NextID
	if r.nextID < 1 {
		r.nextID = 1
	}
	for _, rec := range data.Records {
		r.records[rec.ID] = rec
		if rec.ID >= r.nextID {
			r.nextID = rec.ID + 1
		}
	}
	return r, nil
}

// Register adds a record for an original source and returns its handle
func (r *Registry) Register(original string) int {
	id := r.nextID
	r.nextID++
	r.records[id] = Record{ID: id, Original: original}
	return id
}

// Find returns the handle of the record for an original source, or 0
// when none exists.
func (r *Registry) Find(original string) int {
	for id, rec := range r.records {
		if rec.Original == original {
			return id
		}
	}
	return 0
}

// SetCut stores the cache key of the cut mesh for a record
func (r *Registry) SetCut(id int, cutKey string) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}
	rec.CutKey = cutKey
	rec.Applied = false
	r.records[id] = rec
	return true
}

// MarkApplied flags a record's cut mesh as applied
func (r *Registry) MarkApplied(id int) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}
	rec.Applied = true
	r.records[id] = rec
	return true
}

// Lookup returns the record for a handle
func (r *Registry) Lookup(id int) (Record, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// Len returns the number of records
func (r *Registry) Len() int {
	return len(r.records)
}

// Save writes the registry to its JSON file. An empty registry removes
// the file instead.
func (r *Registry) Save() error {
	if len(r.records) == 0 {
		if _, err := os.Stat(r.path); err == nil {
			os.Remove(r.path)
		}
		return nil
	}

	data := registryData{
		Version: "1.0",
		NextID:  r.nextID,
		Records: make([]Record, 0, len(r.records)),
	}
	for id := 1; id < r.nextID; id++ {
		if rec, ok := r.records[id]; ok {
			data.Records = append(data.Records, rec)
		}
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.WriteFile(r.path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
