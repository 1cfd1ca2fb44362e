package prefs

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const (
	appName = "mapgrid"
	itemKey = "prefs"
)

// Prefs is the editor state restored at startup.
type Prefs struct {
	Brush string  `json:"brush"`
	Mode  string  `json:"mode"`
	Scale float64 `json:"scale"`
}

// ItemStore is the subset of *gdata.Manager the store needs.
type ItemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Store persists Prefs. A Store without a backend loads nothing and saves
// nowhere, so the editor keeps working when the data directory is unavailable.
type Store struct {
	items ItemStore
}

// Open uses gdata's per-user application data directory.
func Open() *Store {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("prefs: persistence unavailable: %v", err)
		return &Store{}
	}
	return &Store{items: m}
}

func NewStore(items ItemStore) *Store {
	return &Store{items: items}
}

// Load returns ok=false when nothing has been saved yet.
func (s *Store) Load() (Prefs, bool, error) {
	if s == nil || s.items == nil {
		return Prefs{}, false, nil
	}
	data, err := s.items.LoadItem(itemKey)
	if err != nil {
		return Prefs{}, false, fmt.Errorf("prefs: load: %w", err)
	}
	if data == nil {
		return Prefs{}, false, nil
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}, false, fmt.Errorf("prefs: parse: %w", err)
	}
	return p, true, nil
}

func (s *Store) Save(p Prefs) error {
	if s == nil || s.items == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: marshal: %w", err)
	}
	if err := s.items.SaveItem(itemKey, data); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	return nil
}
