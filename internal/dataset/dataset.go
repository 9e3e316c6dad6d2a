// Package dataset loads and indexes the crawled character dataset for paw-gallery
package dataset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/data-tales/paw-gallery/internal/models"
)

// Dataset is the immutable in-memory collection of character records.
// It is built once at process start and shared read-only between request
// goroutines, so no locking is needed after Load returns.
type Dataset struct {
	Meta       map[string]any
	Characters []*models.Character // sorted by collated name
	SourcePath string
	LoadedAt   time.Time

	byID map[string]*models.Character
}

// Load reads and validates the characters JSON file at path.
// A missing or malformed file is an error; callers treat that as fatal at
// startup. Records failing validation are skipped with a log line, matching
// the crawler's tolerance for partially scraped pages.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var raw models.RawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if raw.Characters == nil {
		return nil, fmt.Errorf("invalid dataset %s: 'characters' must be a list", path)
	}

	ds := &Dataset{
		Meta:       raw.Meta,
		SourcePath: path,
		LoadedAt:   time.Now(),
		byID:       make(map[string]*models.Character),
	}

	skipped := 0
	for _, rc := range raw.Characters {
		ch, ok := validateRecord(&rc)
		if !ok {
			skipped++
			continue
		}
		if _, dup := ds.byID[ch.ID]; dup {
			log.Printf("[DATA]: duplicate character id %q, keeping first occurrence", ch.ID)
			skipped++
			continue
		}
		ds.Characters = append(ds.Characters, ch)
		ds.byID[ch.ID] = ch
	}

	// Collated sort keeps umlauts in their natural place, the crawled
	// dataset is German.
	col := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(ds.Characters, func(i, j int) bool {
		return col.CompareString(ds.Characters[i].Name, ds.Characters[j].Name) < 0
	})

	log.Printf("[DATA]: loaded %d characters from %s (%d skipped)", len(ds.Characters), path, skipped)
	return ds, nil
}

// validateRecord applies the crawler contract: slug id, non-empty name and
// at least one non-blank profile pair. Anything else is dropped.
func validateRecord(rc *models.RawCharacter) (*models.Character, bool) {
	if !models.IsValidCharacterID(rc.ID) {
		return nil, false
	}
	name := strings.TrimSpace(models.ConvertToUTF8(rc.Name))
	if name == "" {
		return nil, false
	}
	profile := models.CleanProfile(rc.ProfileFlat)
	if len(profile) == 0 {
		return nil, false
	}

	ch := &models.Character{
		ID:          rc.ID,
		Name:        name,
		ProfileFlat: profile,
	}
	if rc.Image != nil {
		ch.ImageLocalPath = strings.TrimSpace(rc.Image.LocalPath)
	}
	if rc.Source != nil {
		ch.SourcePageURL = strings.TrimSpace(rc.Source.PageURL)
		ch.SourceAttrib = strings.TrimSpace(rc.Source.Attribution)
	}
	return ch, true
}

// ByID returns the character with the given id, or nil if absent
func (ds *Dataset) ByID(id string) *models.Character {
	return ds.byID[id]
}

// Len returns the number of characters in the dataset
func (ds *Dataset) Len() int {
	return len(ds.Characters)
}

// Stats summarizes the dataset for the stats API endpoint
type Stats struct {
	TotalCharacters int            `json:"total_characters"`
	WithImages      int            `json:"with_images"`
	ProfileKeys     map[string]int `json:"profile_keys"`
	LoadedAt        string         `json:"loaded_at"`
	SourcePath      string         `json:"source_path"`
}

// ComputeStats walks the collection once; cheap enough to do per request
func (ds *Dataset) ComputeStats() *Stats {
	st := &Stats{
		TotalCharacters: len(ds.Characters),
		ProfileKeys:     make(map[string]int),
		LoadedAt:        ds.LoadedAt.Format(time.RFC3339),
		SourcePath:      ds.SourcePath,
	}
	for _, ch := range ds.Characters {
		if ch.ImageLocalPath != "" {
			st.WithImages++
		}
		for k := range ch.ProfileFlat {
			st.ProfileKeys[k]++
		}
	}
	return st
}
