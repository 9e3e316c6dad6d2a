// Package models defines core data structures for paw-gallery
package models

import (
	"regexp"
	"sort"
	"strings"
)

// CharacterIDPattern is the only accepted shape for character identifiers.
// Identifiers come from crawled wiki slugs and double as URL path segments.
var CharacterIDPattern = regexp.MustCompile(`^[a-z0-9-]{1,80}$`)

// IsValidCharacterID reports whether id is a well-formed character slug
func IsValidCharacterID(id string) bool {
	return CharacterIDPattern.MatchString(id)
}

// Character represents one record of the crawled dataset.
// Records are immutable after load; the web layer only ever reads them.
type Character struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	ImageLocalPath string            `json:"image_local_path,omitempty"` // e.g. images/chase.jpg, relative to the data dir
	ProfileFlat    map[string]string `json:"profile_flat"`
	SourcePageURL  string            `json:"source_page_url,omitempty"`
	SourceAttrib   string            `json:"source_attribution,omitempty"`
}

// RawCharacter mirrors the on-disk JSON shape produced by the crawler.
// It is only used while decoding; validation turns it into a Character.
type RawCharacter struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ProfileFlat map[string]string `json:"profile_flat"`
	Image       *RawImage         `json:"image"`
	Source      *RawSource        `json:"source"`
}

// RawImage holds the crawler's image metadata; only local_path matters here
type RawImage struct {
	LocalPath string `json:"local_path"`
	SourceURL string `json:"source_url"`
}

// RawSource holds provenance recorded by the crawler
type RawSource struct {
	PageURL     string `json:"page_url"`
	Attribution string `json:"attribution"`
}

// RawDataset mirrors the on-disk JSON root object
type RawDataset struct {
	Meta       map[string]any `json:"meta"`
	Characters []RawCharacter `json:"characters"`
}

// ProfileItem is one key/value row of a character profile, in display order
type ProfileItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProfileItems returns the profile as a slice sorted case-insensitively by
// key, for stable rendering and stable JSON output across restarts.
func (ch *Character) ProfileItems() []ProfileItem {
	items := make([]ProfileItem, 0, len(ch.ProfileFlat))
	for k, v := range ch.ProfileFlat {
		items = append(items, ProfileItem{Key: k, Value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Key) < strings.ToLower(items[j].Key)
	})
	return items
}

// CharacterView is the API and template facing shape of a character.
// ImageURL is the /media/ URL derived from ImageLocalPath, or empty.
type CharacterView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ImageURL     string            `json:"image_url,omitempty"`
	ProfileFlat  map[string]string `json:"profile_flat"`
	ProfileItems []ProfileItem     `json:"-"`
	SourceURL    string            `json:"source_page_url,omitempty"`
	SourceAttrib string            `json:"source_attribution,omitempty"`
}

// CharacterListResponse is the envelope for the character listing API
type CharacterListResponse struct {
	OK         bool             `json:"ok"`
	Count      int              `json:"count"`
	Characters []*CharacterView `json:"characters"`
}

// CharacterResponse is the envelope for the single character API
type CharacterResponse struct {
	OK        bool           `json:"ok"`
	Character *CharacterView `json:"character"`
}
