// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/data-tales/paw-gallery/internal/config"
	"github.com/data-tales/paw-gallery/internal/models"
)

// listCharacters returns the full ordered collection as JSON.
// The response is deterministic for an unchanged dataset file: the views are
// built once at startup from the collated character order.
func (s *WebServer) listCharacters(c *gin.Context) {
	response := models.CharacterListResponse{
		OK:         true,
		Count:      len(s.views),
		Characters: s.views,
	}
	c.JSON(http.StatusOK, response)
}

// getCharacter returns a single character by id
func (s *WebServer) getCharacter(c *gin.Context) {
	id := c.Param("id")
	if !models.IsValidCharacterID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid id"})
		return
	}

	view, ok := s.viewByID[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}

	c.JSON(http.StatusOK, models.CharacterResponse{OK: true, Character: view})
}

// getStats returns JSON statistics data for the API
func (s *WebServer) getStats(c *gin.Context) {
	st := s.Data.ComputeStats()

	// Top profile keys by frequency
	type keyCount struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}
	topKeys := make([]keyCount, 0, len(st.ProfileKeys))
	for k, n := range st.ProfileKeys {
		topKeys = append(topKeys, keyCount{Key: k, Count: n})
	}
	sort.Slice(topKeys, func(i, j int) bool {
		if topKeys[i].Count != topKeys[j].Count {
			return topKeys[i].Count > topKeys[j].Count
		}
		return topKeys[i].Key < topKeys[j].Key
	})
	if len(topKeys) > 10 {
		topKeys = topKeys[:10]
	}

	uptime := ""
	if !s.StartTime.IsZero() {
		uptime = time.Since(s.StartTime).Round(time.Second).String()
	}

	stats := gin.H{
		"ok":               true,
		"total_characters": st.TotalCharacters,
		"with_images":      st.WithImages,
		"top_profile_keys": topKeys,
		"loaded_at":        st.LoadedAt,
		"backend_version":  config.AppVersion,
		"uptime":           uptime,
	}

	c.JSON(http.StatusOK, stats)
}
