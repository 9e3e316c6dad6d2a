// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/data-tales/paw-gallery/internal/models"
)

// characterPage renders the detail page for a single character
func (s *WebServer) characterPage(c *gin.Context) {
	id := c.Param("id")
	if !models.IsValidCharacterID(id) {
		s.renderError(c, http.StatusNotFound, "Character Not Found", "invalid character id: "+id)
		return
	}

	cacheKey := "page:character:" + id
	if body, ok := s.PageCache.Get(cacheKey); ok {
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
		return
	}

	view, ok := s.viewByID[id]
	if !ok {
		s.renderError(c, http.StatusNotFound, "Character Not Found", "no such character: "+id)
		return
	}

	data := CharacterPageData{
		TemplateData: s.getBaseTemplateData(view.Name + " – PAW Patrol"),
		Character:    view,
	}

	body, err := s.renderToBytes("character.html", data)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	s.PageCache.Set(cacheKey, body)
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
