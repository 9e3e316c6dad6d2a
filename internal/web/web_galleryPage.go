// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const galleryCacheKey = "page:gallery"

// galleryPage renders the main gallery grid with all characters
func (s *WebServer) galleryPage(c *gin.Context) {
	if body, ok := s.PageCache.Get(galleryCacheKey); ok {
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
		return
	}

	data := GalleryPageData{
		TemplateData: s.getBaseTemplateData("PAW Patrol – Charaktere"),
		Characters:   s.views,
	}

	body, err := s.renderToBytes("gallery.html", data)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	s.PageCache.Set(galleryCacheKey, body)
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
