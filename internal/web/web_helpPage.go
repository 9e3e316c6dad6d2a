// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"github.com/gin-gonic/gin"
)

// helpPage renders the API documentation page
func (s *WebServer) helpPage(c *gin.Context) {
	data := HelpPageData{
		TemplateData: s.getBaseTemplateData("API Help"),
	}
	s.renderTemplate(c, "help.html", data)
}
