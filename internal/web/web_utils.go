// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/data-tales/paw-gallery/internal/config"
)

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.Web.ListenPort
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:          title,
		PageH1:         "PAW Patrol Charaktere",
		PageSubtitle:   "Galerie mit Steckbriefen aus dem lokalen Datenset (inkl. Quellenhinweis).",
		CurrentTime:    time.Now().Format("2006-01-02 15:04:05"),
		CharacterCount: s.Data.Len(),
		AppVersion:     config.AppVersion,
		NavLinks:       navLinks,
	}
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData("Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)

	// Load template individually to avoid engine setup issues
	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath("error.html"))
	if err != nil {
		log.Printf("[WEB]: Error loading error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(statusCode)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", errorData); err != nil {
		log.Printf("[WEB]: Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
	}
}

// renderTemplate renders a template with base template data
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	body, err := s.renderToBytes(templateName, data)
	if err != nil {
		log.Printf("[WEB]: Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// renderToBytes renders a page template into a byte slice so the result can
// be stored in the page cache.
func (s *WebServer) renderToBytes(templateName string, data interface{}) ([]byte, error) {
	// Load template individually to avoid engine setup issues
	tmpl, err := template.ParseFiles(s.templatePath("base.html"), s.templatePath(templateName))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *WebServer) templatePath(name string) string {
	return filepath.Join(s.TemplateDir, name)
}
