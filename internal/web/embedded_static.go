package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static/*
var EmbeddedStaticFS embed.FS

// setupStaticRoutes serves /static from the embedded filesystem, or from the
// configured directory on disk when one exists (useful during development).
func (s *WebServer) setupStaticRoutes() {
	staticDir := s.Config.Web.StaticDir
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			s.Router.Static("/static", staticDir)
			log.Printf("[WEB]: Serving static files from disk: %s", staticDir)
			return
		}
	}
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static/"))
	log.Printf("[WEB]: Serving embedded static files")
}

// EmbeddedStaticHandler returns a Gin handler for serving embedded static files
func EmbeddedStaticHandler(prefix string) gin.HandlerFunc {
	staticFS, err := fs.Sub(EmbeddedStaticFS, "static")
	if err != nil {
		panic("Failed to create embedded static filesystem: " + err.Error())
	}
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(staticFS)))

	return func(c *gin.Context) {
		// Reject directory listings, only files are served
		if strings.HasSuffix(c.Request.URL.Path, "/") {
			c.Status(http.StatusNotFound)
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

// ListEmbeddedFiles returns a list of all embedded static files for debugging
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(EmbeddedStaticFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
