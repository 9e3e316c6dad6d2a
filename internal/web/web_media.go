// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// MediaAllowedPrefix restricts media serving to the images subtree of the
// data dir; everything else in there (the dataset JSON, crawl reports) must
// not be reachable over HTTP.
const MediaAllowedPrefix = "images/"

// MediaURLForLocalPath maps a dataset-relative image path to its public URL.
// Returns "" for paths outside the allowed subtree.
func MediaURLForLocalPath(localPath string) string {
	lp := strings.TrimPrefix(strings.TrimSpace(localPath), "/")
	if !strings.HasPrefix(lp, MediaAllowedPrefix) {
		return ""
	}
	return "/media/" + lp
}

// mediaFile serves a crawled image from below the data dir
func (s *WebServer) mediaFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	if !strings.HasPrefix(rel, MediaAllowedPrefix) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}

	// Resolve against the images subtree itself so a ../ inside the rel path
	// cannot climb back up to the dataset file next to it.
	imagesDir := filepath.Join(s.Config.Data.BaseDir, "images")
	abs, err := safeJoin(imagesDir, strings.TrimPrefix(rel, MediaAllowedPrefix))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
		return
	}

	// Crawled images never change, let browsers and CDNs keep them
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", s.Config.Data.MediaMaxAge))
	c.File(abs)
}

// safeJoin resolves rel below base and refuses anything that escapes it
// (.. segments, symlinks pointing outside).
func safeJoin(base, rel string) (string, error) {
	baseReal, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(baseReal); err == nil {
		baseReal = resolved
	}

	candidate := filepath.Join(baseReal, filepath.FromSlash(rel))
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	}

	if candidate != baseReal && !strings.HasPrefix(candidate, baseReal+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes media base dir", rel)
	}
	return candidate, nil
}
