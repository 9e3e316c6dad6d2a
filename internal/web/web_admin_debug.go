// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminTokenRequired guards debug routes with a bearer token checked against
// the configured bcrypt hash. Without a configured hash the routes stay off.
func (s *WebServer) AdminTokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := s.Config.Web.AdminTokenHash
		if hash == "" {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			c.Abort()
			return
		}

		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing admin token"})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid admin token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// debugCache exposes page cache statistics for operators
func (s *WebServer) debugCache(c *gin.Context) {
	stats := s.PageCache.Stats()
	stats["size_human"] = s.PageCache.GetCachedSizeHuman()
	c.JSON(http.StatusOK, gin.H{"ok": true, "page_cache": stats})
}
