// Package web provides the HTTP server and web interface for paw-gallery
package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/data-tales/paw-gallery/internal/cache"
	"github.com/data-tales/paw-gallery/internal/config"
	"github.com/data-tales/paw-gallery/internal/dataset"
	"github.com/data-tales/paw-gallery/internal/models"
)

// WebServer represents the web server
type WebServer struct {
	Data          *dataset.Dataset
	Router        *gin.Engine
	Config        *config.MainConfig
	PageCache     *cache.PageCache
	StartTime     time.Time // Track server start time for uptime calculations
	TemplateDir   string    // Directory holding base.html and page templates
	robotsTxtPath string    // Path to robots.txt file if it exists

	views    []*models.CharacterView // dataset order, built once
	viewByID map[string]*models.CharacterView
}

// TemplateData represents common template data
type TemplateData struct {
	Title          string
	PageH1         string
	PageSubtitle   string
	CurrentTime    string
	CharacterCount int
	AppVersion     string
	NavLinks       []NavLink
}

// NavLink is one entry of the cross-service navigation bar
type NavLink struct {
	Name string
	URL  string
}

// GalleryPageData represents data for the gallery page
type GalleryPageData struct {
	TemplateData
	Characters []*models.CharacterView
}

// CharacterPageData represents data for the character detail page
type CharacterPageData struct {
	TemplateData
	Character *models.CharacterView
}

// HelpPageData represents data for the API help page
type HelpPageData struct {
	TemplateData
}

// navLinks mirrors the services shown on the other data-tales frontends
var navLinks = []NavLink{
	{Name: "PLZ → Koordinaten", URL: "https://plz.data-tales.dev/"},
	{Name: "Paw Patrole Wiki", URL: "/"},
	{Name: "Paw Patrole Quiz", URL: "https://paw-quiz.data-tales.dev/"},
}

// NewServer creates a new web server instance
func NewServer(ds *dataset.Dataset, cfg *config.MainConfig) *WebServer {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if cfg.Web.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	// Apply security middleware
	router.Use(secure.New(secureConfig))

	server := &WebServer{
		Data:        ds,
		Router:      router,
		Config:      cfg,
		PageCache:   cache.NewPageCache(cfg.Web.PageCacheEntries, time.Duration(cfg.Web.PageCacheExpiry)*time.Minute),
		TemplateDir: "web/templates",
	}
	server.buildViews()

	// Check if robots.txt file exists
	robotsPath := "./web/robots.txt"
	if _, err := os.Stat(robotsPath); err == nil {
		server.robotsTxtPath = robotsPath
		log.Printf("[WEB]: Found robots.txt file at: %s", robotsPath)
	}

	// Add reverse proxy middleware for handling X-Forwarded headers
	router.Use(server.ReverseProxyMiddleware())
	router.Use(server.ApacheLogFormat())

	server.setupRoutes()
	return server
}

// buildViews derives the API/template facing views once; the dataset is
// immutable so these never change while the process runs.
func (s *WebServer) buildViews() {
	s.views = make([]*models.CharacterView, 0, s.Data.Len())
	s.viewByID = make(map[string]*models.CharacterView, s.Data.Len())
	for _, ch := range s.Data.Characters {
		view := &models.CharacterView{
			ID:           ch.ID,
			Name:         ch.Name,
			ImageURL:     MediaURLForLocalPath(ch.ImageLocalPath),
			ProfileFlat:  ch.ProfileFlat,
			ProfileItems: ch.ProfileItems(),
			SourceURL:    ch.SourcePageURL,
			SourceAttrib: ch.SourceAttrib,
		}
		s.views = append(s.views, view)
		s.viewByID[ch.ID] = view
	}
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.setupStaticRoutes()

	// Handle favicon to prevent 404 noise in the access log
	s.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	s.Router.GET("/robots.txt", func(c *gin.Context) {
		// Check if we have a physical robots.txt file
		if s.robotsTxtPath != "" {
			c.File(s.robotsTxtPath)
		} else {
			// Fallback to inline robots.txt with all allowed
			c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
		}
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})

	// Handle API base routes, they redirect to the help page
	s.Router.GET("/api", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/help")
	})
	s.Router.GET("/api/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/help")
	})
	s.Router.GET("/api/v1", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/help")
	})
	s.Router.GET("/api/v1/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/help")
	})

	// API routes, all public and read-only
	s.Router.GET("/api/v1/characters", s.listCharacters)
	s.Router.GET("/api/v1/characters/", s.listCharacters)
	s.Router.GET("/api/v1/characters/:id", s.getCharacter)
	s.Router.GET("/api/v1/stats", s.getStats)
	s.Router.GET("/api/v1/stats/", s.getStats)

	// Media passthrough for crawled images
	s.Router.GET("/media/*filepath", s.mediaFile)

	// Debug routes (admin token required, disabled without one)
	s.Router.GET("/debug/cache", s.AdminTokenRequired(), s.debugCache)

	// Page routes
	s.Router.GET("/", s.galleryPage)
	s.Router.GET("/characters/:id", s.characterPage)
	s.Router.GET("/characters/:id/", s.characterPage)
	s.Router.GET("/help", s.helpPage)
	s.Router.GET("/help/", s.helpPage)
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.Web.ListenPort)
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.Web.SSL {
		if s.Config.Web.CertFile == "" || s.Config.Web.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.Web.CertFile, s.Config.Web.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.Router.Run(addr)
}

// Stop releases background resources (page cache cleanup goroutine)
func (s *WebServer) Stop() {
	s.PageCache.Stop()
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-For to get the real client IP
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			// Take the first IP from the list (original client)
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				c.Request.RemoteAddr = clientIP + ":0"
			}
		}

		// Handle X-Real-IP as an alternative
		if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
			c.Request.RemoteAddr = realIP + ":0"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
