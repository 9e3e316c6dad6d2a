// Web server for the paw-gallery character dataset
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/data-tales/paw-gallery/internal/config"
	"github.com/data-tales/paw-gallery/internal/dataset"
	"github.com/data-tales/paw-gallery/internal/web"
)

var (
	// command-line flags
	webport          int
	webssl           bool
	webcertFile      string
	webkeyFile       string
	dataJSONPath     string
	dataBaseDir      string
	mediaMaxAge      int
	pageCacheEntries int
	pageCacheExpiry  int
	profAddr         string
)

var Prof *prof.Profiler

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: 8080 or $PORT)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dataJSONPath, "datajson", "", "Path to characters JSON file (default: data/characters.json or $DATA_JSON_PATH)")
	flag.StringVar(&dataBaseDir, "datadir", "", "Base directory holding the images/ subtree (default: data or $DATA_BASE_DIR)")
	flag.IntVar(&mediaMaxAge, "mediamaxage", 0, "Cache-Control max-age for media responses in seconds (default: 604800 or $MEDIA_MAX_AGE_SECONDS)")
	flag.IntVar(&pageCacheEntries, "pagecacheentries", 0, "maximum number of cached rendered pages (default: 256)")
	flag.IntVar(&pageCacheExpiry, "pagecacheexpiry", 0, "expiry of cached rendered pages in minutes (default: 15)")
	flag.StringVar(&profAddr, "prof", "", "start pprof web interface on this addr (e.g. :51111)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting paw-gallery web server (version: %s)", appVersion)

	// Environment first, flags override
	if err := mainConfig.LoadFromEnv(); err != nil {
		log.Fatalf("[WEB]: Failed to load environment config: %v", err)
	}
	if webport > 0 {
		mainConfig.Web.ListenPort = webport
	}
	if webssl {
		mainConfig.Web.SSL = true
		mainConfig.Web.CertFile = webcertFile
		mainConfig.Web.KeyFile = webkeyFile
	}
	if dataJSONPath != "" {
		mainConfig.Data.JSONPath = dataJSONPath
	}
	if dataBaseDir != "" {
		mainConfig.Data.BaseDir = dataBaseDir
	}
	if mediaMaxAge > 0 {
		mainConfig.Data.MediaMaxAge = mediaMaxAge
	}
	if pageCacheEntries > 0 {
		mainConfig.Web.PageCacheEntries = pageCacheEntries
	}
	if pageCacheExpiry > 0 {
		mainConfig.Web.PageCacheExpiry = pageCacheExpiry
	}

	// Validate port
	if mainConfig.Web.ListenPort < 1 || mainConfig.Web.ListenPort > 65535 {
		log.Fatalf("[WEB]: Invalid port number: %d", mainConfig.Web.ListenPort)
	}

	protocol := "http"
	if mainConfig.Web.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Listening on %s://localhost:%d", protocol, mainConfig.Web.ListenPort)
	log.Printf("[WEB]: Dataset: %s, media dir: %s", mainConfig.Data.JSONPath, mainConfig.Data.BaseDir)

	if profAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(profAddr)
		log.Printf("[WEB]: pprof web interface on %s", profAddr)
	}

	// The dataset is the only state; a broken file means nothing to serve
	ds, err := dataset.Load(mainConfig.Data.JSONPath)
	if err != nil {
		log.Fatalf("[WEB]: Failed to load dataset: %v", err)
	}

	server := web.NewServer(ds, mainConfig)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("[WEB]: Server error: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("[WEB]: Received signal %v, shutting down", sig)
		server.Stop()
	}
}
