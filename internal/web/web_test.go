package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/data-tales/paw-gallery/internal/config"
	"github.com/data-tales/paw-gallery/internal/dataset"
	"github.com/data-tales/paw-gallery/internal/models"
)

const testDatasetJSON = `{
  "meta": {"language": "de"},
  "characters": [
    {
      "id": "zuma",
      "name": "Zuma",
      "profile_flat": {"Spezies": "Labrador"},
      "source": {"page_url": "https://example.org/zuma", "attribution": "Wiki"}
    },
    {
      "id": "chase",
      "name": "Chase",
      "profile_flat": {"Spezies": "Schäferhund", "Beruf": "Polizeihund"},
      "image": {"local_path": "images/chase.jpg"},
      "source": {"page_url": "https://example.org/chase", "attribution": "Wiki"}
    },
    {
      "id": "Broken!",
      "name": "Kaputt",
      "profile_flat": {"Spezies": "Fehler"}
    }
  ]
}`

func newTestServer(t *testing.T) *WebServer {
	t.Helper()

	baseDir := t.TempDir()
	jsonPath := filepath.Join(baseDir, "characters.json")
	if err := os.WriteFile(jsonPath, []byte(testDatasetJSON), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "images"), 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	if err := os.WriteFile(filepath.Join(baseDir, "images", "chase.jpg"), []byte("fake-jpg-bytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	cfg := config.NewDefaultConfig()
	cfg.Web.StaticDir = "" // use embedded static files
	cfg.Data.BaseDir = baseDir
	cfg.Data.JSONPath = jsonPath

	ds, err := dataset.Load(jsonPath)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	server := NewServer(ds, cfg)
	server.TemplateDir = "../../web/templates"
	t.Cleanup(server.Stop)
	return server
}

func doRequest(s *WebServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Router.ServeHTTP(w, req)
	return w
}

func TestListCharacters(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/api/v1/characters")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.CharacterListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok=true")
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 characters (broken record skipped), got %d", resp.Count)
	}
	if resp.Characters[0].ID != "chase" || resp.Characters[1].ID != "zuma" {
		t.Errorf("expected name order chase, zuma; got %s, %s", resp.Characters[0].ID, resp.Characters[1].ID)
	}
	if resp.Characters[0].ImageURL != "/media/images/chase.jpg" {
		t.Errorf("unexpected image url: %q", resp.Characters[0].ImageURL)
	}
	if resp.Characters[1].ImageURL != "" {
		t.Errorf("expected empty image url for zuma, got %q", resp.Characters[1].ImageURL)
	}
}

func TestGetCharacter(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/api/v1/characters/chase")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.CharacterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Character == nil || resp.Character.ID != "chase" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.Character.ProfileFlat["Beruf"] != "Polizeihund" {
		t.Errorf("lookup must return the stored record, got %#v", resp.Character.ProfileFlat)
	}

	w = doRequest(s, "GET", "/api/v1/characters/skye")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for absent id, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not found") {
		t.Errorf("expected not found error, got %s", w.Body.String())
	}

	w = doRequest(s, "GET", "/api/v1/characters/Nope%21")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid id, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid id") {
		t.Errorf("expected invalid id error, got %s", w.Body.String())
	}
}

func TestListingDeterministic(t *testing.T) {
	s := newTestServer(t)

	first := doRequest(s, "GET", "/api/v1/characters")
	second := doRequest(s, "GET", "/api/v1/characters")
	if first.Body.String() != second.Body.String() {
		t.Error("repeated listing requests must be byte-identical")
	}

	// Simulate a restart: reload the same file into a fresh server
	ds, err := dataset.Load(s.Config.Data.JSONPath)
	if err != nil {
		t.Fatalf("reload dataset: %v", err)
	}
	restarted := NewServer(ds, s.Config)
	restarted.TemplateDir = s.TemplateDir
	defer restarted.Stop()

	third := doRequest(restarted, "GET", "/api/v1/characters")
	if first.Body.String() != third.Body.String() {
		t.Error("listing must be byte-identical across restarts of an unchanged file")
	}
}

func TestMediaFile(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/media/images/chase.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "fake-jpg-bytes" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
	cc := w.Header().Get("Cache-Control")
	if !strings.Contains(cc, "immutable") || !strings.Contains(cc, "max-age=604800") {
		t.Errorf("unexpected Cache-Control: %q", cc)
	}
}

func TestMediaRefusesEscapes(t *testing.T) {
	s := newTestServer(t)

	testCases := []string{
		"/media/characters.json",           // outside images/
		"/media/images/../characters.json", // climbs out of images/
		"/media/images/../../characters.json",
		"/media/images/missing.jpg", // inside but absent
	}
	for _, path := range testCases {
		w := doRequest(s, "GET", path)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestGalleryPage(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Chase") || !strings.Contains(body, "Zuma") {
		t.Error("gallery page must list all characters")
	}
	if !strings.Contains(body, "/media/images/chase.jpg") {
		t.Error("gallery page must reference character images")
	}

	// Second request is served from the page cache and identical
	cached := doRequest(s, "GET", "/")
	if cached.Body.String() != body {
		t.Error("cached gallery page differs from rendered page")
	}
}

func TestCharacterPage(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/characters/chase")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Polizeihund") {
		t.Error("detail page must render the profile")
	}

	w = doRequest(s, "GET", "/characters/skye")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown character, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats["total_characters"].(float64) != 2 {
		t.Errorf("expected 2 total characters, got %v", stats["total_characters"])
	}
	if stats["with_images"].(float64) != 1 {
		t.Errorf("expected 1 with images, got %v", stats["with_images"])
	}
}

func TestPingAndAPIRedirect(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, "GET", "/ping")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("expected pong, got %d %q", w.Code, w.Body.String())
	}

	w = doRequest(s, "GET", "/api")
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/help" {
		t.Errorf("expected redirect to /help, got %q", loc)
	}
}

func TestDebugCacheAuth(t *testing.T) {
	s := newTestServer(t)

	// Without a configured hash the route pretends not to exist
	w := doRequest(s, "GET", "/debug/cache")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without configured hash, got %d", w.Code)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	s.Config.Web.AdminTokenHash = string(hash)

	w = doRequest(s, "GET", "/debug/cache")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/debug/cache", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	s.Router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/debug/cache", nil)
	req.Header.Set("X-Admin-Token", "sekrit")
	s.Router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "page_cache") {
		t.Errorf("expected cache stats, got %s", recorder.Body.String())
	}
}

func TestMediaURLForLocalPath(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"images/chase.jpg", "/media/images/chase.jpg"},
		{"/images/chase.jpg", "/media/images/chase.jpg"},
		{" images/zuma.png ", "/media/images/zuma.png"},
		{"characters.json", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := MediaURLForLocalPath(tc.in); got != tc.want {
			t.Errorf("MediaURLForLocalPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
