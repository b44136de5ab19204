package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cbor "github.com/brianolson/cbor_go"
	"github.com/wbrown/tracescore"
	"github.com/wbrown/tracescore/imageutil"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// newTestServer returns a server defaulting to Go Regular with Go Mono
// registered as "GoMono".
func newTestServer(t *testing.T) *ScoreServer {
	t.Helper()
	f, err := tracescore.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("Failed to parse font: %v", err)
	}
	mono, err := tracescore.ParseFont(gomono.TTF)
	if err != nil {
		t.Fatalf("Failed to parse font: %v", err)
	}
	ss := NewScoreServer(f)
	ss.AddFont("GoMono", mono)
	return ss
}

func getReferencePNG(t *testing.T, ss *ScoreServer, target string) []byte {
	t.Helper()
	rec := httptest.NewRecorder()
	ss.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
	}
	return rec.Body.Bytes()
}

func scoreBody(t *testing.T, imageData, char string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(ScoreRequest{ImageData: imageData, Character: char})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	return bytes.NewReader(body)
}

func drawingDataURL(t *testing.T, char string) string {
	t.Helper()
	data, err := tracescore.RenderReference(char, goregular.TTF, 160)
	if err != nil {
		t.Fatalf("Failed to render drawing: %v", err)
	}
	return tracescore.EncodeDataURL(data)
}

func TestScoreEndpointJSON(t *testing.T) {
	ss := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/score", scoreBody(t, drawingDataURL(t, "B"), "B"))
	rec := httptest.NewRecorder()

	ss.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	var resp ScoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Score < 80 || resp.Stars != 5 {
		t.Errorf("Expected five stars, got score %d (%d stars)", resp.Score, resp.Stars)
	}
	if resp.Feedback == "" {
		t.Error("Expected feedback text")
	}
	if resp.Details.Accuracy <= 0 {
		t.Errorf("Expected accuracy details, got %+v", resp.Details)
	}
	if !strings.HasPrefix(resp.ReferenceImage, "data:image/png;base64,") {
		t.Errorf("Expected a PNG data URL, got %.40q", resp.ReferenceImage)
	}
}

func TestScoreEndpointCBOR(t *testing.T) {
	ss := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/score", scoreBody(t, drawingDataURL(t, "B"), "B"))
	req.Header.Set("Accept", "application/cbor")
	rec := httptest.NewRecorder()

	ss.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Errorf("Expected application/cbor, got %q", ct)
	}
	var resp ScoreResponse
	if err := cbor.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode cbor: %v", err)
	}
	if resp.Stars < 1 || resp.Stars > 5 {
		t.Errorf("Expected 1-5 stars, got %d", resp.Stars)
	}
}

func TestScoreEndpointErrors(t *testing.T) {
	ss := newTestServer(t)
	drawing := drawingDataURL(t, "A")
	huge, err := imageutil.EncodePNG(image.NewGray(image.Rect(0, 0, 1, imageutil.MaxImageSide+1)))
	if err != nil {
		t.Fatalf("Failed to encode oversized drawing: %v", err)
	}

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"empty character", http.MethodPost, `{"image_data":"` + drawing + `","character":""}`, http.StatusBadRequest},
		{"bad base64", http.MethodPost, `{"image_data":"!!!","character":"A"}`, http.StatusBadRequest},
		{"not an image", http.MethodPost, `{"image_data":"aGVsbG8=","character":"A"}`, http.StatusBadRequest},
		{"oversized image", http.MethodPost, `{"image_data":"` + tracescore.EncodeDataURL(huge) + `","character":"A"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/score", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ss.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestReferenceEndpoint(t *testing.T) {
	ss := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/reference?character=R&size=64", nil)
	rec := httptest.NewRecorder()

	ss.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	img, _, err := imageutil.Decode(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Width() != 64 || img.Height() != 64 {
		t.Errorf("Expected 64x64, got %dx%d", img.Width(), img.Height())
	}

	// A second request is served from the cache with the same bytes.
	rec2 := httptest.NewRecorder()
	ss.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/reference?character=R&size=64", nil))
	if !bytes.Equal(rec.Body.Bytes(), rec2.Body.Bytes()) {
		t.Error("Cached reference differs")
	}
}

func TestReferenceEndpointFonts(t *testing.T) {
	ss := newTestServer(t)

	regular := getReferencePNG(t, ss, "/reference?character=g&size=100")
	mono := getReferencePNG(t, ss, "/reference?character=g&size=100&font=GoMono")
	unknown := getReferencePNG(t, ss, "/reference?character=g&size=100&font=Nope")

	if bytes.Equal(regular, mono) {
		t.Error("Selecting GoMono should render a different glyph")
	}
	if !bytes.Equal(regular, unknown) {
		t.Error("An unknown font should fall back to the default")
	}

	_, f := ss.fontFor("GoMono")
	want, err := tracescore.RenderReferenceFont(f, 'g', 100)
	if err != nil {
		t.Fatalf("RenderReferenceFont failed: %v", err)
	}
	if !bytes.Equal(mono, want) {
		t.Error("Served reference should match a direct render from the parsed font")
	}
	if len(ss.pngCache) != 2 {
		t.Errorf("Expected 2 cached references (unknown font shares the default), got %d", len(ss.pngCache))
	}
}

func TestScoreEndpointFont(t *testing.T) {
	ss := newTestServer(t)

	score := func(font string) ScoreResponse {
		body, err := json.Marshal(ScoreRequest{ImageData: drawingDataURL(t, "a"), Character: "a", Font: font})
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		rec := httptest.NewRecorder()
		ss.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/score", bytes.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("font %q: expected 200, got %d: %s", font, rec.Code, rec.Body.String())
		}
		var resp ScoreResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return resp
	}

	regular, mono, unknown := score(""), score("GoMono"), score("Nope")
	if regular.ReferenceImage == mono.ReferenceImage {
		t.Error("Scoring against GoMono should use the GoMono reference")
	}
	if unknown.ReferenceImage != regular.ReferenceImage || unknown.Score != regular.Score {
		t.Error("An unknown font should score like the default")
	}
}

func TestReferenceCacheBounded(t *testing.T) {
	ss := newTestServer(t)
	ss.cacheLimit = 4

	for _, c := range "ABCDEFGHIJ" {
		if _, err := ss.getReference("", ss.font, c, 32); err != nil {
			t.Fatalf("getReference(%q) failed: %v", c, err)
		}
		if len(ss.pngCache) > ss.cacheLimit {
			t.Fatalf("Cache grew to %d entries, limit %d", len(ss.pngCache), ss.cacheLimit)
		}
	}
	if _, ok := ss.pngCache[referenceKey{r: 'J', size: 32}]; !ok {
		t.Error("Most recent reference should be cached")
	}
}

func TestLoadFontDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0644)
	os.WriteFile(filepath.Join(dir, "GoMono.TTF"), gomono.TTF, 0644)
	os.WriteFile(filepath.Join(dir, "README.txt"), []byte("fonts"), 0644)

	fonts, err := loadFontDir(dir)
	if err != nil {
		t.Fatalf("loadFontDir failed: %v", err)
	}
	if len(fonts) != 2 || fonts["Go-Regular"] == nil || fonts["GoMono"] == nil {
		t.Errorf("Expected Go-Regular and GoMono, got %v", fonts)
	}

	os.WriteFile(filepath.Join(dir, "Broken.ttf"), []byte("not a font"), 0644)
	if _, err := loadFontDir(dir); !errors.Is(err, tracescore.ErrFontParse) {
		t.Errorf("Expected ErrFontParse, got %v", err)
	}
	if _, err := loadFontDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for a missing directory")
	}
}

func TestReferenceEndpointErrors(t *testing.T) {
	ss := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"wrong method", http.MethodPost, "/reference?character=A", http.StatusMethodNotAllowed},
		{"no character", http.MethodGet, "/reference", http.StatusBadRequest},
		{"bad size", http.MethodGet, "/reference?character=A&size=abc", http.StatusBadRequest},
		{"zero size", http.MethodGet, "/reference?character=A&size=0", http.StatusBadRequest},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ss.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBatchScoring(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png"} {
		data, err := tracescore.RenderReference("C", goregular.TTF, 120)
		if err != nil {
			t.Fatalf("Failed to render: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0644)

	paths, err := listImages(dir)
	if err != nil {
		t.Fatalf("listImages failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Expected 3 images, got %v", paths)
	}
	if filepath.Base(paths[0]) != "a.png" {
		t.Errorf("Expected sorted paths, got %v", paths)
	}

	f, err := tracescore.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	results := scoreAll(context.Background(), paths, 'C', f, 2)
	for _, res := range results {
		switch filepath.Base(res.Path) {
		case "broken.jpg":
			if res.Err == nil {
				t.Error("Expected decode error for broken.jpg")
			}
		default:
			if res.Err != nil {
				t.Errorf("%s: %v", res.Path, res.Err)
			} else if res.Result.Stars != 5 {
				t.Errorf("%s: expected five stars, got %d", res.Path, res.Result.Stars)
			}
		}
	}
}

func TestScoreEndpointDebug(t *testing.T) {
	ss := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/score?debug=1", scoreBody(t, drawingDataURL(t, "k"), "k"))
	rec := httptest.NewRecorder()

	ss.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ScoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for _, stage := range []string{"drawn_centered", "reference_centered", "drawn_unsanded", "drawn_sanded", "reference_normalized"} {
		if !strings.HasPrefix(resp.Debug[stage], "data:image/png;base64,") {
			t.Errorf("Missing debug image %q", stage)
		}
	}
}
