package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	cbor "github.com/brianolson/cbor_go"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/tracescore"
	"github.com/wbrown/tracescore/imageutil"
)

// maxRequestBytes bounds the body of a score request.
const maxRequestBytes = 16 << 20

// maxReferenceSize bounds the side length accepted by /reference.
const maxReferenceSize = 2048

// defaultCacheLimit is the number of reference PNGs kept in memory.
const defaultCacheLimit = 512

// ScoreServer serves drawing scores and reference glyphs over HTTP.
//
//	POST /score      {"image_data": ..., "character": "A", "font": "Name"}
//	GET  /reference  ?character=A&size=200&font=Name
//
// Requests name a font registered with AddFont. An empty or unknown name
// uses the default font.
type ScoreServer struct {
	font  *truetype.Font
	fonts map[string]*truetype.Font

	// Rendered reference PNGs keyed by font, character and size. Once
	// cacheLimit entries are held, an arbitrary entry is evicted per insert.
	pngCache     map[referenceKey][]byte
	pngCacheLock sync.Mutex
	cacheLimit   int
}

type referenceKey struct {
	font string
	r    rune
	size int
}

// ScoreRequest is the body of POST /score.
type ScoreRequest struct {
	// ImageData is base64 image bytes, raw or as a data URL.
	ImageData string `json:"image_data"`
	Character string `json:"character"`

	// Font names a registered font. Empty means the default.
	Font string `json:"font,omitempty"`
}

// ScoreDetails holds the sub-metric percentages.
type ScoreDetails struct {
	Coverage   float64 `json:"coverage" cbor:"coverage"`
	Accuracy   float64 `json:"accuracy" cbor:"accuracy"`
	Similarity float64 `json:"similarity" cbor:"similarity"`
}

// ScoreResponse is the body returned by POST /score.
type ScoreResponse struct {
	Score          int          `json:"score" cbor:"score"`
	Stars          int          `json:"stars" cbor:"stars"`
	Feedback       string       `json:"feedback" cbor:"feedback"`
	Details        ScoreDetails `json:"details" cbor:"details"`
	ReferenceImage string       `json:"reference_image" cbor:"reference_image"`

	// Debug maps stage names to PNG data URLs. Only set when the request
	// has ?debug=1.
	Debug map[string]string `json:"debug,omitempty" cbor:"debug"`
}

// NewScoreServer creates a server that renders references from font
// unless a request names another registered font.
func NewScoreServer(font *truetype.Font) *ScoreServer {
	out := new(ScoreServer)
	out.font = font
	out.fonts = make(map[string]*truetype.Font)
	out.pngCache = make(map[referenceKey][]byte)
	out.cacheLimit = defaultCacheLimit
	return out
}

// AddFont registers f under name. It must not be called once the server
// is handling requests.
func (ss *ScoreServer) AddFont(name string, f *truetype.Font) {
	ss.fonts[name] = f
}

// fontFor resolves a requested font name. Unknown names fall back to the
// default font, reported as "".
func (ss *ScoreServer) fontFor(name string) (string, *truetype.Font) {
	if f, ok := ss.fonts[name]; ok {
		return name, f
	}
	if name != "" {
		tracescore.Logger().Debug("unknown font, using default", "font", name)
	}
	return "", ss.font
}

func textResponse(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	w.Write([]byte(text))
}

func jsonResponse(w http.ResponseWriter, code int, ob interface{}) {
	jb, err := json.Marshal(ob)
	if err != nil {
		textResponse(w, http.StatusInternalServerError, "return value json encode error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jb)
}

func cborResponse(w http.ResponseWriter, code int, ob interface{}) {
	cb, err := cbor.Dumps(ob)
	if err != nil {
		textResponse(w, http.StatusInternalServerError, "return value cbor encode error")
		return
	}
	w.Header().Set("Content-Type", "application/cbor")
	w.WriteHeader(code)
	w.Write(cb)
}

func (ss *ScoreServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := tracescore.Logger()
	log.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	switch r.URL.Path {
	case "/score":
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			textResponse(w, http.StatusMethodNotAllowed, "POST only")
			return
		}
		ss.handleScore(w, r)
	case "/reference":
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet)
			textResponse(w, http.StatusMethodNotAllowed, "GET only")
			return
		}
		ss.handleReference(w, r)
	default:
		textResponse(w, http.StatusNotFound, "not found")
	}
}

func (ss *ScoreServer) handleScore(w http.ResponseWriter, r *http.Request) {
	log := tracescore.Logger()

	var req ScoreRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Warn("bad score request", "err", err)
		textResponse(w, http.StatusBadRequest, "bad request json")
		return
	}

	char, err := tracescore.FirstRune(req.Character)
	if err != nil {
		textResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := tracescore.DecodeDataURL(req.ImageData)
	if err != nil {
		textResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	img, format, err := imageutil.Decode(data)
	if err != nil {
		log.Warn("bad image decode", "err", err)
		textResponse(w, http.StatusBadRequest, "bad image")
		return
	}

	fontName, f := ss.fontFor(req.Font)
	res, err := tracescore.ScoreImage(img, char, f)
	if err != nil {
		log.Error("scoring failed", "err", err)
		textResponse(w, statusFor(err), err.Error())
		return
	}
	log.Info("scored", "char", string(char), "font", fontName, "format", format,
		"score", res.Score, "stars", res.Stars)

	out := ScoreResponse{
		Score:    int(res.Score),
		Stars:    int(res.Stars),
		Feedback: res.Feedback,
		Details: ScoreDetails{
			Coverage:   res.Coverage,
			Accuracy:   res.Accuracy,
			Similarity: res.Similarity,
		},
		ReferenceImage: tracescore.EncodeDataURL(res.Reference),
	}
	if r.URL.Query().Get("debug") == "1" {
		out.Debug, err = debugImages(img, char, f)
		if err != nil {
			log.Error("debug images failed", "err", err)
			textResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if strings.Contains(r.Header.Get("Accept"), "application/cbor") {
		cborResponse(w, http.StatusOK, out)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (ss *ScoreServer) handleReference(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	char, err := tracescore.FirstRune(q.Get("character"))
	if err != nil {
		textResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	size := tracescore.ReferenceSize
	if s := q.Get("size"); s != "" {
		size, err = strconv.Atoi(s)
		if err != nil || size < 1 || size > maxReferenceSize {
			textResponse(w, http.StatusBadRequest, "bad size")
			return
		}
	}

	fontName, f := ss.fontFor(q.Get("font"))
	pngbytes, err := ss.getReference(fontName, f, char, size)
	if err != nil {
		tracescore.Logger().Error("reference render failed", "char", string(char), "err", err)
		textResponse(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(pngbytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pngbytes)
}

// getReference returns the reference PNG for char at size in font f,
// registered as fontName, rendering it on first use. The lock is not held
// while rendering.
func (ss *ScoreServer) getReference(fontName string, f *truetype.Font, char rune, size int) ([]byte, error) {
	key := referenceKey{font: fontName, r: char, size: size}
	ss.pngCacheLock.Lock()
	pngbytes, ok := ss.pngCache[key]
	ss.pngCacheLock.Unlock()
	if ok {
		return pngbytes, nil
	}

	pngbytes, err := tracescore.RenderReferenceFont(f, char, size)
	if err != nil {
		return nil, err
	}
	ss.pngCacheLock.Lock()
	if _, ok := ss.pngCache[key]; !ok && len(ss.pngCache) >= ss.cacheLimit {
		for k := range ss.pngCache {
			delete(ss.pngCache, k)
			break
		}
	}
	ss.pngCache[key] = pngbytes
	ss.pngCacheLock.Unlock()
	return pngbytes, nil
}

// debugImages renders the intermediate scoring stages as data URLs.
func debugImages(img *imageutil.GrayImage, char rune, f *truetype.Font) (map[string]string, error) {
	out := make(map[string]string)
	for name, stage := range tracescore.DebugImages(img, char, f).Images() {
		pngbytes, err := imageutil.EncodePNG(stage.Gray)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tracescore.ErrEncode, err)
		}
		out[name] = tracescore.EncodeDataURL(pngbytes)
	}
	return out, nil
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracescore.ErrDecode), errors.Is(err, tracescore.ErrEmptyCharacter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
