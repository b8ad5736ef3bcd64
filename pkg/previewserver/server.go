// Package previewserver serves decoded netpbm images over HTTP: an HTML
// preview page, PNG and text renderings, a JSON decode endpoint and
// prometheus metrics.
package previewserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/pgmview/pgmview/pkg/render"
)

// DefaultMaxBodyBytes limits uploads to /decode and /render.
const DefaultMaxBodyBytes = 64 << 20

// Config configures a preview server.
type Config struct {
	// Decoder parses uploads. If nil, a default decoder is used.
	Decoder *netpbm.Decoder

	// Image is served at /image.png and /image.txt. May be nil.
	Image  *netpbm.Image
	Source string

	Logger      *slog.Logger
	EventLogger EventLogger

	MaxBodyBytes   int64
	RequestTimeout time.Duration // default 60s
}

// DecodeResponse is the body of a successful POST /decode.
type DecodeResponse struct {
	Format   string   `json:"format"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	MaxValue uint16   `json:"maxValue"`
	Samples  []uint16 `json:"samples"`
}

type server struct {
	decoder     *netpbm.Decoder
	image       *netpbm.Image
	source      string
	log         *slog.Logger
	eventLogger EventLogger
	maxBody     int64
	metrics     *metrics
	page        *page
}

// New returns the router for a preview server, ready to be passed to
// http.ListenAndServe.
func New(cfg Config) (http.Handler, error) {
	s := &server{
		decoder:     cfg.Decoder,
		image:       cfg.Image,
		source:      cfg.Source,
		log:         cfg.Logger,
		eventLogger: cfg.EventLogger,
		maxBody:     cfg.MaxBodyBytes,
		metrics:     newMetrics(),
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.decoder == nil {
		s.decoder = netpbm.NewDecoder(netpbm.WithLogger(s.log))
	}
	if s.eventLogger == nil {
		s.eventLogger = NewNoopEventLogger()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	p, err := newPage()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	s.page = p

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/", s.index)
	r.Get("/image.png", s.loadedImage(render.PNG, "image/png"))
	r.Get("/image.txt", s.loadedImage(render.Text, "text/plain; charset=utf-8"))
	r.Post("/decode", s.decode)
	r.Post("/render", s.render)
	r.Handle("/metrics", s.metrics.handler())

	return r, nil
}

func (s *server) index(w http.ResponseWriter, r *http.Request) {
	html, err := s.page.render(s)
	if err != nil {
		s.log.Warn("unable to render page", "error", err)
		textError(w, http.StatusInternalServerError, "unable to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html)
}

type renderFunc func(io.Writer, *netpbm.Image) error

func (s *server) loadedImage(fn renderFunc, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.image == nil {
			textError(w, http.StatusNotFound, "no image loaded")
			return
		}
		s.writeRendered(w, fn, contentType, s.image)
	}
}

func (s *server) decode(w http.ResponseWriter, r *http.Request) {
	img, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	out, err := json.Marshal(&DecodeResponse{
		Format:   img.Format.String(),
		Width:    img.Width,
		Height:   img.Height,
		MaxValue: img.MaxValue,
		Samples:  img.Data,
	})
	if err != nil {
		s.log.Warn("unable to jsonify response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.log.Warn("unable to write response", "error", err)
	}
}

func (s *server) render(w http.ResponseWriter, r *http.Request) {
	var (
		fn          renderFunc
		contentType string
	)
	switch as := r.URL.Query().Get("as"); as {
	case "", "png":
		fn, contentType = render.PNG, "image/png"
	case "text":
		fn, contentType = render.Text, "text/plain; charset=utf-8"
	default:
		textError(w, http.StatusBadRequest, fmt.Sprintf("unknown rendering %q, expected png or text", as))
		return
	}

	img, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.writeRendered(w, fn, contentType, img)
}

func (s *server) writeRendered(w http.ResponseWriter, fn renderFunc, contentType string, img *netpbm.Image) {
	var buf bytes.Buffer
	if err := fn(&buf, img); err != nil {
		s.log.Warn("unable to render image", "error", err)
		textError(w, http.StatusInternalServerError, "unable to render image")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("unable to write response", "error", err)
	}
}

// decodeRequest reads and decodes the request body, recording metrics and a
// DecodeEvent. On failure it has already written the response.
func (s *server) decodeRequest(w http.ResponseWriter, r *http.Request) (*netpbm.Image, bool) {
	start := time.Now()
	event := &DecodeEvent{
		ID:        middleware.GetReqID(r.Context()),
		Timestamp: start,
		Route:     r.URL.Path,
		RemoteIP:  r.RemoteAddr,
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("%d", start.UnixNano())
	}

	data, err := s.readBody(w, r)
	event.Bytes = len(data)

	var img *netpbm.Image
	status := http.StatusOK
	switch {
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status, event.Outcome = http.StatusRequestEntityTooLarge, "too_large"
		} else {
			status, event.Outcome = http.StatusBadRequest, "unreadable"
		}
	default:
		img, err = s.decoder.Parse(data)
		status, event.Outcome = decodeStatus(err)
	}

	if img != nil {
		event.Format = img.Format.String()
		event.Width, event.Height, event.MaxValue = img.Width, img.Height, img.MaxValue
	} else if h, herr := netpbm.ParseHeader(data); herr == nil {
		event.Format = h.Format.String()
	}
	if err != nil {
		event.Error = err.Error()
	}
	event.Duration = time.Since(start)

	s.metrics.observe(event.Format, event.Outcome, event.Bytes)
	s.logEvent(r.Context(), event)

	if err != nil {
		textError(w, status, err.Error())
		return nil, false
	}
	return img, true
}

func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("unable to read upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// logEvent is best-effort; a failing event logger never fails the request.
func (s *server) logEvent(ctx context.Context, event *DecodeEvent) {
	if err := s.eventLogger.LogDecode(ctx, event); err != nil {
		s.log.Warn("failed to log decode event", "error", err)
	}
}

func decodeStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, "ok"
	case errors.Is(err, netpbm.ErrNotImplemented), errors.Is(err, netpbm.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "unsupported"
	default:
		return http.StatusUnprocessableEntity, "malformed"
	}
}

func textError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}
