package previewserver

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lmittmann/tint"
	"github.com/pgmview/pgmview/pkg/netpbm"
	"github.com/stretchr/testify/require"
	"gotest.tools/assert"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

var gradient = []byte("P2\n5 2\n255\n0 51 102 153 255\n0 51 102 153 255\n")

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *mockEventLogger) {
	t.Helper()
	events := &mockEventLogger{}
	if cfg.EventLogger == nil {
		cfg.EventLogger = events
	}
	cfg.Logger = testLogger(t)

	h, err := New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, events
}

func post(t *testing.T, url, contentType string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, contentType, bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestDecode_OK(t *testing.T) {
	srv, events := newTestServer(t, Config{})

	resp, body := post(t, srv.URL+"/decode", "image/x-portable-graymap", gradient)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out DecodeResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, DecodeResponse{
		Format:   "P2",
		Width:    5,
		Height:   2,
		MaxValue: 255,
		Samples:  []uint16{0, 51, 102, 153, 255, 0, 51, 102, 153, 255},
	}, out)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, "ok", ev.Outcome)
	assert.Equal(t, "P2", ev.Format)
	assert.Equal(t, len(gradient), ev.Bytes)
	assert.Equal(t, "/decode", ev.Route)
	require.NotEmpty(t, ev.ID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		status  int
		outcome string
		format  string
	}{
		{"unsupported", []byte("P9\n1 1\n255\n\x00"), http.StatusUnsupportedMediaType, "unsupported", ""},
		{"not implemented", []byte("P3\n1 1\n255\n1 2 3\n"), http.StatusUnsupportedMediaType, "unsupported", ""},
		{"truncated", []byte("P5\n2 2\n255\n\x01\x02"), http.StatusUnprocessableEntity, "malformed", "P5"},
		{"incomplete header", []byte("P5\n2"), http.StatusUnprocessableEntity, "malformed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, events := newTestServer(t, Config{})

			resp, body := post(t, srv.URL+"/decode", "application/octet-stream", tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
			require.Contains(t, string(body), "netpbm:")

			require.Len(t, events.events, 1)
			assert.Equal(t, tt.outcome, events.events[0].Outcome)
			assert.Equal(t, tt.format, events.events[0].Format)
			require.NotEmpty(t, events.events[0].Error)
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	srv, events := newTestServer(t, Config{MaxBodyBytes: 8})

	resp, _ := post(t, srv.URL+"/decode", "application/octet-stream", gradient)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	require.Len(t, events.events, 1)
	assert.Equal(t, "too_large", events.events[0].Outcome)
}

func TestRender_PNG(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	resp, body := post(t, srv.URL+"/render?as=png", "application/octet-stream", gradient)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, 5, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
}

func TestRender_Text(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	resp, body := post(t, srv.URL+"/render?as=text", "application/octet-stream", gradient)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, " ░▒▓█\n ░▒▓█\n", string(body))
}

func TestRender_Multipart(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "gradient.pgm")
	require.NoError(t, err)
	_, err = part.Write(gradient)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, body := post(t, srv.URL+"/render?as=text", mw.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Equal(t, " ░▒▓█\n ░▒▓█\n", string(body))
}

func TestRender_UnknownKind(t *testing.T) {
	srv, events := newTestServer(t, Config{})

	resp, _ := post(t, srv.URL+"/render?as=gif", "application/octet-stream", gradient)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, events.events)
}

func TestLoadedImage(t *testing.T) {
	img, err := netpbm.Parse(gradient)
	require.NoError(t, err)

	srv, _ := newTestServer(t, Config{Image: img, Source: "gradient.pgm"})

	resp, body := get(t, srv.URL+"/image.txt")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, " ░▒▓█\n ░▒▓█\n", string(body))

	resp, body = get(t, srv.URL+"/image.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = png.Decode(bytes.NewReader(body))
	require.NoError(t, err)

	resp, body = get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(body)
	require.Contains(t, page, "gradient.pgm")
	require.Contains(t, page, "5 x 2")
	require.Contains(t, page, `src="image.png"`)
}

func TestNoLoadedImage(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	resp, _ := get(t, srv.URL+"/image.png")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/image.txt")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "No image loaded.")
	require.NotContains(t, string(body), `src="image.png"`)
}

func TestPage_EscapesSource(t *testing.T) {
	img, err := netpbm.Parse(gradient)
	require.NoError(t, err)

	srv, _ := newTestServer(t, Config{Image: img, Source: "<script>x</script>.pgm"})
	_, body := get(t, srv.URL+"/")
	require.NotContains(t, string(body), "<script>x</script>")
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	post(t, srv.URL+"/decode", "application/octet-stream", gradient)
	post(t, srv.URL+"/decode", "application/octet-stream", gradient)
	post(t, srv.URL+"/decode", "application/octet-stream", []byte("P9\n"))

	resp, body := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	text := string(body)
	require.Contains(t, text, `pgmview_decodes_total{format="P2",outcome="ok"} 2`)
	require.Contains(t, text, `pgmview_decodes_total{format="unknown",outcome="unsupported"} 1`)
	require.Contains(t, text, "pgmview_decode_bytes_count 3")
}

func TestServersHaveSeparateMetrics(t *testing.T) {
	a, _ := newTestServer(t, Config{})
	b, _ := newTestServer(t, Config{})

	post(t, a.URL+"/decode", "application/octet-stream", gradient)

	_, body := get(t, b.URL+"/metrics")
	require.NotContains(t, string(body), `outcome="ok"`)
}
