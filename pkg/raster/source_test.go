package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/errors"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadInline(t *testing.T) {
	data := encodePNG(t, 4, 3)
	b64 := base64.StdEncoding.EncodeToString(data)

	tests := []struct {
		name string
		src  ad.Source
	}{
		{"bare base64", ad.Source{Data: b64}},
		{"data uri", ad.Source{Data: "data:image/png;base64," + b64}},
		{"data uri in url", ad.Source{URL: "data:image/png;base64," + b64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, raw, err := Load(context.Background(), tt.src, nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("bounds = %v, want 4x3", img.Bounds())
			}
			if !bytes.Equal(raw, data) {
				t.Error("Load() raw bytes differ from input")
			}
		})
	}
}

func TestLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	if err := os.WriteFile(path, encodePNG(t, 2, 2), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(context.Background(), ad.Source{Path: path}, nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, _, err := Load(context.Background(), ad.Source{Path: path + ".missing"}, nil)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  ad.Source
		code errors.Code
	}{
		{"empty", ad.Source{}, errors.ErrCodeInvalidImage},
		{"not base64", ad.Source{Data: "!!!"}, errors.ErrCodeInvalidImage},
		{"data uri without base64", ad.Source{Data: "data:image/png,abc"}, errors.ErrCodeInvalidImage},
		{"not an image", ad.Source{Data: base64.StdEncoding.EncodeToString([]byte("hello"))}, errors.ErrCodeDecodeFailed},
		{"bad scheme", ad.Source{URL: "ftp://example.com/a.png"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(context.Background(), tt.src, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadURL(t *testing.T) {
	data := encodePNG(t, 3, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, _, err := Load(context.Background(), ad.Source{URL: srv.URL + "/bg.png"}, srv.Client())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d, want 3", img.Bounds().Dx())
	}

	_, _, err = Load(context.Background(), ad.Source{URL: srv.URL + "/missing.png"}, srv.Client())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(404) error = %v, want code %v", err, errors.ErrCodeNotFound)
	}
}

// pngHeader returns a PNG signature and IHDR chunk for a w×h RGBA image
// with no pixel data, enough for image.DecodeConfig.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 6 // bit depth, color type RGBA

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeRejectsOversizedImages(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		code errors.Code
	}{
		{"20000x20000", pngHeader(20000, 20000), errors.ErrCodeInvalidImage},
		{"long strip", pngHeader(1_000_000, 41), errors.ErrCodeInvalidImage},
		{"not an image", []byte("hello"), errors.ErrCodeDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.data)
			if img != nil {
				t.Errorf("Decode() returned an image")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := Decode(encodePNG(t, 1080, 1920)); err != nil {
		t.Errorf("Decode(story size) error = %v", err)
	}
}

func TestLoadInlineOversized(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(pngHeader(20000, 20000))
	_, _, err := Load(context.Background(), ad.Source{Data: b64}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("Load() error = %v, want INVALID_IMAGE", err)
	}
}
