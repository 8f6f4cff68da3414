package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"

	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
)

func TestReadImage(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		max      int64
		wantType string
		wantExt  string
		wantErr  error
	}{
		{name: "png", data: pngBytes, max: 1024, wantType: "image/png", wantExt: ".png"},
		{name: "jpeg", data: jpegBytes, max: 1024, wantType: "image/jpeg", wantExt: ".jpg"},
		{name: "gif", data: gifBytes, max: 1024, wantType: "image/gif", wantExt: ".gif"},
		{name: "webp", data: webpBytes, max: 1024, wantType: "image/webp", wantExt: ".webp"},
		{name: "text_rejected", data: []byte("just some text, not an image"), max: 1024, wantErr: biddingerrors.ErrUnsupportedMedia},
		{name: "pdf_rejected", data: []byte("%PDF-1.4\n%âãÏÓ\n"), max: 1024, wantErr: biddingerrors.ErrUnsupportedMedia},
		{name: "too_large", data: pngBytes, max: 10, wantErr: biddingerrors.ErrValidation},
		{name: "empty", data: nil, max: 1024, wantErr: biddingerrors.ErrValidation},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			img, err := ReadImage(bytes.NewReader(tc.data), tc.max)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantType, img.ContentType)
			require.Equal(t, tc.wantExt, img.Extension)
			require.EqualValues(t, len(tc.data), img.Size())
		})
	}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := ObjectKey("properties", ".png", now)
	b := ObjectKey("properties", ".png", now)
	require.True(t, strings.HasPrefix(a, "properties/2024/06/"))
	require.True(t, strings.HasSuffix(a, ".png"))
	require.NotEqual(t, a, b)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(ctx, "properties/2024/06/a.png", "image/png", bytes.NewReader(pngBytes), int64(len(pngBytes)))
	require.NoError(t, err)
	require.Equal(t, "/uploads/properties/2024/06/a.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "properties", "2024", "06", "a.png"))
	require.NoError(t, err)
	require.Equal(t, pngBytes, written)

	require.NoError(t, store.Delete(ctx, "properties/2024/06/a.png"))
	require.NoError(t, store.Delete(ctx, "properties/2024/06/a.png"))
	_, err = os.Stat(filepath.Join(dir, "properties", "2024", "06", "a.png"))
	require.True(t, os.IsNotExist(err))

	for _, bad := range []string{"", "../escape.png", "/etc/passwd", "a/../../b.png"} {
		_, err := store.Save(ctx, bad, "image/png", bytes.NewReader(pngBytes), 1)
		require.Error(t, err, bad)
	}
}

func TestNew_SelectsDriver(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicBaseURL: "/uploads"})
	require.NoError(t, err)
	require.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"})
	require.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Driver: "s3"})
	require.Error(t, err)
}

func TestS3Store_AgainstFakeEndpoint(t *testing.T) {
	var mu sync.Mutex
	objects := map[string][]byte{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = body
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			delete(objects, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), config.StorageConfig{
		Bucket:       "images",
		Region:       "us-east-1",
		Endpoint:     srv.URL,
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "profiles/u1.png", "image/png", bytes.NewReader(pngBytes), int64(len(pngBytes)))
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/images/profiles/u1.png", url)

	mu.Lock()
	_, stored := objects["/images/profiles/u1.png"]
	mu.Unlock()
	require.True(t, stored)

	require.NoError(t, store.Delete(context.Background(), "profiles/u1.png"))
	mu.Lock()
	require.Empty(t, objects)
	mu.Unlock()
}

func TestObjectBaseURL(t *testing.T) {
	require.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", objectBaseURL("b", "eu-west-1", "", false))
	require.Equal(t, "http://minio:9000/b", objectBaseURL("b", "us-east-1", "http://minio:9000", true))
	require.Equal(t, "https://b.cdn.example.com", objectBaseURL("b", "us-east-1", "https://cdn.example.com", false))
}
