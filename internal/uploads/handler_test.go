package uploads_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vigiapix/vigia/internal/uploads"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/lifecycle"
	"github.com/vigiapix/vigia/pkg/storage"
)

type fakeStore struct {
	blobs map[string][]byte
	types map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blobs: map[string][]byte{},
		types: map[string]string{},
	}
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.blobs[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.blobs[key]
	return ok, nil
}

func newTestHandler(store storage.System) *uploads.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return uploads.NewHandler(store, logger, 1<<20)
}

func authenticated(r *http.Request, subject string) *http.Request {
	ctx := identity.WithIdentity(r.Context(), &identity.Identity{Subject: subject})
	return r.WithContext(ctx)
}

func multipartRequest(t *testing.T, filename, contentType, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	r := httptest.NewRequest("POST", "/uploads", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestUpload(t *testing.T) {
	store := newFakeStore()
	r := authenticated(multipartRequest(t, "comprovante.png", "image/png", "fake image bytes"), "user-1")
	w := httptest.NewRecorder()

	newTestHandler(store).Upload(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp uploads.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !strings.HasPrefix(resp.Key, "user-1/") {
		t.Errorf("Key = %q, want caller-prefixed", resp.Key)
	}
	if !strings.HasSuffix(resp.Key, ".png") {
		t.Errorf("Key = %q, want original extension kept", resp.Key)
	}
	if resp.Filename != "comprovante.png" {
		t.Errorf("Filename = %q", resp.Filename)
	}
	if resp.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", resp.ContentType)
	}

	if string(store.blobs[resp.Key]) != "fake image bytes" {
		t.Errorf("stored content = %q", store.blobs[resp.Key])
	}
	if store.types[resp.Key] != "image/png" {
		t.Errorf("stored content type = %q", store.types[resp.Key])
	}
}

func TestUploadSniffsContentType(t *testing.T) {
	store := newFakeStore()
	r := authenticated(multipartRequest(t, "nota.txt", "application/octet-stream", "texto simples do comprovante"), "user-1")
	w := httptest.NewRecorder()

	newTestHandler(store).Upload(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp uploads.UploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.ContentType, "text/plain") {
		t.Errorf("ContentType = %q, want sniffed text/plain", resp.ContentType)
	}
}

func TestUploadUnauthenticated(t *testing.T) {
	r := multipartRequest(t, "a.png", "image/png", "x")
	w := httptest.NewRecorder()

	newTestHandler(newFakeStore()).Upload(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("other", "value")
	writer.Close()

	r := httptest.NewRequest("POST", "/uploads", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	r = authenticated(r, "user-1")
	w := httptest.NewRecorder()

	newTestHandler(newFakeStore()).Upload(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDownload(t *testing.T) {
	store := newFakeStore()
	store.blobs["user-1/abc.png"] = []byte("stored bytes")

	r := authenticated(httptest.NewRequest("GET", "/uploads/user-1/abc.png", nil), "user-1")
	r.SetPathValue("key", "user-1/abc.png")
	w := httptest.NewRecorder()

	newTestHandler(store).Download(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "stored bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "abc.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestDownloadOtherOwnerLooksMissing(t *testing.T) {
	store := newFakeStore()
	store.blobs["user-2/secret.png"] = []byte("not yours")

	r := authenticated(httptest.NewRequest("GET", "/uploads/user-2/secret.png", nil), "user-1")
	r.SetPathValue("key", "user-2/secret.png")
	w := httptest.NewRecorder()

	newTestHandler(store).Download(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDownloadMissingBlob(t *testing.T) {
	r := authenticated(httptest.NewRequest("GET", "/uploads/user-1/missing.png", nil), "user-1")
	r.SetPathValue("key", "user-1/missing.png")
	w := httptest.NewRecorder()

	newTestHandler(newFakeStore()).Download(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
