package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"roomies/internal/infra/storage"
	"roomies/internal/infra/storage/local"
)

const testBucket = "roomies-img"

type fakeObject struct {
	body        []byte
	contentType string
}

// fakeS3 answers the handful of path-style requests the image store makes.
type fakeS3 struct {
	mu           sync.Mutex
	bucketExists bool
	denyChecks   int
	bucketChecks int
	objects      map[string]fakeObject
}

func newFakeS3(t *testing.T, f *fakeS3) *ImageStore {
	t.Helper()
	if f.objects == nil {
		f.objects = map[string]fakeObject{}
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	store, err := NewImageStore(Options{
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test-secret",
		Bucket:    testBucket,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != testBucket {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
		return
	}
	switch {
	case key == "" && r.Method == http.MethodHead:
		f.bucketChecks++
		if f.denyChecks > 0 {
			f.denyChecks--
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.bucketExists = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = fakeObject{body: body, contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		obj, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("Content-Length", fmt.Sprint(len(obj.body)))
		w.Header().Set("Last-Modified", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(obj.body)
		}
	default:
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{bucketExists: true, objects: map[string]fakeObject{
		"kos/front.png": {body: []byte("png-bytes"), contentType: "image/png"},
	}}
	store := newFakeS3(t, fake)

	obj, err := store.Open(context.Background(), "/kos/front.png")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	if string(body) != "png-bytes" || obj.Size != 9 || obj.ContentType != "image/png" {
		t.Fatalf("object=%+v body=%q", obj, body)
	}

	if _, err := store.Open(context.Background(), "kos/missing.png"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("missing key err=%v want ErrObjectNotFound", err)
	}
	if _, err := store.Open(context.Background(), "../etc/passwd"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("traversal err=%v want ErrObjectNotFound", err)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	s := &ImageStore{bucket: testBucket}
	for _, code := range []string{"NoSuchKey", "NoSuchBucket"} {
		if err := s.translate("a.png", minio.ErrorResponse{Code: code, StatusCode: http.StatusNotFound}); !errors.Is(err, storage.ErrObjectNotFound) {
			t.Fatalf("%s: err=%v", code, err)
		}
	}
	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	err := s.translate("a.png", denied)
	if errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("access denied read as missing: %v", err)
	}
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) || resp.Code != "AccessDenied" {
		t.Fatalf("err=%v should wrap the store response", err)
	}
}

func TestPutRetriesFailedBucketCheck(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{denyChecks: 1}
	store := newFakeS3(t, fake)

	err := store.Put(context.Background(), "a.png", strings.NewReader("a"), 1, "image/png")
	if err == nil {
		t.Fatal("expected the first bucket check to fail")
	}
	if err := store.Put(context.Background(), "a.png", strings.NewReader("a"), 1, "image/png"); err != nil {
		t.Fatalf("second put: %v", err)
	}
	if err := store.Put(context.Background(), "b.png", strings.NewReader("b"), 1, "image/png"); err != nil {
		t.Fatalf("third put: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !fake.bucketExists {
		t.Fatal("bucket was not created")
	}
	if fake.bucketChecks != 2 {
		t.Fatalf("bucket checks=%d want 2", fake.bucketChecks)
	}
	if _, ok := fake.objects["a.png"]; !ok {
		t.Fatalf("objects=%v", fake.objects)
	}
}

func TestMirror(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "kos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kos", "front.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := local.NewImageStore(dir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	defer src.Close()

	fake := &fakeS3{}
	dst := newFakeS3(t, fake)

	n, err := Mirror(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if n != 2 {
		t.Fatalf("mirrored=%d want 2", n)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	var keys []string
	for k := range fake.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "kos/front.png" || keys[1] != "logo.jpg" {
		t.Fatalf("keys=%v", keys)
	}
	if ct := fake.objects["kos/front.png"].contentType; ct != "image/png" {
		t.Fatalf("content type=%q", ct)
	}
}
