package deploy

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 records PutObject calls.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]putRecord
	fail    bool
}

type putRecord struct {
	body         string
	contentType  string
	cacheControl string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail {
		return nil, context.DeadlineExceeded
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = make(map[string]putRecord)
	}
	f.objects[*in.Key] = putRecord{
		body:         string(body),
		contentType:  *in.ContentType,
		cacheControl: *in.CacheControl,
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for k := range f.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func scaffoldDist(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":        "<html></html>",
		"app.a1b2c3d4.js":   "console.log(1)",
		"css/site.css":      "body{}",
		"icons/favicon.png": "png",
	}
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUploadAllFiles(t *testing.T) {
	dist := scaffoldDist(t)
	fake := &fakeS3{}
	u := NewUploader(fake, "my-bucket", testLogger())

	n, err := u.Upload(context.Background(), dist)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("uploaded = %d, want 4", n)
	}

	want := []string{"app.a1b2c3d4.js", "css/site.css", "icons/favicon.png", "index.html"}
	got := fake.keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestUploadWithPrefix(t *testing.T) {
	dist := scaffoldDist(t)
	fake := &fakeS3{}
	u := NewUploader(fake, "my-bucket", testLogger(), WithPrefix("/site/"))

	if _, err := u.Upload(context.Background(), dist); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["site/index.html"]; !ok {
		t.Errorf("keys = %v, want site/ prefix", fake.keys())
	}
}

func TestUploadHeaders(t *testing.T) {
	dist := scaffoldDist(t)
	fake := &fakeS3{}
	u := NewUploader(fake, "my-bucket", testLogger())

	if _, err := u.Upload(context.Background(), dist); err != nil {
		t.Fatal(err)
	}

	html := fake.objects["index.html"]
	if html.cacheControl != "no-cache" {
		t.Errorf("html cache-control = %q", html.cacheControl)
	}

	js := fake.objects["app.a1b2c3d4.js"]
	if js.cacheControl != "public, max-age=31536000, immutable" {
		t.Errorf("fingerprinted js cache-control = %q", js.cacheControl)
	}

	css := fake.objects["css/site.css"]
	if css.cacheControl != "public, max-age=3600" {
		t.Errorf("plain css cache-control = %q", css.cacheControl)
	}
}

func TestUploadEmptyDir(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploader(fake, "my-bucket", testLogger())
	if _, err := u.Upload(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for empty dist")
	}
}

func TestUploadPropagatesFailure(t *testing.T) {
	dist := scaffoldDist(t)
	fake := &fakeS3{fail: true}
	u := NewUploader(fake, "my-bucket", testLogger())
	if _, err := u.Upload(context.Background(), dist); err == nil {
		t.Error("expected error when PutObject fails")
	}
}

func TestLooksFingerprinted(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"app.a1b2c3d4.js", true},
		{"styles.deadbeef.css", true},
		{"app.js", false},
		{"jquery.min.js", false},
		{"a.b.js", false},
	}
	for _, tt := range tests {
		if got := looksFingerprinted(tt.path); got != tt.want {
			t.Errorf("looksFingerprinted(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
