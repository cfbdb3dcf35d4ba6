// Package deploy uploads a built site to S3-compatible object storage.
package deploy

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/task"
)

// ObjectPutter is the slice of the S3 API the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader pushes a local directory tree to a bucket.
type Uploader struct {
	client      ObjectPutter
	log         *slog.Logger
	bucket      string
	prefix      string
	concurrency int
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithPrefix sets the key prefix inside the bucket.
func WithPrefix(prefix string) UploaderOption {
	return func(u *Uploader) { u.prefix = strings.Trim(prefix, "/") }
}

// WithConcurrency bounds parallel uploads.
func WithConcurrency(n int) UploaderOption {
	return func(u *Uploader) { u.concurrency = n }
}

// NewUploader creates an uploader targeting bucket.
func NewUploader(client ObjectPutter, bucket string, log *slog.Logger, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		client:      client,
		log:         log,
		bucket:      bucket,
		concurrency: task.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload pushes every file under dir to the bucket, preserving the
// relative layout under the configured prefix. Uploads run
// concurrently; the first failure cancels the rest.
func (u *Uploader) Upload(ctx context.Context, dir string) (int, error) {
	files, err := collectFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, errors.Newf(errors.CategoryCLI, "nothing to deploy in %s", dir)
	}

	err = task.ForEach(ctx, u.concurrency, files, func(ctx context.Context, rel string) error {
		return u.putFile(ctx, dir, rel)
	})
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

func (u *Uploader) putFile(ctx context.Context, dir, rel string) error {
	data, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return errors.Newf(errors.CategoryCLI, "reading %s: %v", rel, err)
	}

	key := filepath.ToSlash(rel)
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         strings.NewReader(string(data)),
		ContentType:  aws.String(contentType(rel)),
		CacheControl: aws.String(cacheControl(rel)),
	})
	if err != nil {
		return errors.Newf(errors.CategoryCLI, "uploading %s: %v", key, err)
	}
	u.log.Debug("uploaded", "key", key, "bytes", len(data))
	return nil
}

// collectFiles returns the relative paths of all regular files under
// dir, sorted by filepath.Walk order.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "scanning %s: %v", dir, err)
	}
	return files, nil
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// cacheControl picks cache headers: fingerprinted assets are immutable,
// HTML and the service worker must revalidate.
func cacheControl(path string) string {
	switch filepath.Ext(path) {
	case ".html", ".htm", ".webmanifest":
		return "no-cache"
	case ".js", ".css", ".png", ".jpg", ".svg", ".woff2":
		if looksFingerprinted(path) {
			return "public, max-age=31536000, immutable"
		}
		return "public, max-age=3600"
	default:
		return "public, max-age=3600"
	}
}

// looksFingerprinted reports whether the filename carries a hash
// segment, e.g. app.a1b2c3d4.js.
func looksFingerprinted(path string) bool {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 6 {
		return false
	}
	for _, r := range hash {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
