package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
)

var ErrObjectNotFound = errors.New("receipt object not found")

// GCSStore keeps receipts in a Google Cloud Storage bucket.
type GCSStore struct {
	bucket        *storage.BucketHandle
	bucketName    string
	publicBaseURL string
}

func NewGCSStore(client *storage.Client, bucket, publicBaseURL string) *GCSStore {
	return &GCSStore{
		bucket:        client.Bucket(bucket),
		bucketName:    bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *GCSStore) Put(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Object(%q).NewWriter: %w", object, err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Object(%q).Close: %w", object, err)
	}

	return s.ObjectURL(object), nil
}

func (s *GCSStore) Open(ctx context.Context, object string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}

		return nil, fmt.Errorf("Object(%q).NewReader: %w", object, err)
	}

	return r, nil
}

// ObjectURL is the public address of object.
func (s *GCSStore) ObjectURL(object string) string {
	return s.publicBaseURL + "/" + s.bucketName + "/" + (&url.URL{Path: object}).EscapedPath()
}
