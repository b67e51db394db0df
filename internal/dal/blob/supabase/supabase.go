package supabase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/handywriterz/order-admin-svc/internal/dal/interfaces/iblobstore"
	"github.com/spf13/viper"
	storage "github.com/supabase-community/storage-go"
)

const defaultContentType = "application/octet-stream"

// BlobStore uploads order response files into a Supabase storage bucket.
type BlobStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewBlobStore creates a blob store for the given project URL and bucket.
func NewBlobStore(supabaseURL, serviceRoleKey, bucket string) *BlobStore {
	baseURL := strings.TrimRight(supabaseURL, "/")

	return &BlobStore{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// MustNewBlobStore creates a blob store configured from viper and the environment.
func MustNewBlobStore() *BlobStore {
	url := viper.GetString("storage.url")
	if url == "" {
		panic("storage.url is not set in config")
	}

	bucket := viper.GetString("storage.bucket")
	if bucket == "" {
		bucket = "order-files"
	}

	return NewBlobStore(url, os.Getenv("SUPABASE_SERVICE_ROLE_KEY"), bucket)
}

// Upload stores content under orders/{orderID}/ and returns its public URL.
func (s *BlobStore) Upload(
	ctx context.Context,
	orderID string,
	name string,
	contentType string,
	content io.Reader,
) (iblobstore.Object, error) {
	if err := ctx.Err(); err != nil {
		return iblobstore.Object{}, err
	}

	if contentType == "" {
		contentType = defaultContentType
	}
	upsert := false
	storagePath := fmt.Sprintf("orders/%s/%s-%s", orderID, uuid.NewString(), path.Base(name))

	counter := &countingReader{r: content}
	_, err := s.client.UploadFile(s.bucket, storagePath, counter, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return iblobstore.Object{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return iblobstore.Object{
		Path: storagePath,
		URL:  s.PublicURL(storagePath),
		Size: counter.n,
	}, nil
}

// PublicURL returns the public URL of a stored object.
func (s *BlobStore) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}
