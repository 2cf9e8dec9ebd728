package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// bucketClient is the part of the Supabase Storage client used here.
type bucketClient interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseConfig holds Supabase connection settings.
type SupabaseConfig struct {
	URL    string
	APIKey string
	Bucket string
}

// Supabase uploads answer images to a public Supabase Storage bucket and
// returns their public URL.
type Supabase struct {
	storage bucketClient
	bucket  string
}

// NewSupabase creates a Supabase uploader.
func NewSupabase(cfg SupabaseConfig) (*Supabase, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "answers"
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Supabase{storage: client.Storage, bucket: cfg.Bucket}, nil
}

// Upload implements Uploader.
func (s *Supabase) Upload(_ context.Context, file string) (string, error) {
	img, err := ReadImage(file)
	if err != nil {
		return "", err
	}

	object := path.Join("answers", uuid.NewString()+strings.ToLower(path.Ext(img.Name)))
	upsert := false
	_, err = s.storage.UploadFile(s.bucket, object, img.Reader(), storage_go.FileOptions{
		ContentType: &img.ContentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.storage.GetPublicUrl(s.bucket, object).SignedURL, nil
}
