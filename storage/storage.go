package storage

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MaxUploadSize is the largest accepted image payload (5 MiB).
const MaxUploadSize = 5 * 1024 * 1024

// allowedContentTypes is the image allow-list for uploads.
var allowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Config holds the object-store connection settings, supplied once at startup.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // optional override; derived from bucket+region when empty
}

// Client is the object storage gateway. Uploaded objects are publicly
// readable; deletes are idempotent and restricted to this client's domain.
type Client struct {
	s3      *s3.Client
	bucket  string
	baseURL string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		s3:      client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// AllowedContentType reports whether ct is an accepted image type. Any media
// type parameters ("; charset=...") are ignored.
func AllowedContentType(ct string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	return allowedContentTypes[mediaType]
}

// ObjectPath builds a collision-resistant storage path for an upload from a
// timestamp, a random suffix, and the original file extension.
func ObjectPath(originalName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("projects/%d-%s.%s", time.Now().UnixMilli(), randomSuffix(6), ext)
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// Upload stores data at path with public-read access and returns the
// canonical public URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return c.PublicURL(path), nil
}

// PublicURL returns the canonical URL for a stored object path.
func (c *Client) PublicURL(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Owns reports whether url points inside this client's storage domain.
// Deletion requests for foreign URLs are rejected before any store call.
func (c *Client) Owns(url string) bool {
	return strings.HasPrefix(url, c.baseURL+"/")
}

// KeyFromURL extracts the object key from a URL in this client's domain.
func (c *Client) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, c.baseURL+"/")
}

// Delete removes the object behind url. Deleting an object that is already
// gone counts as success. URLs outside the storage domain are rejected.
func (c *Client) Delete(ctx context.Context, url string) error {
	if !c.Owns(url) {
		return fmt.Errorf("url %q is not in storage domain %q", url, c.baseURL)
	}

	// S3 DeleteObject on a missing key succeeds, which gives us idempotency.
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.KeyFromURL(url)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
