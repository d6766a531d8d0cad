package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const photoCacheSize = 4096

// PresignAPI is the subset of *s3.PresignClient used to sign photo reads
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoService turns stored photo keys into presigned read URLs. Signed URLs
// are cached for half their lifetime so a cached URL is never close to expiry.
type PhotoService struct {
	Presigner PresignAPI
	Bucket    string
	TTL       time.Duration
	Log       *zap.Logger

	cache *expirable.LRU[string, string]
}

// NewS3Presigner builds a presign client from the default AWS config
func NewS3Presigner(ctx context.Context, region string) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewPresignClient(s3.NewFromConfig(cfg)), nil
}

// NewPhotoService creates a PhotoService with a URL cache.
func NewPhotoService(presigner PresignAPI, bucket string, ttl time.Duration, log *zap.Logger) *PhotoService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PhotoService{
		Presigner: presigner,
		Bucket:    bucket,
		TTL:       ttl,
		Log:       log,
		cache:     expirable.NewLRU[string, string](photoCacheSize, nil, ttl/2),
	}
}

// URL returns a readable URL for a photo key. Absolute URLs are returned unchanged.
func (ps *PhotoService) URL(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	if ps.Presigner == nil || ps.Bucket == "" {
		return key, nil
	}
	if ps.cache != nil {
		if url, ok := ps.cache.Get(key); ok {
			return url, nil
		}
	}

	req, err := ps.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ps.TTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign photo %q: %w", key, err)
	}
	if ps.cache != nil {
		ps.cache.Add(key, req.URL)
	}
	return req.URL, nil
}

// ResolveAll resolves every key, dropping photos that cannot be signed.
func (ps *PhotoService) ResolveAll(ctx context.Context, keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := ps.URL(ctx, key)
		if err != nil {
			ps.Log.Warn("dropping unsigned photo", zap.String("key", key), zap.Error(err))
			continue
		}
		out = append(out, url)
	}
	return out
}
