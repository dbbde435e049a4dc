// Package storage provides the S3-backed attachment store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
)

// Upload is one file to be stored.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// S3Store uploads ticket attachments and presigns read URLs.
type S3Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	region     string
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewS3Store builds the store from static credentials.
func NewS3Store(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		presignTTL: cfg.PresignTTL(),
		logger:     logger,
	}, nil
}

// Upload stores one file under tickets/<yyyy>/<mm>/<uuid><ext> and returns
// its attachment metadata.
func (s *S3Store) Upload(ctx context.Context, up Upload) (domain.S3Attachment, error) {
	id := uuid.NewString()
	ext := strings.ToLower(path.Ext(up.FileName))
	now := time.Now().UTC()
	key := fmt.Sprintf("tickets/%s/%s%s", now.Format("2006/01"), id, ext)
	sanitized := sanitizeFileName(up.FileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(up.Data),
		ContentType:        aws.String(up.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", sanitized)),
		Metadata: map[string]string{
			"original-name": sanitized,
			"uploaded-at":   now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return domain.S3Attachment{}, fmt.Errorf("upload %s: %w", up.FileName, err)
	}

	s.logger.Debug("attachment uploaded",
		zap.String("key", key),
		zap.Int("size", len(up.Data)))

	return domain.S3Attachment{
		UUID:         id,
		OriginalName: up.FileName,
		S3Key:        key,
		S3URL:        fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		Size:         int64(len(up.Data)),
		Type:         up.ContentType,
		UploadedAt:   now,
	}, nil
}

// SignedDownloadURL returns a short-lived URL that forces a download.
func (s *S3Store) SignedDownloadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign download %s: %w", key, err)
	}
	return req.URL, nil
}

// SignedViewURL returns a short-lived URL that renders inline in the
// browser.
func (s *S3Store) SignedViewURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String("inline"),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign view %s: %w", key, err)
	}
	return req.URL, nil
}

var (
	nonASCII     = regexp.MustCompile(`[^\x20-\x7E]`)
	invalidChars = regexp.MustCompile(`[^\w\s.-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	underscores  = regexp.MustCompile(`_{2,}`)
)

// sanitizeFileName strips characters that are unsafe in S3 object headers.
func sanitizeFileName(name string) string {
	cleaned := nonASCII.ReplaceAllString(name, "")
	cleaned = invalidChars.ReplaceAllString(cleaned, "")
	cleaned = whitespace.ReplaceAllString(cleaned, "_")
	cleaned = underscores.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
	}
	if cleaned == "" {
		cleaned = "attachment"
	}
	return cleaned
}
