package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"customer-svc/internal/utils"
	"go.uber.org/zap"
)

type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

// UploadInput describes one blob write. Overwrite selects between the create
// path (key must be fresh) and the update path (replacement allowed).
type UploadInput struct {
	Key         string
	ContentType string
	Data        []byte
	Overwrite   bool
}

// Client stores customer photos in an S3-compatible bucket and resolves
// public URLs for stored keys.
type Client struct {
	s3            *s3.S3
	bucket        string
	publicBaseURL string
}

func New(cfg Config) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &Client{
		s3:            s3.New(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the blob and returns its public URL.
func (c *Client) Upload(ctx context.Context, in UploadInput) (string, error) {
	if !in.Overwrite {
		_, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(in.Key),
		})
		if err == nil {
			return "", fmt.Errorf("object %q already exists", in.Key)
		}
		if aerr, ok := err.(awserr.RequestFailure); !ok || aerr.StatusCode() != 404 {
			return "", fmt.Errorf("head object %q: %w", in.Key, err)
		}
	}

	_, err := c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(in.Key),
		Body:        bytes.NewReader(in.Data),
		ContentType: aws.String(in.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", in.Key, err)
	}

	utils.Zlog.Info("Photo stored",
		zap.String("bucket", c.bucket),
		zap.String("key", in.Key),
		zap.Int("bytes", len(in.Data)))

	return c.PublicURL(in.Key), nil
}

// PublicURL resolves the publicly reachable address for a stored key.
func (c *Client) PublicURL(key string) string {
	return c.publicBaseURL + "/" + key
}

// ObjectKey derives the storage key for a photo upload. The historical shape
// was <name>_<millis>_<filename>; a short random segment is added because two
// uploads in the same millisecond for the same name must not collide.
func ObjectKey(ownerName, filename string) string {
	return fmt.Sprintf("public/%s_%d_%s_%s",
		sanitizeSegment(ownerName),
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
		sanitizeSegment(filename))
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '-'
		default:
			return r
		}
	}, s)
}
