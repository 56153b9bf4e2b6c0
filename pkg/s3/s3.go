package s3

import (
	"DrowsyGuard/internal/entity"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ItfS3 keeps the frame that triggered an alert so the contact can see what
// the camera saw.
type ItfS3 interface {
	UploadFrame(ctx context.Context, frame entity.Frame) (string, error)
}

type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

type s3Client struct {
	uploader   *s3manager.Uploader
	bucketName string
}

func New(cfg Config) (ItfS3, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return &s3Client{
		uploader:   s3manager.NewUploader(sess),
		bucketName: cfg.BucketName,
	}, nil
}

func (s *s3Client) UploadFrame(ctx context.Context, frame entity.Frame) (string, error) {
	src, err := os.Open(frame.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open frame: %w", err)
	}
	defer src.Close()

	contentType := frame.MimeType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	output, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(ObjectKey(frame)),
		Body:        src,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return output.Location, nil
}

// ObjectKey files frames by capture day, e.g. alerts/2026-10-16/<id>.jpg.
func ObjectKey(frame entity.Frame) string {
	ext := filepath.Ext(frame.Path)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("alerts/%s/%s%s", frame.CapturedAt.Format("2006-01-02"), frame.ID, ext)
}
