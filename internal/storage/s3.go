package storage

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Folder    string
}

// S3Store keeps images in an S3-compatible bucket.
type S3Store struct {
	bucket   string
	folder   string
	uploader *s3manager.Uploader
	client   *s3.S3
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 image store: bucket is required")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := awssession.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 image store: %w", err)
	}

	return &S3Store{
		bucket:   cfg.Bucket,
		folder:   cfg.Folder,
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, upload Upload) (models.Image, error) {
	key, err := ObjectKey(s.folder, upload)
	if err != nil {
		return models.Image{}, err
	}

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(contentTypeFor(key)),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", key, err)
	}

	return models.Image{URL: out.Location, Filename: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, filename string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	return err
}
