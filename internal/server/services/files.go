package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/28ori/Buddy4Life/internal/logging"
	sc "github.com/28ori/Buddy4Life/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for tests; production code never reassigns these.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// FileService stores uploaded images in an S3-compatible bucket and hands
// out time-limited download URLs.
type FileService struct {
	settings sc.S3
	logger   logging.Logger
}

func NewFileService(settings sc.S3, logger logging.Logger) *FileService {
	return &FileService{settings: settings, logger: logger}
}

// GetRandomStorageKey builds a date-partitioned object key, keeping the
// extension of the original filename so downloads get a usable name.
func GetRandomStorageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

func (s *FileService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.settings.AccessKey,
			s.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.settings.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores the content under a fresh storage key and returns the key
// together with a presigned GET URL valid for 15 minutes.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("error building storage client: %w", err)
	}

	bucket := s.settings.Bucket
	key := GetRandomStorageKey(filename)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        content,
		ContentType: &contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("error storing object: %w", err)
	}

	url, err := s.presignedGetURL(ctx, client, key)
	if err != nil {
		return "", "", err
	}

	return key, url, nil
}

// GetDownloadURL returns a presigned GET URL for an already stored object.
func (s *FileService) GetDownloadURL(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error building storage client: %w", err)
	}
	return s.presignedGetURL(ctx, client, key)
}

func (s *FileService) presignedGetURL(ctx context.Context, client *s3.Client, key string) (string, error) {
	bucket := s.settings.Bucket

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return req.URL, nil
}
