package backup

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/parkdesk/internal/netx"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
	presignPutObject      = func(ctx context.Context, pc *s3.PresignClient, in *s3.PutObjectInput) (string, error) {
		req, err := pc.PresignPutObject(ctx, in, s3.WithPresignExpires(15*time.Minute))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
)

// S3Config addresses an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Bucket       string
	Region       string
	User         string
	Password     string
	BaseEndpoint string
}

// S3Uploader copies backups to a bucket through a presigned PUT.
type S3Uploader struct {
	cfg    S3Config
	client *http.Client
}

// NewS3Uploader returns nil when no bucket is configured.
func NewS3Uploader(cfg S3Config) *S3Uploader {
	if cfg.Bucket == "" {
		return nil
	}
	return &S3Uploader{cfg: cfg, client: &http.Client{Timeout: 5 * time.Minute}}
}

func (u *S3Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(u.cfg.User, u.cfg.Password, "")))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	pc := newS3PresignClient(client)
	if pc == nil {
		return nil, errors.New("nil presign client")
	}
	return pc, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte) error {
	pc, err := u.presignClient(ctx)
	if err != nil {
		return err
	}
	url, err := presignPutObject(ctx, pc, &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	return netx.UploadToPresignedURL(ctx, u.client, url, data)
}
