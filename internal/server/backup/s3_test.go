package backup

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3Uploader_NoBucket(t *testing.T) {
	assert.Nil(t, NewS3Uploader(S3Config{}))
}

func TestS3Uploader_PutsToPresignedURL(t *testing.T) {
	var gotPath string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	orig := presignPutObject
	t.Cleanup(func() { presignPutObject = orig })
	presignPutObject = func(ctx context.Context, pc *s3.PresignClient, in *s3.PutObjectInput) (string, error) {
		require.NotNil(t, pc)
		return ts.URL + "/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?X-Amz-Signature=abc", nil
	}

	u := NewS3Uploader(S3Config{Bucket: "parkdesk", Region: "us-east-1", User: "minio", Password: "minio123", BaseEndpoint: ts.URL})
	require.NoError(t, u.Upload(context.Background(), "backups/a.db.gz", []byte("data")))
	assert.Equal(t, "/parkdesk/backups/a.db.gz", gotPath)
	assert.Equal(t, []byte("data"), gotBody)
}

func TestS3Uploader_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	u := NewS3Uploader(S3Config{Bucket: "parkdesk"})
	assert.EqualError(t, u.Upload(context.Background(), "k", []byte("x")), "no config")
}

func TestS3Uploader_NilPresignClient(t *testing.T) {
	orig := newS3PresignClient
	t.Cleanup(func() { newS3PresignClient = orig })
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return nil }

	u := NewS3Uploader(S3Config{Bucket: "parkdesk", Region: "us-east-1"})
	assert.EqualError(t, u.Upload(context.Background(), "k", []byte("x")), "nil presign client")
}

func TestS3Uploader_UploadRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer ts.Close()

	orig := presignPutObject
	t.Cleanup(func() { presignPutObject = orig })
	presignPutObject = func(ctx context.Context, pc *s3.PresignClient, in *s3.PutObjectInput) (string, error) {
		return ts.URL + "/x", nil
	}

	u := NewS3Uploader(S3Config{Bucket: "parkdesk", Region: "us-east-1"})
	err := u.Upload(context.Background(), "k", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
