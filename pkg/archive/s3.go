package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client the archive uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var errMissingCredentials = errors.New("archive: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")

// S3Store writes objects to an S3 bucket.
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Store creates an S3Store writing below prefix in bucket.
func NewS3Store(client PutObjectAPI, bucket, prefix string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	objectKey := path.Join(s.prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	loc := "s3://" + s.bucket + "/" + objectKey
	s.logger.Debug("archived", "location", loc, "content_type", contentType)
	return loc, nil
}

// NewS3Client builds an S3 client for region. endpoint, when set, points
// the client at an S3-compatible store using path-style addressing.
// Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN on each request.
func NewS3Client(region, endpoint string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	return s3.New(s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
		BaseEndpoint: optional(endpoint),
		UsePathStyle: endpoint != "",
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errMissingCredentials
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
