package ioremote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gnames/gncat/pkg/blob"
)

// s3Store keeps the record list as a single object of an S3-compatible
// bucket (AWS S3 or MinIO). The ETag is the version token.
type s3Store struct {
	client   *s3.Client
	bucket   string
	key      string
	hasCreds bool
}

// S3Config holds construction parameters of the S3 backend.
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	PathStyle bool
	// AccessKeyID and SecretAccessKey are optional, the default
	// credentials chain is used without them.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3 creates an S3 backend.
func NewS3(ctx context.Context, cfg S3Config) (blob.Backend, error) {
	if cfg.Bucket == "" {
		return nil, ConfigError("s3", "bucket")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	static := cfg.AccessKeyID != "" && cfg.SecretAccessKey != ""
	if static {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "",
			),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, RequestError("load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	hasCreds := static ||
		os.Getenv("AWS_ACCESS_KEY_ID") != "" ||
		os.Getenv("AWS_PROFILE") != ""

	return &s3Store{
		client:   client,
		bucket:   cfg.Bucket,
		key:      strings.TrimPrefix(cfg.Key, "/"),
		hasCreds: hasCreds,
	}, nil
}

// SplitKeyPair splits an "ACCESS_KEY_ID:SECRET_ACCESS_KEY" token.
func SplitKeyPair(token string) (id, secret string) {
	id, secret, ok := strings.Cut(token, ":")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(id), strings.TrimSpace(secret)
}

func (s *s3Store) Driver() blob.Driver { return blob.DriverS3 }

func (s *s3Store) HasCredential() bool { return s.hasCreds }

// Check verifies the bucket is reachable.
func (s *s3Store) Check(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	if err != nil {
		return RequestError("head bucket", err)
	}
	return nil
}

// Get reads the object.
func (s *s3Store) Get(ctx context.Context) (blob.Object, error) {
	op := "get object"
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		if isNotFound(err) {
			return blob.Object{}, blob.ErrNotExist
		}
		return blob.Object{}, RequestError(op, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return blob.Object{}, RequestError(op, err)
	}
	return blob.Object{Data: data, Version: trimETag(out.ETag)}, nil
}

// Put replaces the object. With a version the write is conditional on
// the ETag, without it the object must not exist yet.
func (s *s3Store) Put(
	ctx context.Context,
	data []byte,
	opts blob.PutOptions,
) (string, error) {
	op := "put object"
	input := &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if opts.Version != "" {
		input.IfMatch = aws.String(`"` + opts.Version + `"`)
	} else {
		input.IfNoneMatch = aws.String("*")
	}
	if opts.Message != "" {
		input.Metadata = map[string]string{"message": opts.Message}
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		if isPrecondition(err) {
			return "", fmt.Errorf("%s: %w", op, blob.ErrConflict)
		}
		return "", RequestError(op, err)
	}
	return trimETag(out.ETag), nil
}

func trimETag(etag *string) string {
	if etag == nil {
		return ""
	}
	return strings.Trim(*etag, `"`)
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPrecondition(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
