package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Config configures S3-compatible storage.
type Config struct {
	Bucket    string `env:"STORAGE_BUCKET,required"`
	AccessKey string `env:"STORAGE_ACCESS_KEY,required"`
	SecretKey string `env:"STORAGE_SECRET_KEY,required"`
	Region    string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	// Endpoint points at MinIO or another S3-compatible service.
	Endpoint  string `env:"STORAGE_ENDPOINT"`
	PathStyle bool   `env:"STORAGE_PATH_STYLE" envDefault:"false"`
}

// S3 stores files in an S3 bucket.
type S3 struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3 builds a client with static credentials.
func NewS3(cfg Config) (*S3, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrInvalidConfig
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, presigner: s3.NewPresignClient(client), bucket: cfg.Bucket}, nil
}

func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, wrapS3Error(err, ErrNotFound)
	}

	obj := &Object{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
	}
	if obj.ContentType == "" {
		obj.ContentType = DetectContentType(key, nil)
	}
	return out.Body, obj, nil
}

// Put reads r fully so the content type can be sniffed and the length sent.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, opts ...PutOption) (*Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if o.contentType == "" {
		o.contentType = DetectContentType(key, data)
	}

	acl := types.ObjectCannedACLPrivate
	if o.public {
		acl = types.ObjectCannedACLPublicRead
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(o.contentType),
		ACL:           acl,
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &Object{
		Key:         key,
		ContentType: o.contentType,
		ETag:        aws.ToString(out.ETag),
		Size:        int64(len(data)),
		ModTime:     time.Now(),
	}, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// URL returns a presigned GET URL valid for expiry. A non-empty filename
// makes the browser download the file under that name.
func (s *S3) URL(ctx context.Context, key string, expiry time.Duration, filename string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	in := &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}
	if filename != "" {
		in.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", strings.ReplaceAll(filename, `"`, "")))
	}
	req, err := s.presigner.PresignGetObject(ctx, in, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return req.URL, nil
}

var _ Storage = (*S3)(nil)
