// Package s3 implements a zip.Source backed by ranged S3 GetObject calls,
// letting callers open and read archives directly from a bucket without
// downloading them first.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClientConfig selects how NewDefaultClient resolves credentials and region.
// The zero value loads the default chain (environment, shared config, IAM
// role) exactly like an unconfigured AWS CLI invocation.
type ClientConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewDefaultClient builds a *s3.Client from the ambient AWS configuration,
// or from a static access key pair when both are supplied. It's a
// convenience for callers that don't already carry their own aws.Config.
func NewDefaultClient(ctx context.Context, cc ClientConfig) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cc.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cc.Region))
	}
	if cc.AccessKeyID != "" && cc.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cc.AccessKeyID, cc.SecretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

// Client abstracts the two S3 operations a Source needs, so tests can
// supply an in-memory fake instead of a live AWS client.
type Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// GetObjectOnlyClient is the subset of Client needed once the object's size
// is already known, for use with NewWithSize.
type GetObjectOnlyClient interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source reads a single S3 object through ranged GetObject requests. Every
// ReadAt issues its own GetObject; there is no read-ahead buffering or
// parallel part fetching, unlike a general-purpose S3 download client,
// because the archive reader only ever asks for exactly the bytes a
// record or member payload needs.
type Source struct {
	ctx            context.Context
	client         GetObjectOnlyClient
	bucket, key    string
	size           int64
	modifyGetInput func(*s3.GetObjectInput)
}

// Option customises New and NewWithSize.
type Option func(*Source)

// WithModifyGetObjectInput lets the caller set fields (SSE customer key,
// version ID, request payer, ...) on every GetObjectInput this Source
// issues.
func WithModifyGetObjectInput(fn func(*s3.GetObjectInput)) Option {
	return func(s *Source) { s.modifyGetInput = fn }
}

// New determines the object's size with one HeadObject call, then returns a
// Source that reads it with ranged GetObject calls.
func New(ctx context.Context, client Client, bucket, key string, opts ...Option) (*Source, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}

	return NewWithSize(ctx, client, bucket, key, aws.ToInt64(head.ContentLength), opts...), nil
}

// NewWithSize returns a Source for an object whose size is already known,
// skipping the HeadObject call New makes.
func NewWithSize(ctx context.Context, client GetObjectOnlyClient, bucket, key string, size int64, opts ...Option) *Source {
	s := &Source{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		size:   size,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Size returns the object's length, as determined by HeadObject or given
// explicitly to NewWithSize.
func (s *Source) Size() int64 {
	return s.size
}

// ReadAt issues one ranged GetObject call covering [off, off+len(p)) and
// copies the response body into p.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= s.size {
		return 0, io.EOF
	}

	end := off + int64(len(p)) - 1
	if end >= s.size {
		end = s.size - 1
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	}
	if s.modifyGetInput != nil {
		s.modifyGetInput(input)
	}

	out, err := s.client.GetObject(s.ctx, input)
	if err != nil {
		return 0, fmt.Errorf("get s3://%s/%s [%d-%d]: %w", s.bucket, s.key, off, end, err)
	}
	defer out.Body.Close()

	want := int(end-off) + 1
	n, err := io.ReadFull(out.Body, p[:want])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, fmt.Errorf("read s3://%s/%s body: %w", s.bucket, s.key, err)
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
