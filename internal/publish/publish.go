// Package publish uploads finished slideshows to S3-compatible object storage.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"bilingo/internal/config"
	"bilingo/internal/services"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location identifies an uploaded object.
type Location struct {
	Bucket string
	Key    string
	Size   int64
}

// URL renders the location as s3://bucket/key.
func (l Location) URL() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// Publisher uploads files under a key prefix.
type Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

// New builds a Publisher around an existing client.
func New(client ObjectPutter, bucket, prefix string) (*Publisher, error) {
	bucket = strings.TrimSpace(bucket)
	if client == nil || bucket == "" {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "new", "client and bucket required", nil)
	}
	return &Publisher{client: client, bucket: bucket, prefix: strings.Trim(strings.TrimSpace(prefix), "/")}, nil
}

// NewFromConfig loads AWS credentials from the default chain and applies the
// region, endpoint and addressing overrides from cfg.
func NewFromConfig(ctx context.Context, cfg config.Publish) (*Publisher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "load aws config", "", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg.Bucket, cfg.Prefix)
}

// Key returns the object key for a local file: <prefix>/<runID>/<basename>.
// Empty segments are omitted.
func (p *Publisher) Key(runID, localPath string) string {
	parts := make([]string, 0, 3)
	if p.prefix != "" {
		parts = append(parts, p.prefix)
	}
	if runID = strings.TrimSpace(runID); runID != "" {
		parts = append(parts, runID)
	}
	parts = append(parts, filepath.Base(localPath))
	return path.Join(parts...)
}

// Upload sends localPath to the bucket.
func (p *Publisher) Upload(ctx context.Context, runID, localPath string) (Location, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return Location{}, services.Wrap(services.ErrInput, "publish", "upload", localPath, err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return Location{}, services.Wrap(services.ErrInput, "publish", "upload", localPath, err)
	}

	key := p.Key(runID, localPath)
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "video/mp4"
	}
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Location{}, services.Wrap(services.ErrExternalTool, "publish", "upload", fmt.Sprintf("s3://%s/%s", p.bucket, key), err)
	}
	return Location{Bucket: p.bucket, Key: key, Size: info.Size()}, nil
}
