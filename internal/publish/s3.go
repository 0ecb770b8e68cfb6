// Package publish uploads finished chunk files to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

// S3Config holds the configuration for S3 publishing.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	KeyPrefix       string // Optional: prepended to every object key
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
	Concurrency     int    // Maximum parallel uploads (minimum 1)
}

// putObjectAPI is the subset of *s3.Client used by the publisher.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Upload describes one published file.
type Upload struct {
	Path string `json:"path" yaml:"path"`
	Key  string `json:"key" yaml:"key"`
	URL  string `json:"url" yaml:"url"`
}

// S3Publisher uploads files to one bucket.
type S3Publisher struct {
	client      putObjectAPI
	bucket      string
	region      string
	endpoint    string
	keyPrefix   string
	concurrency int
	log         *slog.Logger
}

// NewS3Publisher creates an S3Publisher from cfg.
func NewS3Publisher(ctx context.Context, cfg S3Config, log *slog.Logger) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("publish: bucket is required")
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return newS3Publisher(s3.NewFromConfig(awsCfg, clientOpts...), cfg, log), nil
}

func newS3Publisher(client putObjectAPI, cfg S3Config, log *slog.Logger) *S3Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &S3Publisher{
		client:      client,
		bucket:      cfg.Bucket,
		region:      cfg.Region,
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		keyPrefix:   strings.Trim(cfg.KeyPrefix, "/"),
		concurrency: max(cfg.Concurrency, 1),
		log:         log,
	}
}

// Key returns the object key a local file is published under.
func (p *S3Publisher) Key(file string) string {
	return path.Join(p.keyPrefix, filepath.Base(file))
}

// URL returns the object URL for key.
func (p *S3Publisher) URL(key string) string {
	if p.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", p.endpoint, p.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}

// Publish uploads files in parallel. The first failure cancels the
// remaining uploads. Results are in the order of files.
func (p *S3Publisher) Publish(ctx context.Context, files []string) ([]Upload, error) {
	uploads := make([]Upload, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, file := range files {
		g.Go(func() error {
			key := p.Key(file)
			if err := p.put(ctx, file, key); err != nil {
				return err
			}
			uploads[i] = Upload{Path: file, Key: key, URL: p.URL(key)}
			p.log.Debug("chunk uploaded", "path", file, "bucket", p.bucket, "key", key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.log.Info("upload complete", "files", len(files), "bucket", p.bucket)
	return uploads, nil
}

func (p *S3Publisher) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String("audio/mpeg"),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", file, p.bucket, key, err)
	}
	return nil
}
