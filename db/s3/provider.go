// Package s3 stores snapshots as a single JSON object in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/types"
)

const defaultKey = "fooddb/snapshot.json"

// Provider implements a snapshot provider against the S3 API
type Provider struct {
	bucket     string
	key        string
	logger     zerolog.Logger
	session    *session.Session
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

// NewProvider creates a new instance of a Provider
// and parses environment variables
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	// Parse the S3 credentials from the environment
	awsRegion, err := env.GetEnv("snapshot AWS region", "FOODDB_S3_REGION")
	if err != nil {
		return nil, err
	}
	awsAccessKeyID, err := env.GetEnv("snapshot AWS access key ID", "FOODDB_S3_ACCESS_KEY_ID")
	if err != nil {
		return nil, err
	}
	awsSecretAccessKey, err := env.GetEnv("snapshot AWS secret access key", "FOODDB_S3_SECRET_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	// Get the bucket name from the environment
	bucket, err := env.GetEnv("snapshot S3 bucket", "FOODDB_S3_BUCKET")
	if err != nil {
		return nil, err
	}
	key := env.GetEnvDefault("FOODDB_S3_KEY", defaultKey)

	config := &aws.Config{
		Region:      aws.String(awsRegion),
		Credentials: credentials.NewStaticCredentials(awsAccessKeyID, awsSecretAccessKey, ""),
	}
	// S3-compatible stores (such as MinIO) need an endpoint and path-style addressing
	if endpoint := env.GetEnvDefault("FOODDB_S3_ENDPOINT", ""); endpoint != "" {
		config.Endpoint = aws.String(endpoint)
		config.S3ForcePathStyle = aws.Bool(true)
	}

	// Initialize the session
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		bucket:     bucket,
		key:        key,
		logger:     logger,
		session:    sess,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}, nil
}

// Connect is a no-op; the session connects lazily
func (p *Provider) Connect(ctx context.Context) error {
	return nil
}

// Disconnect is a no-op
func (p *Provider) Disconnect(ctx context.Context) error {
	return nil
}

// Load downloads and decodes the snapshot object
func (p *Provider) Load(ctx context.Context) (*types.Snapshot, error) {
	buffer := aws.NewWriteAtBuffer([]byte{})
	_, err := p.downloader.DownloadWithContext(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key),
	})
	if err != nil {
		if isMissing(err) {
			return nil, db.NewNoSnapshotError(p.location())
		}
		return nil, errors.Wrap(err, "download snapshot")
	}

	var snapshot types.Snapshot
	if err := json.Unmarshal(buffer.Bytes(), &snapshot); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	return &snapshot, nil
}

// Save encodes and uploads the snapshot object
func (p *Provider) Save(ctx context.Context, snapshot types.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	result, err := p.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "upload snapshot")
	}

	p.logger.Debug().Str("location", result.Location).Int("bytes", len(data)).Msg("uploaded snapshot")
	return nil
}

func (p *Provider) location() string {
	return fmt.Sprintf("s3://%s/%s", p.bucket, p.key)
}

// Detects whether the error means the snapshot object doesn't exist yet
func isMissing(err error) bool {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
