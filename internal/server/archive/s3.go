// Package archive mirrors full board snapshots to S3-compatible object
// storage. This is belt-and-braces durability on top of the row store: only
// refresh deltas (which carry the whole document) are archived.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/drawboard/internal/board"
)

// Config carries the object-storage settings.
type Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Archiver writes one object per snapshot under
// boards/<boardID>/<timestamp>.json.
type S3Archiver struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

func NewS3Archiver(ctx context.Context, cfg Config) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.RootUser, cfg.RootPassword, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Archiver{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

func (a *S3Archiver) ArchiveSnapshot(ctx context.Context, boardID string, doc *board.Document) error {
	if doc == nil {
		doc = board.NewDocument()
	}
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	key := fmt.Sprintf("boards/%s/%s.json", boardID, a.now().UTC().Format("20060102T150405Z"))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot %s: %w", key, err)
	}
	return nil
}
