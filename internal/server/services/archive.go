package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/timevault/internal/server/config"
	"github.com/dmitrijs2005/timevault/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3ReceiptArchive uploads each committed receipt as a JSON object to an
// S3-compatible bucket.
type S3ReceiptArchive struct {
	config *sc.Config

	once    sync.Once
	client  *s3.Client
	initErr error
}

// NewReceiptArchive returns an archive for cfg, or nil when no bucket is
// configured. A nil archive disables archiving in VaultService.
func NewReceiptArchive(cfg *sc.Config) ReceiptArchiver {
	if cfg.S3Bucket == "" {
		return nil
	}
	return &S3ReceiptArchive{config: cfg}
}

// ReceiptKey is the object key a receipt is stored under.
func ReceiptKey(r *models.Receipt) string {
	d := r.CreatedAt
	return fmt.Sprintf("receipts/%s/%04d/%02d/%02d/%s.json", r.Vault, d.Year(), d.Month(), d.Day(), r.ID)
}

func (a *S3ReceiptArchive) getClient(ctx context.Context) (*s3.Client, error) {
	a.once.Do(func() {
		cfg, err := loadDefaultAWSConfig(ctx,
			config.WithRegion(a.config.S3Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				a.config.S3RootUser,
				a.config.S3RootPassword,
				"",
			)))
		if err != nil {
			a.initErr = err
			return
		}
		a.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
			o.UsePathStyle = true
		})
	})
	return a.client, a.initErr
}

func (a *S3ReceiptArchive) Archive(ctx context.Context, r *models.Receipt) error {
	client, err := a.getClient(ctx)
	if err != nil {
		return fmt.Errorf("error loading s3 config: %w", err)
	}

	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.S3Bucket),
		Key:         aws.String(ReceiptKey(r)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error uploading receipt: %w", err)
	}
	return nil
}
