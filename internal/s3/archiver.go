// internal/s3/archiver.go
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes a JSON snapshot of an order to S3 before it is deleted.
type Archiver struct {
	Client objectPutter
	Bucket string
	Prefix string
	now    func() time.Time
}

func NewArchiver(ctx context.Context, cfg config.S3Config) (*Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Archiver{
		Client: s3.NewFromConfig(sdkConfig),
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		now:    time.Now,
	}, nil
}

type archivedOrder struct {
	*models.BulkOrder
	ArchivedAt time.Time `json:"archivedAt"`
}

// ObjectKey is where an order's snapshot is stored.
func (a *Archiver) ObjectKey(order *models.BulkOrder) string {
	name := order.Reference
	if name == "" {
		name = order.ID.Hex()
	}
	return path.Join(a.Prefix, name+".json")
}

func (a *Archiver) ArchiveOrder(ctx context.Context, order *models.BulkOrder) error {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	body, err := json.Marshal(archivedOrder{BulkOrder: order, ArchivedAt: now().UTC()})
	if err != nil {
		return fmt.Errorf("encode order snapshot: %w", err)
	}

	_, err = a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(a.ObjectKey(order)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload order snapshot to S3: %w", err)
	}
	return nil
}
