package logging

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

// payloads longer than this go to the archive instead of the embed.
const archiveThreshold = 2000

// Archive stores oversized log payloads (bulk message deletes mostly)
// in an S3-compatible bucket and hands back a public link.
type Archive struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewArchive(key, secret, region, endpoint, bucket string) (*Archive, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errs.Wrap(errs.Fatal, err, "archive config")
	}

	return &Archive{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		endpoint: endpoint,
	}, nil
}

// Put uploads one payload and returns its URL. Keys are sharded by
// guild and timestamp so uploads never collide.
func (a *Archive) Put(ctx context.Context, guildID fmt.Stringer, kind string, payload []byte) (string, error) {
	key := fmt.Sprintf("logs/%s/%s_%d.txt", guildID, kind, time.Now().UnixNano())
	contentType := "text/plain; charset=utf-8"

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		return "", errs.Wrap(errs.Upstream, err, "log archive upload failed")
	}
	return fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, key), nil
}
