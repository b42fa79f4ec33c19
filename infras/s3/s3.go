package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"stayledger/config"
	"stayledger/infras/otel"
	"stayledger/shared/constant"
)

const (
	otelAttrKey    = "key"
	otelAttrBucket = "bucket"
	otelAttrSize   = "size"

	defaultRegion = "auto"
)

// Object is a single document written to the bucket. An empty Bucket falls back to the configured one.
type Object struct {
	Bucket      string
	Directory   string
	Name        string
	ContentType string
	Body        []byte
}

// Key joins the directory and name into the object key.
func (o Object) Key() string {
	return path.Join(o.Directory, o.Name)
}

type S3 interface {
	Put(ctx context.Context, object Object) (url string, err error)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) Put(ctx context.Context, object Object) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer scope.TraceIfError(err)

	if object.Bucket == constant.Empty {
		object.Bucket = svc.cfg.External.S3.BucketName
	}

	if object.Name == constant.Empty {
		return constant.Empty, fmt.Errorf("object name is required")
	}

	key := object.Key()

	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: object.Bucket,
		otelAttrSize:   len(object.Body),
	})

	reader := bytes.NewReader(object.Body)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(object.Bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", object.Bucket).Str("key", key).Msg("failed to put object")

		return constant.Empty, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return publicURL(svc.cfg.External.S3.PublicDomain, object.Bucket, key), nil
}

// publicURL prefers the configured public domain and falls back to an s3:// locator.
func publicURL(domain, bucket, key string) string {
	if domain == constant.Empty {
		return fmt.Sprintf("s3://%s/%s", bucket, key)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(domain, "/"), key)
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	s3Cfg := cfg.External.S3

	region := s3Cfg.Region
	if region == constant.Empty {
		region = defaultRegion
	}

	loadOptions := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(region)}

	if s3Cfg.AccessKeyID != constant.Empty {
		loadOptions = append(loadOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, constant.Empty),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), loadOptions...)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Cfg.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(s3Cfg.APIEndpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Impl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}
