package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of *s3.Client a Loader needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (l *Loader) loadS3(ctx context.Context, ref string) ([]byte, error) {
	if l.S3 == nil {
		return nil, errors.New("source: no S3 client configured")
	}
	bucket, key, err := splitS3(ref)
	if err != nil {
		return nil, err
	}

	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: failed to get %s: %w", ref, err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && l.MaxBytes > 0 && *out.ContentLength > l.MaxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, ref, *out.ContentLength)
	}
	return l.readLimited(out.Body, ref)
}
