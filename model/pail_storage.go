package model

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/pail"
	"github.com/evergreen-ci/utility"
	"github.com/perfpipe/perfpipe"
	"github.com/pkg/errors"
)

// PailType describes the name of the blob storage backing a pail Bucket
// implementation.
type PailType string

const (
	PailS3    PailType = "s3"
	PailLocal PailType = "local"

	defaultS3Region = "us-east-1"
)

// Create returns a pail Bucket backed by PailType. The bucket prefix scopes
// every key, so callers upload artifacts by bare filename.
func (t PailType) Create(ctx context.Context, conf perfpipe.BucketConfig) (pail.Bucket, error) {
	var b pail.Bucket
	var err error

	switch t {
	case PailS3:
		region := conf.Region
		if region == "" {
			region = defaultS3Region
		}

		opts := pail.S3Options{
			Name:        conf.Name,
			Prefix:      conf.Prefix,
			Region:      region,
			Permissions: pail.S3PermissionsPublicRead,
			Credentials: pail.CreateAWSCredentials(conf.AWSKey, conf.AWSSecret, ""),
			MaxRetries:  utility.ToIntPtr(10),
		}
		b, err = pail.NewS3Bucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case PailLocal:
		opts := pail.LocalOptions{
			Path:   conf.Name,
			Prefix: conf.Prefix,
		}
		b, err = pail.NewLocalBucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("bucket type '%s' is not supported", t)
	}

	if err = b.Check(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// GetDownloadURL returns, if applicable, the download URL for the object at
// the given bucket/prefix/key location.
func (t PailType) GetDownloadURL(bucket, prefix, key string) string {
	switch t {
	case PailS3:
		return fmt.Sprintf(
			"https://%s.s3.amazonaws.com/%s",
			bucket,
			prefix+"/"+key,
		)
	default:
		return ""
	}
}
