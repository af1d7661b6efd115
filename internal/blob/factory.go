package blob

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gostspec/internal/infra/blob/fs"
	"gostspec/internal/infra/blob/memory"
	"gostspec/internal/infra/blob/s3"
)

// S3Config selects an S3 compatible bucket.
type S3Config = s3.Config

// Options selects and configures an artifact store backend.
type Options struct {
	Driver Driver   `yaml:"driver"`
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
}

// OptionsFromEnv reads backend selection from the environment:
//
//	GOSTSPEC_BLOB_DRIVER        fs|s3|memory (default fs)
//	GOSTSPEC_BLOB_FS_ROOT       directory for the fs driver
//	GOSTSPEC_BLOB_S3_BUCKET     bucket for the s3 driver
//	GOSTSPEC_BLOB_S3_REGION     region (default us-east-1)
//	GOSTSPEC_BLOB_S3_ENDPOINT   custom endpoint such as MinIO
//	GOSTSPEC_BLOB_S3_PATH_STYLE true to use path-style addressing
func OptionsFromEnv() Options {
	driver := Driver(strings.TrimSpace(os.Getenv("GOSTSPEC_BLOB_DRIVER")))
	if driver == "" {
		driver = DriverFilesystem
	}
	return Options{
		Driver: driver,
		FSRoot: os.Getenv("GOSTSPEC_BLOB_FS_ROOT"),
		S3: S3Config{
			Bucket:    os.Getenv("GOSTSPEC_BLOB_S3_BUCKET"),
			Region:    os.Getenv("GOSTSPEC_BLOB_S3_REGION"),
			Endpoint:  os.Getenv("GOSTSPEC_BLOB_S3_ENDPOINT"),
			PathStyle: strings.EqualFold(os.Getenv("GOSTSPEC_BLOB_S3_PATH_STYLE"), "true"),
		},
	}
}

// Open returns the backend named by opts.Driver. An empty driver selects fs.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(opts.FSRoot)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", opts.Driver)
	}
}

// NewMemory returns an in-process store.
func NewMemory() Store { return memory.New() }

// NewFilesystem returns a store rooted at root.
func NewFilesystem(root string) (Store, error) {
	store, err := fs.New(root)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewS3 returns a store for cfg.Bucket.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	store, err := s3.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewS3Mock returns an S3 store backed by an in-process fake transport.
func NewS3Mock() Store { return s3.NewMock() }
