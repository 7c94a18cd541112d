package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ethica-ai/ethica/backend/internal/util"
)

// Transient S3 failures are retried this many times.
const s3MaxTries = 3

// S3Store keeps session files in an S3 bucket under "<session>/<name>"
// keys.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context) (*S3Store, error) {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Store{
		client: client,
		bucket: util.GetEnv("AWS_BUCKET"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, session, name string, r io.Reader) error {
	session, err := cleanName(session)
	if err != nil {
		return err
	}
	name, err = cleanName(name)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	err = util.RetryErrWithContext(ctx, s3MaxTries, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(session + "/" + name),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String(mimeType),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("upload to s3: %w", err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, session, name string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(session + "/" + name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get from s3: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *S3Store) List(ctx context.Context, session string) ([]FileInfo, error) {
	prefix := session + "/"
	result, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list s3 objects: %w", err)
	}
	if len(result.Contents) == 0 {
		return nil, ErrNotFound
	}

	infos := make([]FileInfo, 0, len(result.Contents))
	for _, obj := range result.Contents {
		info := FileInfo{
			Name: strings.TrimPrefix(aws.ToString(obj.Key), prefix),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			info.Modified = *obj.LastModified
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *S3Store) Delete(ctx context.Context, session string) error {
	infos, err := s.List(ctx, session)
	if err != nil {
		return err
	}

	objects := make([]types.ObjectIdentifier, 0, len(infos))
	for _, info := range infos {
		objects = append(objects, types.ObjectIdentifier{
			Key: aws.String(session + "/" + info.Name),
		})
	}

	_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("delete s3 objects: %w", err)
	}
	return nil
}
