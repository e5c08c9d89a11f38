package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store hosts gallery and video media in a bucket served from baseURL
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
}

// NewS3Store loads the default AWS credential chain for region
func NewS3Store(ctx context.Context, bucket, region, baseURL string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the object under in.Key. The key doubles as the public id.
func (s *S3Store) Upload(ctx context.Context, in domain.UploadInput) (*domain.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(in.Key),
		Body:        in.Body,
		ContentType: aws.String(in.ContentType),
	}
	if in.Size > 0 {
		input.ContentLength = aws.Int64(in.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload %s to S3: %w", in.Key, err)
	}

	return &domain.UploadResult{URL: s.URL(in.Key), PublicID: in.Key}, nil
}

// Delete removes the object identified by publicID
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", publicID, err)
	}
	return nil
}

// URL returns the public URL of key
func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// ObjectKey builds the storage key for an upload: <folder>/<owner>/<name><ext>
func ObjectKey(folder, owner, name, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, owner, name+ext)
}

// OwnerPrefix is the key prefix ObjectKey uses for every object of owner in folder
func OwnerPrefix(folder, owner string) string {
	return path.Join(folder, owner) + "/"
}
