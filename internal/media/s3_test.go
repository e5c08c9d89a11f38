package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	put     *s3.PutObjectInput
	deleted []string
	err     error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, f.err
}

func TestUploadReturnsPublicURL(t *testing.T) {
	api := &fakeObjectAPI{}
	store := &S3Store{client: api, bucket: "media", baseURL: "https://cdn.example.com"}

	res, err := store.Upload(context.Background(), domain.UploadInput{
		Key:         "gallery/store1/abc.jpg",
		Body:        strings.NewReader("data"),
		Size:        4,
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/gallery/store1/abc.jpg", res.URL)
	assert.Equal(t, "gallery/store1/abc.jpg", res.PublicID)
	assert.Equal(t, "media", *api.put.Bucket)
	assert.Equal(t, int64(4), *api.put.ContentLength)
}

func TestDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	store := &S3Store{client: api, bucket: "media", baseURL: "https://cdn.example.com"}

	require.NoError(t, store.Delete(context.Background(), ""))
	assert.Empty(t, api.deleted)

	api.err = errors.New("denied")
	err := store.Delete(context.Background(), "videos/1.mp4")
	assert.ErrorContains(t, err, "videos/1.mp4")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "gallery/store1/xyz.png", ObjectKey("gallery", "store1", "xyz", "Photo.PNG"))
}

func TestOwnerPrefix(t *testing.T) {
	prefix := OwnerPrefix("videos", "store1")
	assert.Equal(t, "videos/store1/", prefix)
	assert.True(t, strings.HasPrefix(ObjectKey("videos", "store1", "clip", "a.mp4"), prefix))
	assert.False(t, strings.HasPrefix(ObjectKey("videos", "store10", "clip", "a.mp4"), prefix))
}
