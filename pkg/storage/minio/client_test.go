package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/campuseats-backend/pkg/config"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

type fakeAPI struct {
	exists      bool
	existsErr   error
	made        []string
	putErr      error
	putBucket   string
	putKey      string
	putSize     int64
	contentType string
	body        string
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(reader)
	f.putBucket, f.putKey, f.putSize, f.contentType, f.body = bucket, key, size, opts.ContentType, string(data)
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeAPI) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{Endpoint: "localhost:9000", Bucket: "media"}
}

func TestUploadReturnsPublicURL(t *testing.T) {
	api := &fakeAPI{exists: true}
	client := newClient(api, testMediaConfig())

	url, err := client.Upload(context.Background(), storage.FolderLogos, storage.Object{
		Filename:    "logo.png",
		ContentType: "image/png",
		Size:        3,
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "media", api.putBucket)
	assert.True(t, strings.HasPrefix(api.putKey, "logos/"))
	assert.Equal(t, "image/png", api.contentType)
	assert.Equal(t, "png", api.body)
	assert.Equal(t, "http://localhost:9000/media/"+api.putKey, url)
}

func TestUploadUsesPublicBaseURLAndDefaultContentType(t *testing.T) {
	cfg := testMediaConfig()
	cfg.PublicBaseURL = "https://cdn.campus.edu/media/"
	api := &fakeAPI{exists: true}
	client := newClient(api, cfg)

	url, err := client.Upload(context.Background(), storage.FolderProducts, storage.Object{Filename: "a.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.campus.edu/media/"+api.putKey, url)
	assert.Equal(t, defaultContentType, api.contentType)
	assert.Equal(t, int64(-1), api.putSize)
}

func TestUploadPropagatesErrors(t *testing.T) {
	client := newClient(&fakeAPI{putErr: errors.New("denied")}, testMediaConfig())
	_, err := client.Upload(context.Background(), storage.FolderLogos, storage.Object{Body: strings.NewReader("x")})
	require.Error(t, err)

	_, err = client.Upload(context.Background(), storage.FolderLogos, storage.Object{})
	require.Error(t, err)
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	api := &fakeAPI{}
	require.NoError(t, newClient(api, testMediaConfig()).ensureBucket(context.Background()))
	assert.Equal(t, []string{"media"}, api.made)

	api = &fakeAPI{existsErr: errors.New("offline")}
	assert.Error(t, newClient(api, testMediaConfig()).ensureBucket(context.Background()))
}
