package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	key := aws.ToString(in.Key)
	if aws.ToString(in.IfNoneMatch) == "*" {
		if _, ok := f.objects[key]; ok {
			return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
		}
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestS3Storage_Put(t *testing.T) {
	api := newFakeS3()
	st := NewS3Storage(api, S3Config{Bucket: "uploads", Region: "eu-west-3", PublicBaseURL: "https://cdn.example.com/"})

	obj, err := st.Put(context.Background(), "cv_uploads/1700000000000_cv.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/cv_uploads/1700000000000_cv.pdf", obj.URL)
	assert.Equal(t, []byte("%PDF-1.4"), api.objects["cv_uploads/1700000000000_cv.pdf"])
	assert.Equal(t, "application/pdf", api.types["cv_uploads/1700000000000_cv.pdf"])
}

func TestS3Storage_NeverOverwrites(t *testing.T) {
	api := newFakeS3()
	st := NewS3Storage(api, S3Config{Bucket: "uploads", Region: "eu-west-3"})

	_, err := st.Put(context.Background(), "contact_uploads/1_a.png", strings.NewReader("one"), 3, "image/png")
	require.NoError(t, err)

	_, err = st.Put(context.Background(), "contact_uploads/1_a.png", strings.NewReader("two"), 3, "image/png")
	assert.ErrorIs(t, err, ErrObjectExists)
	assert.Equal(t, []byte("one"), api.objects["contact_uploads/1_a.png"])
}

func TestS3Storage_PutError(t *testing.T) {
	api := newFakeS3()
	api.putErr = errors.New("connection reset")
	st := NewS3Storage(api, S3Config{Bucket: "uploads", Region: "eu-west-3"})

	_, err := st.Put(context.Background(), "k", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectExists)
}

func TestS3Storage_PublicURLDefault(t *testing.T) {
	st := NewS3Storage(newFakeS3(), S3Config{Bucket: "uploads", Region: "eu-west-3"})
	assert.Equal(t, "https://uploads.s3.eu-west-3.amazonaws.com/cv_uploads/a%20b.pdf", st.PublicURL("cv_uploads/a b.pdf"))
}

func TestS3Storage_Ping(t *testing.T) {
	api := newFakeS3()
	st := NewS3Storage(api, S3Config{Bucket: "uploads", Region: "eu-west-3"})
	assert.NoError(t, st.Ping(context.Background()))

	api.headErr = errors.New("forbidden")
	assert.Error(t, st.Ping(context.Background()))
}

func TestS3Config_Configured(t *testing.T) {
	assert.False(t, S3Config{Bucket: "b"}.Configured())
	assert.True(t, S3Config{Bucket: "b", Region: "r"}.Configured())
}
