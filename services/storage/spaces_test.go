package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	puts    map[string][]byte
	deletes []string
	failPut error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.StringValue(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadReturnsPublicURL(t *testing.T) {
	api := &fakeS3{puts: map[string][]byte{}}
	client := newSpacesClient(api, SpacesConfig{Bucket: "pandiu", Endpoint: "https://nyc3.digitaloceanspaces.com"})

	url, err := client.Upload(context.Background(), "publicaciones/pdf/1/a.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://pandiu.nyc3.digitaloceanspaces.com/publicaciones/pdf/1/a.pdf", url)
	assert.Equal(t, []byte("%PDF-1.4"), api.puts["publicaciones/pdf/1/a.pdf"])
}

func TestUploadPrefersCDN(t *testing.T) {
	api := &fakeS3{puts: map[string][]byte{}}
	client := newSpacesClient(api, SpacesConfig{Bucket: "pandiu", Endpoint: "nyc3.digitaloceanspaces.com", CDNURL: "https://cdn.example.com/"})

	url, err := client.Upload(context.Background(), "k.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/k.pdf", url)
}

func TestUploadWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	client := newSpacesClient(&fakeS3{failPut: boom}, SpacesConfig{Bucket: "b", Endpoint: "e"})

	_, err := client.Upload(context.Background(), "k", nil, "application/pdf")
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	api := &fakeS3{}
	client := newSpacesClient(api, SpacesConfig{Bucket: "b", Endpoint: "e"})

	require.NoError(t, client.Delete(context.Background(), "k.pdf"))
	assert.Equal(t, []string{"k.pdf"}, api.deletes)
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey(7, `C:\docs\Mi Articulo.PDF`)

	assert.True(t, strings.HasPrefix(key, "publicaciones/pdf/7/"), key)
	assert.True(t, strings.HasSuffix(key, "-mi_articulo.pdf"), key)
	assert.NotEqual(t, key, GenerateKey(7, `C:\docs\Mi Articulo.PDF`))
	assert.True(t, strings.HasSuffix(GenerateKey(1, ""), "-documento.pdf"))
}

func TestSpacesConfigEnabled(t *testing.T) {
	assert.False(t, SpacesConfig{}.Enabled())
	assert.True(t, SpacesConfig{AccessKey: "a", SecretKey: "s", Bucket: "b", Endpoint: "e"}.Enabled())
}
