package filestorage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("certificate", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["certificate"][0]
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), newFileHeader(t, "Cert.PDF", "pdf-bytes"), "hackathons")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/hackathons/"))
	assert.True(t, strings.HasSuffix(ref, "-cert.pdf"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting again is a no-op
	assert.NoError(t, store.Delete(context.Background(), ref))
}

func TestLocalStorage_NilHeader(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), nil, "internships")
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.Error(t, store.Delete(context.Background(), "/uploads/../../etc/passwd"))
}

type fakeObjectAPI struct {
	objects map[string][]byte
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_SaveAndDelete(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string][]byte{}}
	store := newS3Storage(api, "certs", "https://cdn.example.com")

	ref, err := store.Save(context.Background(), newFileHeader(t, "report.docx", "doc"), "internships/reports")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "https://cdn.example.com/internships/reports/"))

	key := strings.TrimPrefix(ref, "https://cdn.example.com/")
	assert.Equal(t, []byte("doc"), api.objects[key])

	require.NoError(t, store.Delete(context.Background(), ref))
	assert.Empty(t, api.objects)
}

func TestObjectKey(t *testing.T) {
	key := objectKey("/internships/", "Final Report (v2).DOCX")
	assert.True(t, strings.HasPrefix(key, "internships/"))
	assert.True(t, strings.HasSuffix(key, "-final-report-v2.docx"))

	bare := objectKey("", "###.pdf")
	assert.NotContains(t, bare, "/")
	assert.Len(t, bare, 36+len(".pdf"))

	long := objectKey("x", strings.Repeat("a", 200)+".png")
	assert.LessOrEqual(t, len(long), len("x/")+36+1+maxSlugLen+len(".png"))
}
