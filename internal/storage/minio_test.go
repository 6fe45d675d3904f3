package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasuta1125/banasukoAI/internal/config"
)

// fakeS3 records the bucket-level calls the uploader makes against a
// path-style S3 endpoint.
type fakeS3 struct {
	bucketExists bool
	policy       string
	putPaths     []string
}

func (f *fakeS3) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Query().Has("location"):
			w.Header().Set("Content-Type", "application/xml")
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></LocationConstraint>`)
		case r.Method == http.MethodHead:
			if f.bucketExists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut && r.URL.Query().Has("policy"):
			body, _ := io.ReadAll(r.Body)
			f.policy = string(body)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut && !strings.Contains(strings.Trim(r.URL.Path, "/"), "/"):
			f.bucketExists = true
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut:
			f.putPaths = append(f.putPaths, r.URL.Path)
			w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
}

func newTestUploader(t *testing.T, endpoint string) Uploader {
	t.Helper()
	up, err := NewUploader(config.StorageConfig{
		Endpoint:      strings.TrimPrefix(endpoint, "http://"),
		AccessKey:     "test-access",
		SecretKey:     "test-secret",
		Bucket:        "banasuko",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)
	return up
}

func TestEnsureBucket_AppliesPublicReadPolicy(t *testing.T) {
	s3 := &fakeS3{bucketExists: true}
	srv := httptest.NewServer(s3.handler())
	defer srv.Close()

	up := newTestUploader(t, srv.URL)
	require.NoError(t, EnsureBucket(context.Background(), up))

	// Anonymous download on the banner prefix, or the returned URLs are dead.
	assert.Contains(t, s3.policy, `"s3:GetObject"`)
	assert.Contains(t, s3.policy, "arn:aws:s3:::banasuko/users/*")
}

func TestEnsureBucket_CreatesMissingBucket(t *testing.T) {
	s3 := &fakeS3{}
	srv := httptest.NewServer(s3.handler())
	defer srv.Close()

	up := newTestUploader(t, srv.URL)
	require.NoError(t, EnsureBucket(context.Background(), up))

	assert.True(t, s3.bucketExists)
	assert.NotEmpty(t, s3.policy)
}

func TestUpload_ReturnsPublicURL(t *testing.T) {
	s3 := &fakeS3{bucketExists: true}
	srv := httptest.NewServer(s3.handler())
	defer srv.Close()

	up := newTestUploader(t, srv.URL)
	url, err := up.Upload(context.Background(), "uid-1", "banner_A_20240101120000.png",
		[]byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/banasuko/users/uid-1/diagnoses_images/banner_A_20240101120000.png", url)
	require.Len(t, s3.putPaths, 1)
	assert.Equal(t, "/banasuko/users/uid-1/diagnoses_images/banner_A_20240101120000.png", s3.putPaths[0])
}
