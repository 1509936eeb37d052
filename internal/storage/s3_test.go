package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() S3Config {
	return S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566", // LocalStack-like endpoint
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

func TestNewS3(t *testing.T) {
	s, err := NewS3(t.TempDir(), testBaseURL, testS3Config())
	require.NoError(t, err)

	assert.Equal(t, "test-bucket", s.bucket)
	assert.Equal(t, "us-east-1", s.region)
	assert.NotNil(t, s.client)
}

func TestS3_ObjectURL(t *testing.T) {
	s, err := NewS3(t.TempDir(), testBaseURL, testS3Config())
	require.NoError(t, err)

	assert.Equal(t,
		"https://test-bucket.s3.us-east-1.amazonaws.com/final/out.mp4",
		s.objectURL("final/out.mp4"))

	// Keys with reserved characters must come out escaped.
	assert.Equal(t,
		"https://test-bucket.s3.us-east-1.amazonaws.com/final/slow%20pan.mp4",
		s.objectURL("final/slow pan.mp4"))
}

func TestS3_InheritsLocal(t *testing.T) {
	s, err := NewS3(t.TempDir(), testBaseURL, testS3Config())
	require.NoError(t, err)

	// Local behavior is embedded: path generation and reference
	// resolution still work against the local root.
	p := s.NewFilePath("rendered", ".mp4")
	assert.Contains(t, p, s.Root())

	resolved := s.Resolve(testBaseURL + "clip.mp4")
	assert.Contains(t, resolved, s.Root())
}
