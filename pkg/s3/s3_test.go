package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL_MinIO(t *testing.T) {
	url := ObjectURL("http://localhost:9000", "us-east-1", true, "blog", "avatars/u1/a.png")
	assert.Equal(t, "http://localhost:9000/blog/avatars/u1/a.png", url)
}

func TestObjectURL_MinIOWithSSL(t *testing.T) {
	url := ObjectURL("https://minio.internal", "us-east-1", false, "blog", "k.png")
	assert.Equal(t, "https://minio.internal/blog/k.png", url)
}

func TestObjectURL_AWS(t *testing.T) {
	assert.Equal(t, "https://blog.s3.eu-west-1.amazonaws.com/k.png", ObjectURL("", "eu-west-1", false, "blog", "k.png"))
	assert.Equal(t, "https://blog.s3.us-east-1.amazonaws.com/k.png", ObjectURL("", "", false, "blog", "k.png"))
}
