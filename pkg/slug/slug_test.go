package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":           "hello-world",
		"  ---Foo---  ":           "foo",
		"My First Post!":          "my-first-post",
		"Go 1.24 released":        "go-1-24-released",
		"already-a-slug":          "already-a-slug",
		"Ünïcödé Títle":           "n-c-d-t-tle",
		"日本語":                     "",
		"":                        "",
		"!!!":                     "",
		"UPPER_and_lower":         "upper-and-lower",
		"trailing space and dot.": "trailing-space-and-dot",
	}

	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestMake_Deterministic(t *testing.T) {
	assert.Equal(t, Make("Same Title"), Make("Same Title"))
}
