package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTask(t *testing.T) {
	task := NotificationTask{
		Type:      RoutingComment,
		UserID:    "author-1",
		ActorID:   "reader-1",
		PostSlug:  "hello-world",
		PostTitle: "Hello, World!",
		Priority:  5,
	}

	body, err := EncodeTask(task)
	require.NoError(t, err)

	decoded, err := DecodeTask(body)
	require.NoError(t, err)
	assert.Equal(t, task, decoded)
}

func TestEncodeTask_UnknownType(t *testing.T) {
	_, err := EncodeTask(NotificationTask{Type: "new_post", UserID: "u"})
	assert.ErrorIs(t, err, ErrMalformedTask)
}

func TestDecodeTask_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":        "{",
		"missing user":    `{"type":"like"}`,
		"unknown routing": `{"type":"subscription","user_id":"u"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTask([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedTask)
		})
	}
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, 0, clampPriority(-3))
	assert.Equal(t, 4, clampPriority(4))
	assert.Equal(t, 10, clampPriority(42))
}
