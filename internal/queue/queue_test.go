package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotification_Native(t *testing.T) {
	body, err := json.Marshal(Notification{
		JobID:     "abc-123",
		Bucket:    "lexsum-uploads",
		ObjectKey: "uploads/abc-123.pdf",
	})
	require.NoError(t, err)

	n, err := ParseNotification(body)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", n.JobID)
	assert.Equal(t, "lexsum-uploads", n.Bucket)
	assert.Equal(t, "uploads/abc-123.pdf", n.ObjectKey)
}

func TestParseNotification_S3EventFallback(t *testing.T) {
	body := []byte(`{
		"Records": [
			{"s3": {"bucket": {"name": "lexsum-uploads"}, "object": {"key": "uploads/def-456.pdf"}}}
		]
	}`)

	n, err := ParseNotification(body)
	require.NoError(t, err)
	assert.Equal(t, "def-456", n.JobID)
	assert.Equal(t, "lexsum-uploads", n.Bucket)
	assert.Equal(t, "uploads/def-456.pdf", n.ObjectKey)
}

func TestParseNotification_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing key", `{"job_id": "x", "bucket": "b"}`},
		{"event without records", `{"Records": []}`},
		{"event with non-pdf key", `{"Records": [{"s3": {"bucket": {"name": "b"}, "object": {"key": "uploads/readme.txt"}}}]}`},
		{"event with empty key", `{"Records": [{"s3": {"bucket": {"name": "b"}, "object": {"key": ""}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotification([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestJobIDFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"uploads/abc-123.pdf", "abc-123"},
		{"abc-123.pdf", "abc-123"},
		{"nested/deep/xyz.pdf", "xyz"},
		{"uploads/plain", "plain"},
		{"uploads/other.txt", ""},
		{".pdf", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, jobIDFromKey(tt.key))
		})
	}
}
