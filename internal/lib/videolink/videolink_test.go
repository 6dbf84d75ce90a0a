package videolink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studingplace/learning-platform/internal/lib/videolink"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		wantErr error
	}{
		{"empty link is allowed", "", nil},
		{"blank link is allowed", "   ", nil},
		{"plain watch url", "https://youtube.com/watch?v=dQw4w9WgXcQ", nil},
		{"www prefix", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", nil},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", nil},
		{"mobile subdomain", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", nil},
		{"music subdomain", "https://music.youtube.com/watch?v=abc", nil},
		{"arbitrary youtube subdomain", "https://studio.youtube.com/video/abc", nil},
		{"http is rejected", "http://youtube.com/watch?v=dQw4w9WgXcQ", videolink.ErrInsecure},
		{"foreign host", "https://vimeo.com/12345", videolink.ErrForeignHost},
		{"lookalike host", "https://notyoutube.com/watch", videolink.ErrForeignHost},
		{"missing host", "youtube.com/watch?v=abc", videolink.ErrMalformed},
		{"garbage", "ht!tp://%%%", videolink.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := videolink.Validate(tt.link)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
