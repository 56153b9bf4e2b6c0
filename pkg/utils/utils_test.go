package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()
	now := time.Now()

	id, err := u.NewULIDFromTimestamp(now)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestValidateImageFile(t *testing.T) {
	u := New()

	header := func(contentType string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return &multipart.FileHeader{Filename: "frame.jpg", Header: h, Size: size}
	}

	assert.ErrorIs(t, u.ValidateImageFile(nil), ErrNoFile)
	assert.ErrorIs(t, u.ValidateImageFile(header("image/jpeg", 6*1024*1024)), ErrFileTooLarge)
	assert.NoError(t, u.ValidateImageFile(header("text/plain", 10)))
	assert.NoError(t, u.ValidateImageFile(header("image/jpeg", 10)))
	assert.NoError(t, u.ValidateImageFile(header("application/octet-stream", 10)))
}

func TestDecodeImageConfig(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.White)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	cfg, format, err := New().DecodeImageConfig(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 4, cfg.Height)

	_, _, err = New().DecodeImageConfig([]byte("not an image"))
	assert.Error(t, err)
}
