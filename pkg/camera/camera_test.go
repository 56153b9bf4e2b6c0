package camera

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"DrowsyGuard/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestReplayCameraCyclesImages(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))
	writeJPEG(t, filepath.Join(dir, "b.jpg"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	cam := NewReplayCamera(quietLogger(), utils.New(), dir)
	require.True(t, cam.IsReady())

	var paths []string
	for i := 0; i < 3; i++ {
		frame, err := cam.TakePhoto(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", frame.MimeType)
		assert.NotEmpty(t, frame.ID)
		paths = append(paths, filepath.Base(frame.Path))
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg", "a.jpg"}, paths)
}

func TestReplayCameraEmptyDirIsNotReady(t *testing.T) {
	cam := NewReplayCamera(quietLogger(), utils.New(), t.TempDir())
	assert.False(t, cam.IsReady())

	_, err := cam.TakePhoto(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestReplayCameraRejectsDisguisedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.jpg"), []byte("plain text, not a jpeg"), 0o644))

	cam := NewReplayCamera(quietLogger(), utils.New(), dir)
	_, err := cam.TakePhoto(context.Background())
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestCommandCameraRunsCaptureTool(t *testing.T) {
	src := filepath.Join(t.TempDir(), "source.jpg")
	writeJPEG(t, src)
	frameDir := t.TempDir()

	cam := NewCommandCamera(quietLogger(), utils.New(), "cp "+src+" {output}", frameDir)
	require.True(t, cam.IsReady())

	frame, err := cam.TakePhoto(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frameDir, filepath.Dir(frame.Path))
	assert.Equal(t, "image/jpeg", frame.MimeType)
	assert.FileExists(t, frame.Path)
}

func TestCommandCameraAppendsPlaceholder(t *testing.T) {
	cam := NewCommandCamera(quietLogger(), utils.New(), "termux-camera-photo -c 1", t.TempDir()).(*commandCamera)
	assert.Equal(t, []string{"termux-camera-photo", "-c", "1", OutputPlaceholder}, cam.argv)
}

func TestCommandCameraFailures(t *testing.T) {
	missing := NewCommandCamera(quietLogger(), utils.New(), "definitely-not-a-camera-tool {output}", t.TempDir())
	assert.False(t, missing.IsReady())
	_, err := missing.TakePhoto(context.Background())
	assert.Error(t, err)

	silent := NewCommandCamera(quietLogger(), utils.New(), "true {output}", t.TempDir())
	_, err = silent.TakePhoto(context.Background())
	assert.ErrorIs(t, err, ErrNoImage)
}
