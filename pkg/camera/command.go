package camera

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/utils"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const OutputPlaceholder = "{output}"

type commandCamera struct {
	log      *logrus.Logger
	utils    utils.IUtils
	argv     []string
	frameDir string
}

// NewCommandCamera shells out to a capture tool for every frame, e.g.
// "termux-camera-photo -c 1 {output}" for the front camera on Android.
// The placeholder is replaced by the path the frame must be written to.
func NewCommandCamera(log *logrus.Logger, u utils.IUtils, command string, frameDir string) ICamera {
	argv := strings.Fields(command)
	if !containsPlaceholder(argv) {
		argv = append(argv, OutputPlaceholder)
	}

	return &commandCamera{
		log:      log,
		utils:    u,
		argv:     argv,
		frameDir: frameDir,
	}
}

func containsPlaceholder(argv []string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, OutputPlaceholder) {
			return true
		}
	}
	return false
}

func (c *commandCamera) IsReady() bool {
	if len(c.argv) == 0 {
		return false
	}

	if _, err := exec.LookPath(c.argv[0]); err != nil {
		c.log.WithFields(logrus.Fields{
			"command": c.argv[0],
			"error":   err.Error(),
		}).Warn("Capture command not found")
		return false
	}

	return true
}

func (c *commandCamera) TakePhoto(ctx context.Context) (entity.Frame, error) {
	if len(c.argv) == 0 {
		return entity.Frame{}, ErrNotReady
	}

	now := time.Now()
	id, err := c.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("failed to generate frame id: %w", err)
	}

	if err := os.MkdirAll(c.frameDir, 0o755); err != nil {
		return entity.Frame{}, fmt.Errorf("failed to create frame directory: %w", err)
	}

	output := filepath.Join(c.frameDir, id+".jpg")
	args := make([]string, len(c.argv)-1)
	for i, arg := range c.argv[1:] {
		args[i] = strings.ReplaceAll(arg, OutputPlaceholder, output)
	}

	cmd := exec.CommandContext(ctx, c.argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		c.log.WithFields(logrus.Fields{
			"frame_id": id,
			"output":   strings.TrimSpace(string(out)),
			"error":    err.Error(),
		}).Error("Capture command failed")
		return entity.Frame{}, fmt.Errorf("capture command failed: %w", err)
	}

	mimeType, err := sniffImage(output)
	if err != nil {
		return entity.Frame{}, err
	}

	c.log.WithFields(logrus.Fields{
		"frame_id":  id,
		"path":      output,
		"mime_type": mimeType,
	}).Debug("Frame captured")

	return entity.Frame{
		ID:         id,
		Path:       output,
		MimeType:   mimeType,
		CapturedAt: now,
	}, nil
}
