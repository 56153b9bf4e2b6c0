package camera

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/utils"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type replayCamera struct {
	log   *logrus.Logger
	utils utils.IUtils
	dir   string

	mu   sync.Mutex
	next int
}

// NewReplayCamera serves the images found in dir in name order, wrapping
// around at the end. It stands in for a device camera on desktops and in CI.
func NewReplayCamera(log *logrus.Logger, u utils.IUtils, dir string) ICamera {
	return &replayCamera{
		log:   log,
		utils: u,
		dir:   dir,
	}
}

func (c *replayCamera) images() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(c.dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

func (c *replayCamera) IsReady() bool {
	files, err := c.images()
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"dir":   c.dir,
			"error": err.Error(),
		}).Warn("Replay directory unreadable")
		return false
	}
	return len(files) > 0
}

func (c *replayCamera) TakePhoto(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}

	files, err := c.images()
	if err != nil {
		return entity.Frame{}, fmt.Errorf("failed to list replay frames: %w", err)
	}
	if len(files) == 0 {
		return entity.Frame{}, ErrNotReady
	}

	c.mu.Lock()
	path := files[c.next%len(files)]
	c.next++
	c.mu.Unlock()

	mimeType, err := sniffImage(path)
	if err != nil {
		return entity.Frame{}, err
	}

	now := time.Now()
	id, err := c.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("failed to generate frame id: %w", err)
	}

	return entity.Frame{
		ID:         id,
		Path:       path,
		MimeType:   mimeType,
		CapturedAt: now,
	}, nil
}
