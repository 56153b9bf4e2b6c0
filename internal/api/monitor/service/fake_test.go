package monitorService

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/alert"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeCamera struct {
	mu    sync.Mutex
	ready bool
	calls int
	fail  map[int]bool
}

func (c *fakeCamera) TakePhoto(ctx context.Context) (entity.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.fail[c.calls] {
		return entity.Frame{}, errors.New("camera busy")
	}
	return entity.Frame{ID: "frame", Path: "/tmp/frame.jpg", MimeType: "image/jpeg"}, nil
}

func (c *fakeCamera) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *fakeCamera) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeDetector answers the n-th upload with respond(n). Nil respond means
// every frame is Drowsy.
type fakeDetector struct {
	mu      sync.Mutex
	calls   int
	respond func(n int) (*entity.DetectionResult, error)
}

func (d *fakeDetector) Upload(ctx context.Context, frame entity.Frame) (*entity.DetectionResult, error) {
	d.mu.Lock()
	d.calls++
	n := d.calls
	respond := d.respond
	d.mu.Unlock()

	if respond == nil {
		return &entity.DetectionResult{Status: entity.VerdictDrowsy}, nil
	}
	return respond(n)
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func verdicts(seq ...entity.Verdict) func(n int) (*entity.DetectionResult, error) {
	return func(n int) (*entity.DetectionResult, error) {
		v := entity.VerdictDrowsy
		if n <= len(seq) {
			v = seq[n-1]
		}
		return &entity.DetectionResult{Status: v, ProcessingTime: 0.01}, nil
	}
}

type fakeDispatcher struct {
	mu       sync.Mutex
	outcome  entity.AlertOutcome
	contacts []entity.Contact
	messages []string
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, contact entity.Contact, message string) alert.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.contacts = append(d.contacts, contact)
	d.messages = append(d.messages, message)

	outcome := d.outcome
	if outcome == "" {
		outcome = entity.AlertLaunched
	}

	res := alert.Result{Outcome: outcome, URI: alert.BuildURI(contact, message), Handler: "fake"}
	if outcome != entity.AlertLaunched {
		res.Err = alert.ErrNoHandler
	}
	return res
}

func (d *fakeDispatcher) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.contacts)
}

type fakeArchiver struct {
	mu     sync.Mutex
	frames []entity.Frame
}

func (a *fakeArchiver) UploadFrame(ctx context.Context, frame entity.Frame) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames = append(a.frames, frame)
	return "s3://bucket/" + frame.ID, nil
}

func (a *fakeArchiver) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.frames)
}

type loopFixture struct {
	clock      *clock.Mock
	camera     *fakeCamera
	detector   *fakeDetector
	dispatcher *fakeDispatcher
	loop       *DetectionLoop
}

func newFixture(opts ...LoopOption) *loopFixture {
	f := &loopFixture{
		clock:      clock.NewMock(),
		camera:     &fakeCamera{ready: true, fail: map[int]bool{}},
		detector:   &fakeDetector{},
		dispatcher: &fakeDispatcher{},
	}
	opts = append([]LoopOption{WithClock(f.clock)}, opts...)
	f.loop = NewDetectionLoop(quietLogger(), f.camera, f.detector, f.dispatcher, opts...)
	return f
}

const (
	waitFor = time.Second
	pollAt  = 5 * time.Millisecond
)
