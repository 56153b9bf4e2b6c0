package monitorService

import (
	"DrowsyGuard/internal/api/monitor"
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/alert"
	"DrowsyGuard/pkg/camera"
	"DrowsyGuard/pkg/detector"
	"DrowsyGuard/pkg/phone"
	"DrowsyGuard/pkg/s3"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	TickInterval   = 2000 * time.Millisecond
	AlertThreshold = 3
	AlertMessage   = "EMERGENCY: the driver appears to be drowsy and may be falling asleep at the wheel. Please call them right away."

	subscriberBuffer = 32
	archiveTimeout   = 30 * time.Second
)

type LoopOption func(*DetectionLoop)

func WithClock(c clock.Clock) LoopOption {
	return func(l *DetectionLoop) {
		l.clock = c
	}
}

// WithArchiver uploads the frame that triggered an alert.
func WithArchiver(archiver s3.ItfS3) LoopOption {
	return func(l *DetectionLoop) {
		l.archiver = archiver
	}
}

// DetectionLoop captures a frame every TickInterval, sends it for
// classification and raises an alert after AlertThreshold consecutive drowsy
// verdicts.
//
// Ticks are not serialized: every tick runs in its own goroutine, so slow
// round-trips overlap. Each tick carries a sequence number and a result is
// dropped when a later tick has already been applied. Stop prevents new
// ticks but does not cancel in-flight ones; their results still update the
// displayed text, without touching the counter or raising alerts.
type DetectionLoop struct {
	log        *logrus.Logger
	clock      clock.Clock
	validate   *validator.Validate
	camera     camera.ICamera
	detector   detector.IDetector
	dispatcher alert.IDispatcher
	archiver   s3.ItfS3

	mu          sync.Mutex
	state       entity.LoopState
	contact     entity.Contact
	session     uint64
	lastTick    uint64
	applied     uint64
	drowsyCount int
	status      entity.Status
	done        chan struct{}
	subscribers map[chan entity.Status]struct{}
	inflight    sync.WaitGroup
}

func NewDetectionLoop(
	log *logrus.Logger,
	cam camera.ICamera,
	det detector.IDetector,
	dispatcher alert.IDispatcher,
	opts ...LoopOption,
) *DetectionLoop {
	l := &DetectionLoop{
		log:         log,
		clock:       clock.New(),
		validate:    validator.New(),
		camera:      cam,
		detector:    det,
		dispatcher:  dispatcher,
		state:       entity.LoopIdle,
		subscribers: make(map[chan entity.Status]struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.status = entity.Status{
		Text:      entity.StatusIdle,
		State:     entity.LoopIdle,
		UpdatedAt: l.clock.Now(),
	}

	return l
}

func (l *DetectionLoop) Start(contact entity.Contact) error {
	if err := contact.Validate(l.validate); err != nil {
		return fmt.Errorf("%w: %v", monitor.ErrInvalidContact, err)
	}

	if l.camera == nil || !l.camera.IsReady() {
		return monitor.ErrCameraNotReady
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == entity.LoopRunning {
		return monitor.ErrAlreadyRunning
	}

	l.session++
	l.state = entity.LoopRunning
	l.contact = contact
	l.drowsyCount = 0
	// Results of ticks issued before this start belong to an older session.
	l.applied = l.lastTick
	l.done = make(chan struct{})

	ticker := l.clock.Ticker(TickInterval)
	go l.run(ticker, l.done, l.session)

	l.status.Verdict = ""
	l.status.Alert = ""
	l.setStatusLocked(entity.StatusScanning, l.lastTick)

	l.log.WithFields(logrus.Fields{
		"contact":  phone.Mask(contact.String()),
		"session":  l.session,
		"interval": TickInterval.String(),
	}).Info("Drowsiness monitor started")

	return nil
}

// Stop halts ticking. Calling it while idle does nothing.
func (l *DetectionLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != entity.LoopRunning {
		return
	}

	l.state = entity.LoopIdle
	l.drowsyCount = 0
	close(l.done)
	l.done = nil

	l.setStatusLocked(l.status.Text, l.status.Tick)

	l.log.WithField("session", l.session).Info("Drowsiness monitor stopped")
}

// Wait blocks until ticks that were already running when Stop was called
// have finished, or ctx is done.
func (l *DetectionLoop) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		l.inflight.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *DetectionLoop) State() entity.LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *DetectionLoop) Status() entity.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *DetectionLoop) DrowsyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drowsyCount
}

// Subscribe returns a channel receiving every status change. Slow readers
// lose updates rather than block the loop.
func (l *DetectionLoop) Subscribe() (<-chan entity.Status, func()) {
	ch := make(chan entity.Status, subscriberBuffer)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subscribers, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
}

func (l *DetectionLoop) run(ticker *clock.Ticker, done <-chan struct{}, session uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			seq, ok := l.beginTick(session)
			if !ok {
				return
			}
			go l.tick(session, seq)
		}
	}
}

func (l *DetectionLoop) beginTick(session uint64) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != entity.LoopRunning || l.session != session {
		return 0, false
	}

	l.lastTick++
	l.inflight.Add(1)
	return l.lastTick, true
}

func (l *DetectionLoop) tick(session, seq uint64) {
	defer l.inflight.Done()

	ctx := context.Background()
	fields := logrus.Fields{"session": session, "tick": seq}

	frame, err := l.camera.TakePhoto(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", monitor.ErrCapture, err)
		l.log.WithFields(fields).WithError(err).Warn("Frame capture failed, skipping tick")
		l.applyCaptureError(seq, err)
		return
	}

	fields["frame_id"] = frame.ID

	result, err := l.detector.Upload(ctx, frame)
	if err != nil {
		err = fmt.Errorf("%w: %v", monitor.ErrNetwork, err)
		l.log.WithFields(fields).WithError(err).Warn("Detection upload failed")
		l.applyOutcome(session, seq, "", err)
		return
	}

	fields["verdict"] = result.Status
	fields["processing_time"] = result.ProcessingTime
	l.log.WithFields(fields).Debug("Verdict received")

	contact, fire := l.applyOutcome(session, seq, result.Status, nil)
	if !fire {
		return
	}

	res := l.dispatcher.Dispatch(ctx, contact, AlertMessage)
	l.applyAlert(seq, res)

	if l.archiver != nil {
		l.archive(frame, fields)
	}
}

func (l *DetectionLoop) applyCaptureError(seq uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.acceptLocked(seq) {
		return
	}

	l.status.Verdict = ""
	l.status.Alert = ""
	l.setStatusLocked(monitor.StatusText(err), seq)
}

// applyOutcome records a verdict or upload error and reports whether the
// alert threshold was reached, in which case the counter is already reset.
func (l *DetectionLoop) applyOutcome(session, seq uint64, verdict entity.Verdict, err error) (entity.Contact, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.acceptLocked(seq) {
		return "", false
	}

	text := string(verdict)
	if err != nil {
		text = monitor.StatusText(err)
	}

	live := l.state == entity.LoopRunning && l.session == session
	fire := false

	if live {
		if err == nil && verdict.IsDrowsy() {
			l.drowsyCount++
			if l.drowsyCount >= AlertThreshold {
				fire = true
				l.drowsyCount = 0
			}
		} else {
			l.drowsyCount = 0
		}
	}

	l.status.Verdict = verdict
	l.status.Alert = ""
	l.setStatusLocked(text, seq)

	return l.contact, fire
}

func (l *DetectionLoop) applyAlert(seq uint64, res alert.Result) {
	fields := logrus.Fields{
		"tick":    seq,
		"outcome": res.Outcome,
		"handler": res.Handler,
	}

	var err error
	switch res.Outcome {
	case entity.AlertUnavailable:
		err = fmt.Errorf("%w: %v", monitor.ErrCapabilityUnavailable, res.Err)
	case entity.AlertFailed:
		err = fmt.Errorf("%w: %v", monitor.ErrAlertFailed, res.Err)
	}

	if err != nil {
		l.log.WithFields(fields).WithError(err).Error("Drowsiness alert not launched")
	} else {
		l.log.WithFields(fields).Warn("Drowsiness alert launched")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// A later tick already replaced the display.
	if l.applied != seq {
		return
	}

	text := l.status.Text
	if err != nil {
		text = monitor.StatusText(err)
	}
	l.status.Alert = res.Outcome
	l.setStatusLocked(text, seq)
}

func (l *DetectionLoop) archive(frame entity.Frame, fields logrus.Fields) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	location, err := l.archiver.UploadFrame(ctx, frame)
	if err != nil {
		l.log.WithFields(fields).WithError(err).Error("Failed to archive alert frame")
		return
	}

	l.log.WithFields(fields).WithField("location", location).Info("Alert frame archived")
}

func (l *DetectionLoop) acceptLocked(seq uint64) bool {
	if seq <= l.applied {
		l.log.WithFields(logrus.Fields{
			"tick":    seq,
			"applied": l.applied,
		}).Debug("Dropping stale tick result")
		return false
	}
	l.applied = seq
	return true
}

func (l *DetectionLoop) setStatusLocked(text string, seq uint64) {
	l.status.Text = text
	l.status.State = l.state
	l.status.Contact = l.contact
	l.status.DrowsyCount = l.drowsyCount
	l.status.Tick = seq
	l.status.UpdatedAt = l.clock.Now()

	for ch := range l.subscribers {
		select {
		case ch <- l.status:
		default:
		}
	}
}
