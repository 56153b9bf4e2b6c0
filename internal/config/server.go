package config

import (
	detectionHandler "DrowsyGuard/internal/api/detection/handler"
	detectionService "DrowsyGuard/internal/api/detection/service"
	monitorHandler "DrowsyGuard/internal/api/monitor/handler"
	monitorService "DrowsyGuard/internal/api/monitor/service"
	"DrowsyGuard/internal/middleware"
	"DrowsyGuard/pkg/alert"
	"DrowsyGuard/pkg/camera"
	"DrowsyGuard/pkg/detector"
	"DrowsyGuard/pkg/gemini"
	"DrowsyGuard/pkg/redis"
	"DrowsyGuard/pkg/s3"
	"DrowsyGuard/pkg/utils"
	"DrowsyGuard/pkg/whatsapp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	camera         camera.ICamera
	detector       detector.IDetector
	dispatcher     alert.IDispatcher
	redisServer    redis.IRedis
	whatsappClient whatsapp.IWhatsappSender
	geminiClient   gemini.IGemini
	s3Client       s3.ItfS3
	monitor        monitorService.IMonitorService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithMiddleware(reqRate float64, burst int) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, reqRate, burst)
		return nil
	}
}

// WithCamera replays still images from replayDir when it is set, otherwise
// shells out to command for every frame.
func WithCamera(command, replayDir, frameDir string) ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.utils == nil {
			return fmt.Errorf("logger and utils must be initialized before camera")
		}

		if replayDir != "" {
			s.camera = camera.NewReplayCamera(s.log, s.utils, replayDir)
		} else {
			s.camera = camera.NewCommandCamera(s.log, s.utils, command, frameDir)
		}

		if !s.camera.IsReady() {
			s.log.Warn("Camera is not ready, monitoring cannot start until it is")
		}
		return nil
	}
}

func WithGeminiClient(apiKey, modelName string) ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient(apiKey, modelName)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

// WithDetector picks the classification backend. The gemini backend needs
// WithGeminiClient to run first.
func WithDetector(backend, endpoint string) ServerOption {
	return func(s *Server) error {
		switch backend {
		case DetectorGemini:
			if s.geminiClient == nil {
				return fmt.Errorf("gemini detector requires a Gemini client")
			}
			s.detector = detector.NewGeminiDetector(s.log, s.geminiClient)
		case DetectorHTTP, "":
			s.detector = detector.NewHTTPDetector(s.log, endpoint)
		default:
			return fmt.Errorf("unknown detector backend %q", backend)
		}

		s.log.WithField("backend", backend).Info("Detector configured")
		return nil
	}
}

func WithWhatsappClient(dsn string) ServerOption {
	return func(s *Server) error {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		client, err := whatsapp.New(ctx, s.log, dsn)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

// WithAlertDispatcher hands alerts to the opener command first and falls
// back to WhatsApp when a client was configured.
func WithAlertDispatcher(opener string) ServerOption {
	return func(s *Server) error {
		handlers := []alert.Handler{alert.NewOpenerHandler(s.log, opener)}
		if s.whatsappClient != nil {
			handlers = append(handlers, alert.NewWhatsappHandler(s.whatsappClient))
		}
		s.dispatcher = alert.NewDispatcher(s.log, handlers...)
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithS3Client(cfg s3.Config) ServerOption {
	return func(s *Server) error {
		client, err := s3.New(cfg)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	if s.camera == nil || s.detector == nil || s.dispatcher == nil {
		return errors.New("camera, detector and alert dispatcher are required")
	}

	var loopOpts []monitorService.LoopOption
	if s.s3Client != nil {
		loopOpts = append(loopOpts, monitorService.WithArchiver(s.s3Client))
	}

	loop := monitorService.NewDetectionLoop(s.log, s.camera, s.detector, s.dispatcher, loopOpts...)
	s.monitor = monitorService.NewMonitorService(s.log, loop, s.redisServer)
	monitorHandlers := monitorHandler.New(s.log, s.validator, s.middleware, s.monitor)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, monitorHandlers)
	return nil
}

// RegisterDetectionStub serves the detection endpoint itself, scoring frames
// with scorer.
func (s *Server) RegisterDetectionStub(scorer detectionService.Scorer) {
	detectionServices := detectionService.NewDetectionService(s.log, s.utils, scorer)
	s.handlers = append(s.handlers, detectionHandler.New(s.log, s.middleware, detectionServices, s.utils))
}

// Run serves the registered handlers under prefix until the listener fails
// or Shutdown is called.
func (s *Server) Run(port, prefix string) error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	var router fiber.Router = s.engine
	if prefix != "" {
		router = s.engine.Group(prefix)
	}

	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error

	if s.monitor != nil {
		if shutdownErr := s.monitor.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("monitor: %w", shutdownErr))
		}
	}

	if shutdownErr := s.engine.ShutdownWithContext(ctx); shutdownErr != nil {
		err = multierr.Append(err, fmt.Errorf("http: %w", shutdownErr))
	}

	if s.whatsappClient != nil {
		err = multierr.Append(err, s.whatsappClient.Disconnect())
	}

	if s.redisServer != nil {
		err = multierr.Append(err, s.redisServer.Close())
	}

	if s.geminiClient != nil {
		err = multierr.Append(err, s.geminiClient.Close())
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
