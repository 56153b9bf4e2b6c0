package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger, appName string) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               appName,
			BodyLimit:             10 * 1024 * 1024,
			DisableKeepalive:      false,
			DisableStartupMessage: logger.GetLevel() < logrus.InfoLevel,
			StrictRouting:         true,
			CaseSensitive:         true,
			EnablePrintRoutes:     logger.GetLevel() >= logrus.DebugLevel,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
		})

	return app
}
