package handlers

import (
	"strconv"

	"fraudwatch/internal/utils/response"
	"fraudwatch/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// failure answers validation errors with their field map and anything
// else with a logged 500.
func failure(c *fiber.Ctx, log *logrus.Logger, err error, message string) error {
	if fields, ok := validation.Fields(err); ok {
		return response.ValidationFailed(c, fields)
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return response.ServerError(c, message)
}
