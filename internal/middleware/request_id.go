package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDKey is the locals key under which the request ID is stored.
const RequestIDKey = "requestID"

// HeaderXRequestID is the response header carrying the request ID.
const HeaderXRequestID = "X-Request-ID"

// RequestID attaches a UUID to every request for log correlation. An ID
// supplied by the caller in the X-Request-ID header is kept as-is.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderXRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals(RequestIDKey, id)
		c.Set(HeaderXRequestID, id)
		return c.Next()
	}
}
