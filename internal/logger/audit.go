package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction writes an operator action (sync trigger, login, webhook change, ...) to the audit log.
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now().UTC(),
	}
	if uid, ok := c.Locals("userID").(string); ok {
		fields["user_id"] = uid
	}
	if role, ok := c.Locals("userRole").(string); ok {
		fields["user_role"] = role
	}
	if rid := RequestID(c); rid != "" {
		fields["request_id"] = rid
	}
	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD records a mutating entity operation.
func LogCRUD(operation, resourceType, resourceID string, c fiber.Ctx) {
	LogAction("crud_"+operation, c, map[string]interface{}{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}
