package global

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// LoyverseEventTypes are the webhook types the ingest pipeline knows how to dispatch.
// Other types are still accepted and stored as skipped.
var LoyverseEventTypes = []string{
	"receipt.created", "receipt.updated",
	"shift.created", "shift.updated",
	"inventory.updated",
	"item.created", "item.updated",
	"employee.created", "employee.updated",
}

// UserRoles are the roles a back-office user can hold.
var UserRoles = []string{"admin", "gerente", "cajero", "auditor"}

// InitValidator creates the shared validator and registers the custom rules.
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("loyverse_event", validateLoyverseEvent)
	_ = Validate.RegisterValidation("user_role", validateUserRole)
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerhtml",
		"fromcharcode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateLoyverseEvent accepts a webhook type the pipeline can dispatch. Used when
// registering upstream webhooks so nobody subscribes to events that would only be skipped.
func validateLoyverseEvent(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range LoyverseEventTypes {
		if value == t {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, r := range UserRoles {
		if value == r {
			return true
		}
	}
	return false
}
