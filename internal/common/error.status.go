// Package common holds the error taxonomy and status constants shared by every layer.
package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes used in responses.
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
)

// Response messages
const (
	MsgSuccess = "Operation completed successfully"
	MsgCreated = "Created successfully"

	MsgBadRequest      = "Invalid request"
	MsgUnauthorized    = "Please log in"
	MsgForbidden       = "Access denied"
	MsgNotFound        = "Resource not found"
	MsgInternalError   = "Internal server error"
	MsgTooManyRequests = "Too many requests, please try again later"

	MsgValidationError = "Invalid data"
	MsgDatabaseError   = "Database error"
	MsgInvalidFormat   = "Invalid data format"
)

// ErrorCode describes a hierarchical error code.
type ErrorCode struct {
	Code        string // e.g. AUTH_001
	Category    string // e.g. Authentication
	SubCategory string // e.g. Token
	Description string
}

var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", SubCategory: "Internal", Description: "Internal system error"}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken       = ErrorCode{Code: "AUTH_001", Category: "Authentication", SubCategory: "Token", Description: "Token error"}
	ErrCodeAuthCredentials = ErrorCode{Code: "AUTH_002", Category: "Authentication", SubCategory: "Credentials", Description: "Credentials error"}
	ErrCodeAuthRole        = ErrorCode{Code: "AUTH_003", Category: "Authentication", SubCategory: "Role", Description: "Role error"}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput     = ErrorCode{Code: "VAL_001", Category: "Validation", SubCategory: "Input", Description: "Input data error"}
	ErrCodeValidationFormat    = ErrorCode{Code: "VAL_002", Category: "Validation", SubCategory: "Format", Description: "Data format error"}
	ErrCodeValidationSignature = ErrorCode{Code: "VAL_003", Category: "Validation", SubCategory: "Signature", Description: "Webhook signature error"}

	// Database Errors (DB_xxx)
	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", SubCategory: "General", Description: "General database error"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", SubCategory: "Connection", Description: "Database connection error"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", SubCategory: "Query", Description: "Database query error"}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState     = ErrorCode{Code: "BIZ_001", Category: "Business", SubCategory: "State", Description: "Business state error"}
	ErrCodeBusinessOperation = ErrorCode{Code: "BIZ_002", Category: "Business", SubCategory: "Operation", Description: "Business operation error"}

	// Upstream Errors (UPS_xxx)
	ErrCodeUpstream = ErrorCode{Code: "UPS_001", Category: "Upstream", SubCategory: "Call", Description: "Upstream API call failed"}
)

// Error is the detailed error returned by services and rendered by handlers.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors with the same code and message, so errors.Is works against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError builds an *Error.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinel errors
var (
	// Authentication
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Invalid email or password", StatusUnauthorized, nil)
	ErrUserInactive       = NewError(ErrCodeAuthCredentials, "User is inactive", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Session expired", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Invalid token", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Missing authentication token", StatusUnauthorized, nil)
	ErrRoleForbidden      = NewError(ErrCodeAuthRole, "Insufficient role for this operation", StatusForbidden, nil)

	// Validation
	ErrInvalidInput     = NewError(ErrCodeValidationInput, "Invalid input data", StatusBadRequest, nil)
	ErrInvalidFormat    = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrRequiredField    = NewError(ErrCodeValidationInput, "Missing required field", StatusBadRequest, nil)
	ErrInvalidSignature = NewError(ErrCodeValidationSignature, "Invalid webhook signature", StatusBadRequest, nil)

	// Database
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Data not found", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Data already exists", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Database connection error", StatusServiceUnavailable, nil)

	// Business
	ErrSyncInProgress   = NewError(ErrCodeBusinessState, "A sync of this kind is already running", StatusConflict, nil)
	ErrInvalidOperation = NewError(ErrCodeBusinessOperation, "Invalid operation", StatusBadRequest, nil)
)

// NotFound returns a not-found error carrying the lookup key.
func NotFound(entity string, key any) error {
	return NewError(ErrCodeDatabaseQuery, ErrNotFound.Error(), StatusNotFound, map[string]any{
		"entity": entity,
		"key":    key,
	})
}

// InvalidInput wraps a validation failure with its cause as details.
func InvalidInput(message string, cause error) error {
	var details any
	if cause != nil {
		details = cause.Error()
	}
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// Upstream maps an upstream failure to a 502 carrying its status and message.
func Upstream(op string, statusCode int, message string) error {
	return NewError(ErrCodeUpstream, fmt.Sprintf("Upstream call failed: %s", op), StatusBadGateway, map[string]any{
		"upstream_status":  statusCode,
		"upstream_message": message,
	})
}

// ConvertMongoError maps driver errors onto the taxonomy above.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeDatabaseQuery, ErrDuplicate.Error(), StatusConflict, err.Error())
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return NewError(ErrCodeDatabaseConnection, ErrConnection.Error(), StatusServiceUnavailable, err.Error())
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, cmdErr.Message)
	}
	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err.Error())
}
