package failure

import (
	"errors"
	"net/http"
)

// Reason codes returned alongside the HTTP status so callers can render
// an actionable message without parsing the text.
const (
	ReasonNotFound           = "NOT_FOUND"
	ReasonUnauthorized       = "UNAUTHORIZED"
	ReasonForbidden          = "FORBIDDEN"
	ReasonValidation         = "VALIDATION_ERROR"
	ReasonVehicleNotApproved = "VEHICLE_NOT_APPROVED"
	ReasonSlotConflict       = "SLOT_CONFLICT"
	ReasonInvalidState       = "INVALID_STATE"
	ReasonCapacityExceeded   = "CAPACITY_EXCEEDED"

	// Availability sub-codes, shared with the availability model.
	ReasonAreaNotFound           = "AREA_NOT_FOUND"
	ReasonAreaClosedManual       = "AREA_CLOSED_MANUAL"
	ReasonAreaClosedEvent        = "AREA_CLOSED_EVENT"
	ReasonSpaceNotFound          = "SPACE_NOT_FOUND"
	ReasonSpaceStatusUnavailable = "SPACE_STATUS_UNAVAILABLE"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Reason: ReasonForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Reason: ReasonForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Reason:  ReasonValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Reason:  ReasonValidation,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Reason:  ReasonUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Reason:  ReasonForbidden,
		Message: msg,
	}
}

// SlotConflict reports an overlapping active booking for the same space.
func SlotConflict(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonSlotConflict,
		Message: msg,
	}
}

// InvalidState reports a transition not permitted from the current booking status.
func InvalidState(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Reason:  ReasonInvalidState,
		Message: msg,
	}
}

// VehicleNotApproved reports a booking attempt with a vehicle pending approval or rejected.
func VehicleNotApproved(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonVehicleNotApproved,
		Message: msg,
	}
}

// CapacityExceeded reports that creating more spaces would exceed the system-wide cap.
func CapacityExceeded(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonCapacityExceeded,
		Message: msg,
	}
}

// Unavailable reports an availability rejection with the sub-code that produced it.
func Unavailable(reason, msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Reason:  reason,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason code of an error interface, empty when untyped.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}
