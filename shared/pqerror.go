package shared

import (
	"errors"
	"mawgifi/shared/constant"

	"github.com/lib/pq"
)

func isPqErrorCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}

// IsUniqueViolation reports whether err wraps a Postgres unique-constraint
// violation (duplicate plate, duplicate space code).
func IsUniqueViolation(err error) bool {
	return isPqErrorCode(err, constant.PqErrorCodeUniqueViolation)
}

// IsExclusionViolation reports whether err wraps a Postgres exclusion
// constraint violation, the commit-time backstop against overlapping
// bookings.
func IsExclusionViolation(err error) bool {
	return isPqErrorCode(err, constant.PqErrorCodeExclusionViolation)
}
