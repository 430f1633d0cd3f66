// Package domain provides typed identifiers for the TripMatch entities the
// aggregation service joins on, so an experience id can't be passed where an
// inquiry id is expected.
package domain

import (
	"strconv"
	"strings"

	dErrors "tripmatch/pkg/domain-errors"
)

// UserID identifies a platform user (agency or tourist). The upstream IAM issues
// opaque string ids, so no format beyond non-empty is enforced.
type UserID string

// Integer keys assigned by the upstream API.
type (
	ExperienceID int
	InquiryID    int
)

// Parse functions - use at trust boundaries (handlers, token claims).

func ParseUserID(s string) (UserID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user ID cannot be empty")
	}
	return UserID(trimmed), nil
}

func ParseInquiryID(s string) (InquiryID, error) {
	n, err := parsePositiveInt(s, "inquiry ID")
	return InquiryID(n), err
}

func ParseExperienceID(s string) (ExperienceID, error) {
	n, err := parsePositiveInt(s, "experience ID")
	return ExperienceID(n), err
}

func (id UserID) String() string       { return string(id) }
func (id ExperienceID) String() string { return strconv.Itoa(int(id)) }
func (id InquiryID) String() string    { return strconv.Itoa(int(id)) }

func (id UserID) IsNil() bool { return id == "" }

func parsePositiveInt(s, label string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" must be an integer")
	}
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" must be positive")
	}
	return n, nil
}
