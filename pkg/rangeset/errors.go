package rangeset

import "errors"

var (
	// ErrInvalidRange is returned when a zero-width range is passed where a
	// non-degenerate range is required, or when a value or boundary lies
	// outside the domain.
	ErrInvalidRange = errors.New("invalid range")

	// ErrDomainMismatch is returned when two sets over different bit widths
	// are combined.
	ErrDomainMismatch = errors.New("domain width mismatch")

	// ErrInvalidEncoding is returned when deserialization or parse input
	// violates the ordering or parity invariants of the boundary list.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidWidth is returned when constructing a set over a domain
	// width outside 1..64.
	ErrInvalidWidth = errors.New("invalid domain width")
)
