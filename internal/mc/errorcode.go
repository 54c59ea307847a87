package mc

import (
	"fmt"
)

// Bit-width budgets of the packed 32-bit value:
// severity occupies bits 31-30, facility bits 27-16, code bits 15-0.
const (
	MaxID       uint32 = 0xFFFF
	MaxSeverity uint32 = 0x3
	MaxFacility uint32 = 0xFFF

	facilityShift = 16
	severityShift = 30
)

// ErrorCode is one named status code with its resolved numeric fields
// and message body. Immutable once the message is assigned.
type ErrorCode struct {
	ID           uint32
	Severity     uint32
	Facility     uint32
	SymbolicName string
	Message      []string
}

// NewErrorCode validates the bit-width budgets and builds the code.
// Severity and facility are the resolved numeric values, not names.
func NewErrorCode(id, severity, facility uint32, symbolicName string) (ErrorCode, error) {
	if id > MaxID {
		return ErrorCode{}, fmt.Errorf("%w: message id 0x%X exceeds 16 bits", ErrInvalidErrorCode, id)
	}
	if severity > MaxSeverity {
		return ErrorCode{}, fmt.Errorf("%w: severity 0x%X exceeds 2 bits", ErrInvalidErrorCode, severity)
	}
	if facility > MaxFacility {
		return ErrorCode{}, fmt.Errorf("%w: facility 0x%X exceeds 12 bits", ErrInvalidErrorCode, facility)
	}
	return ErrorCode{
		ID:           id,
		Severity:     severity,
		Facility:     facility,
		SymbolicName: symbolicName,
	}, nil
}

// Value packs severity, facility and id into the 32-bit code value.
func (c ErrorCode) Value() uint32 {
	return c.Severity<<severityShift | c.Facility<<facilityShift | c.ID
}
