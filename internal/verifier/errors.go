package verifier

import (
	"errors"
	"fmt"
)

// ErrVerificationFailed is returned when the IR is invalid. The details were
// emitted to the diagnostic sink.
var ErrVerificationFailed = errors.New("verification failed")

// Diagnostic codes.
//
// V1xx structural, V2xx hook, V3xx policy, V4xx dominance.
const (
	CodeArgumentOwner       = "V101"
	CodeEmptyBlock          = "V102"
	CodeMidBlockSuccessors  = "V103"
	CodeCrossRegionBranch   = "V104"
	CodeMissingTerminator   = "V105"
	CodeNullOperand         = "V106"
	CodeGraphRegionBlocks   = "V107"
	CodeEntryPredecessors   = "V108"
	CodeAttributeHook       = "V201"
	CodeInvariantHook       = "V202"
	CodeRegionInvariantHook = "V203"
	CodeUnregisteredDialect = "V301"
	CodeUnknownOperation    = "V302"
	CodeOperandDominance    = "V401"
)

// InternalError reports a state the verifier proves impossible, such as a
// block argument failing to dominate a use in its own block. It indicates a
// bug in the dominance oracle, not invalid IR, and is raised with panic.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in dominance verification: %s", e.Message)
}

// IsInternalError reports whether err is or wraps an *InternalError.
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
