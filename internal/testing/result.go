package testing

import "github.com/LeJamon/goPresale/internal/core/tx"

// TxResult represents the result of applying an operation.
type TxResult struct {
	// Result is the engine result code.
	Result tx.Result

	// Code is the name of Result, e.g. "tesSUCCESS".
	Code string

	// Success indicates the operation was applied and committed.
	Success bool

	// Replayed indicates the result was returned from an earlier application.
	Replayed bool

	// Message provides additional details about the result.
	Message string

	// Metadata is what the operation delivered; nil unless it succeeded.
	Metadata *tx.Metadata
}

func resultFrom(r tx.ApplyResult) TxResult {
	return TxResult{
		Result:   r.Result,
		Code:     r.Result.String(),
		Success:  r.Result.IsSuccess(),
		Replayed: r.Replayed,
		Message:  r.Message,
		Metadata: r.Metadata,
	}
}

// Delivered returns the amount recorded under name, or 0.
func (r TxResult) Delivered(name string) uint64 {
	if r.Metadata == nil {
		return 0
	}
	return r.Metadata.Delivered[name]
}

// IsClaimed returns true for tec codes: the operation was rejected by a
// precondition and left state untouched.
func (r TxResult) IsClaimed() bool {
	return r.Result.IsTec()
}

// IsMalformed returns true if the result code indicates the operation is malformed.
func (r TxResult) IsMalformed() bool {
	return r.Result.IsTem()
}

// IsFailed returns true if the result code indicates a fatal failure.
func (r TxResult) IsFailed() bool {
	return r.Result.IsTef()
}
