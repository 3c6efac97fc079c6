package tx

import (
	"errors"

	"github.com/LeJamon/goPresale/internal/core/fee"
	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/merkle"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/LeJamon/goPresale/internal/storage/database"
)

// errorResults maps domain errors to result codes. The first match wins.
var errorResults = []struct {
	err    error
	result Result
}{
	{ledger.ErrNotFound, TecNO_ENTRY},
	{ErrEntryMissing, TecNO_ENTRY},
	{ErrEntryExists, TecDUPLICATE},

	{presale.ErrUnknownSaleMode, TemBAD_MODE},
	{presale.ErrUnknownWhitelistMode, TemBAD_WHITELIST},
	{presale.ErrUnknownUnsoldAction, TemBAD_UNSOLD_ACTION},
	{presale.ErrInvalidCaps, TemBAD_CAPS},
	{presale.ErrInvalidTimes, TemBAD_TIMES},
	{presale.ErrInvalidDuration, TemBAD_DURATION},
	{presale.ErrInvalidPrice, TemBAD_PRICE},
	{presale.ErrInvalidTranche, TemBAD_TRANCHE},
	{presale.ErrTooManyTranches, TemTOO_MANY_TRANCHES},
	{presale.ErrInsufficientSupply, TemINSUFFICIENT_SUPPLY},
	{presale.ErrInvalidReleaseConfig, TemBAD_RELEASE},
	{fee.ErrInvalidBps, TemBAD_TRANCHE},

	{presale.ErrInvalidProgress, TecWRONG_PROGRESS},
	{presale.ErrTrancheNotFound, TecNO_TRANCHE},
	{presale.ErrWhitelistModeMismatch, TecWHITELIST_MODE},
	{presale.ErrInvalidDepositCap, TecBAD_DEPOSIT_CAP},
	{presale.ErrDepositQuotaExhausted, TecQUOTA_EXHAUSTED},
	{presale.ErrDepositBelowMinimum, TecBELOW_MIN_DEPOSIT},
	{presale.ErrZeroAmount, TecZERO_AMOUNT},
	{presale.ErrZeroTokenAmount, TecZERO_TOKEN_AMOUNT},
	{presale.ErrWithdrawDisabled, TecWITHDRAW_DISABLED},
	{presale.ErrWithdrawExceedsDeposit, TecWITHDRAW_EXCEEDS_DEPOSIT},
	{presale.ErrRemainingBelowMinimum, TecREMAINING_BELOW_MIN},
	{presale.ErrEscrowNotRefreshed, TecNOT_REFRESHED},
	{presale.ErrNothingToClaim, TecNOTHING_TO_CLAIM},
	{presale.ErrNothingToWithdraw, TecNOTHING_TO_WITHDRAW},
	{presale.ErrAlreadyWithdrawn, TecALREADY_WITHDRAWN},
	{presale.ErrAlreadyPerformed, TecALREADY_PERFORMED},
	{presale.ErrEscrowNotSettled, TecHAS_OBLIGATIONS},
	{presale.ErrInvalidProof, TecBAD_PROOF},
	{presale.ErrUnauthorized, TecNO_PERMISSION},
	{presale.ErrSaleMismatch, TecSALE_MISMATCH},

	{presale.ErrReceivedExceedsSent, TefTRANSFER_MISMATCH},
	{merkle.ErrEmptyTree, TemBAD_PROOF},
	{merkle.ErrLeafOutOfBounds, TemBAD_PROOF},
	{safemath.ErrArithmetic, TefARITHMETIC},
	{database.ErrDBClosed, TefSTORAGE},
	{database.ErrBatchOperationFailed, TefSTORAGE},
}

// ResultOf classifies err. A Result anywhere in the chain wins, otherwise
// known domain errors are mapped and anything else is tefINTERNAL.
func ResultOf(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	for _, m := range errorResults {
		if errors.Is(err, m.err) {
			return m.result
		}
	}
	return TefINTERNAL
}
