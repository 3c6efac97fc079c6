package presale

import "errors"

// Configuration errors. A sale failing any of these is never created.
var (
	ErrUnknownSaleMode      = errors.New("unknown sale mode")
	ErrUnknownWhitelistMode = errors.New("unknown whitelist mode")
	ErrUnknownUnsoldAction  = errors.New("unknown unsold action")
	ErrInvalidCaps          = errors.New("invalid raise caps")
	ErrInvalidTimes         = errors.New("invalid sale window")
	ErrInvalidDuration      = errors.New("duration out of range")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidTranche       = errors.New("invalid tranche configuration")
	ErrTooManyTranches      = errors.New("too many tranches")
	ErrInsufficientSupply   = errors.New("tranche supply below the base sellable at max cap")
	ErrInvalidReleaseConfig = errors.New("invalid immediate release configuration")
)

// Precondition errors. State is left untouched when one is returned.
var (
	ErrInvalidProgress        = errors.New("operation not allowed at current sale progress")
	ErrTrancheNotFound        = errors.New("tranche not found")
	ErrWhitelistModeMismatch  = errors.New("operation not allowed by whitelist mode")
	ErrInvalidDepositCap      = errors.New("invalid personal deposit cap")
	ErrDepositQuotaExhausted  = errors.New("deposit quota exhausted")
	ErrDepositBelowMinimum    = errors.New("deposit below tranche minimum")
	ErrZeroAmount             = errors.New("amount is zero")
	ErrZeroTokenAmount        = errors.New("deposit buys no base")
	ErrWithdrawDisabled       = errors.New("withdraw not allowed for this sale")
	ErrWithdrawExceedsDeposit = errors.New("withdraw exceeds deposit")
	ErrRemainingBelowMinimum  = errors.New("remaining deposit below tranche minimum")
	ErrEscrowNotRefreshed     = errors.New("escrow not refreshed at current time")
	ErrNothingToClaim         = errors.New("nothing to claim")
	ErrNothingToWithdraw      = errors.New("nothing to withdraw")
	ErrAlreadyWithdrawn       = errors.New("remaining quote already withdrawn")
	ErrAlreadyPerformed       = errors.New("action already performed")
	ErrEscrowNotSettled       = errors.New("escrow has unsettled obligations")
	ErrInvalidProof           = errors.New("merkle proof verification failed")
	ErrUnauthorized           = errors.New("caller is not authorized")
	ErrSaleMismatch           = errors.New("escrow belongs to another sale")
)

// ErrReceivedExceedsSent means custody credited more than was requested.
var ErrReceivedExceedsSent = errors.New("received amount exceeds transfer amount")
