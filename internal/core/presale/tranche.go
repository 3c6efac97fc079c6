package presale

import "github.com/LeJamon/goPresale/internal/core/fee"

// MaxTranches is the fixed tranche capacity of a sale.
const MaxTranches = 5

// TrancheConfig is the immutable part of a tranche. DepositFeeCap bounds the
// fee charged on a single deposit; zero means uncapped.
type TrancheConfig struct {
	Supply          uint64 `json:"supply"`
	BuyerMinDeposit uint64 `json:"buyer_min_deposit"`
	BuyerMaxDeposit uint64 `json:"buyer_max_deposit"`
	DepositFeeBps   uint16 `json:"deposit_fee_bps"`
	DepositFeeCap   uint64 `json:"deposit_fee_cap"`
}

func (c TrancheConfig) isZero() bool {
	return c == TrancheConfig{}
}

func (c TrancheConfig) validate() error {
	if c.Supply == 0 || c.BuyerMaxDeposit == 0 || c.BuyerMinDeposit > c.BuyerMaxDeposit {
		return ErrInvalidTranche
	}
	if err := fee.ValidateBps(c.DepositFeeBps); err != nil {
		return ErrInvalidTranche
	}
	return nil
}

// Tranche is a sale sub-bucket. The all-zero value is the uninitialized
// sentinel. Counters change only through the registry functions of this
// package.
type Tranche struct {
	config TrancheConfig

	totalDeposit       uint64
	totalDepositFee    uint64
	totalClaimed       uint64
	totalRefundedQuote uint64
	totalRefundedFee   uint64
	escrowCount        uint64
}

func (t *Tranche) Initialized() bool { return !t.config.isZero() }

func (t *Tranche) Config() TrancheConfig { return t.config }
func (t *Tranche) TotalDeposit() uint64 { return t.totalDeposit }
func (t *Tranche) TotalDepositFee() uint64 { return t.totalDepositFee }
func (t *Tranche) TotalClaimed() uint64 { return t.totalClaimed }
func (t *Tranche) TotalRefundedQuote() uint64 { return t.totalRefundedQuote }
func (t *Tranche) TotalRefundedFee() uint64 { return t.totalRefundedFee }
func (t *Tranche) EscrowCount() uint64 { return t.escrowCount }

// personalCap is the deposit ceiling of an escrow in this tranche.
func (t *Tranche) personalCap(e *Escrow) uint64 {
	if e.depositCap > 0 && e.depositCap < t.config.BuyerMaxDeposit {
		return e.depositCap
	}
	return t.config.BuyerMaxDeposit
}
