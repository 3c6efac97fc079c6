// Package custody provides an in-process ValueTransfer for standalone
// deployments and tests.
package custody

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goPresale/internal/core/fee"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/sirupsen/logrus"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidSource     = errors.New("cannot transfer out of burn")
	ErrKeyReused         = errors.New("idempotency key reused for a different transfer")
)

type balanceKey struct {
	custody tx.Custody
	asset   presale.AssetID
}

type settled struct {
	transfer tx.Transfer
	received uint64
}

// MemoryLedger keeps balances in memory. Assets may charge a transfer fee
// in basis points, taken from the amount that reaches the destination.
// A transfer repeated with the same idempotency key moves nothing and
// returns the first result.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[balanceKey]uint64
	fees     map[presale.AssetID]uint16
	settled  map[[32]byte]settled
	failNext error
	log      logrus.FieldLogger
}

// NewMemoryLedger creates an empty ledger. A nil logger uses the logrus
// standard logger.
func NewMemoryLedger(log logrus.FieldLogger) *MemoryLedger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MemoryLedger{
		balances: make(map[balanceKey]uint64),
		fees:     make(map[presale.AssetID]uint16),
		settled:  make(map[[32]byte]settled),
		log:      log,
	}
}

// Mint credits amount of asset to c.
func (l *MemoryLedger) Mint(c tx.Custody, asset presale.AssetID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := balanceKey{c, asset}
	v, err := safemath.Add(l.balances[k], amount)
	if err != nil {
		return err
	}
	l.balances[k] = v
	return nil
}

// Balance returns what c holds of asset.
func (l *MemoryLedger) Balance(c tx.Custody, asset presale.AssetID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{c, asset}]
}

// SetTransferFee makes every later transfer of asset lose bps of its amount.
func (l *MemoryLedger) SetTransferFee(asset presale.AssetID, bps uint16) error {
	if err := fee.ValidateBps(bps); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fees[asset] = bps
	return nil
}

// FailNext makes the next new transfer fail with err without moving value.
func (l *MemoryLedger) FailNext(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNext = err
}

// Settled returns how many distinct transfers were executed.
func (l *MemoryLedger) Settled() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.settled)
}

func (l *MemoryLedger) Move(ctx context.Context, t tx.Transfer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.settled[t.IdempotencyKey]; ok {
		if prev.transfer != t {
			return 0, ErrKeyReused
		}
		return prev.received, nil
	}
	if l.failNext != nil {
		err := l.failNext
		l.failNext = nil
		return 0, err
	}
	if t.From.Kind == tx.CustodyBurn {
		return 0, ErrInvalidSource
	}

	from := balanceKey{t.From, t.Asset}
	to := balanceKey{t.To, t.Asset}
	if l.balances[from] < t.Amount {
		return 0, fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, t.From, l.balances[from], t.Amount)
	}
	charged, err := safemath.MulDiv(t.Amount, uint64(l.fees[t.Asset]), fee.MaxBps, safemath.RoundDown)
	if err != nil {
		return 0, err
	}
	received := t.Amount - charged
	credited, err := safemath.Add(l.balances[to], received)
	if err != nil {
		return 0, err
	}
	l.balances[from] -= t.Amount
	l.balances[to] = credited
	l.settled[t.IdempotencyKey] = settled{transfer: t, received: received}

	l.log.WithFields(logrus.Fields{
		"from":     t.From.String(),
		"to":       t.To.String(),
		"asset":    t.Asset.String(),
		"amount":   t.Amount,
		"received": received,
	}).Debug("Transfer settled")
	return received, nil
}
