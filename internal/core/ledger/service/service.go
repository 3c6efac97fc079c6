// Package service answers queries about sales and forwards operations to
// the engine.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrPresaleNotFound = errors.New("presale not found")
	ErrEscrowNotFound  = errors.New("escrow not found")
	ErrRootNotFound    = errors.New("merkle root not found")
	ErrNotOperator     = errors.New("operator not registered")
)

// PricePlaces is the number of fractional digits prices are rendered with
const PricePlaces = 18

// Service manages reads and submissions against one engine
type Service struct {
	engine *tx.Engine
	store  *ledger.Store
	clock  tx.Clock
	log    logrus.FieldLogger
}

// New creates a Service over engine. clock supplies the time previews are
// computed at and should be the clock of the engine.
func New(engine *tx.Engine, clock tx.Clock, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		engine: engine,
		store:  engine.Store(),
		clock:  clock,
		log:    log.WithField("component", "service"),
	}
}

// Now returns the clock reading queries are answered at
func (s *Service) Now() uint64 {
	return s.clock.Now()
}

// CacheStats reports the sale cache hits and misses of the store
func (s *Service) CacheStats() (hits, misses uint64) {
	return s.store.CacheStats()
}

// Submit applies op.
func (s *Service) Submit(ctx context.Context, op tx.Transaction) tx.ApplyResult {
	return s.engine.Apply(ctx, op)
}

// SubmitJSON decodes and applies one operation. Operations without a nonce
// get a random one, returned so the caller can retry.
func (s *Service) SubmitJSON(ctx context.Context, data []byte) (string, tx.ApplyResult) {
	op, err := tx.FromJSON(data)
	if err != nil {
		return "", tx.ApplyResult{Result: tx.ResultOf(err), AppliedAt: s.clock.Now(), Message: err.Error()}
	}
	common := op.GetCommon()
	if common.Nonce == "" {
		common.Nonce = uuid.NewString()
	}
	result := s.engine.Apply(ctx, op)
	s.log.WithFields(logrus.Fields{
		"op":       op.TxType().String(),
		"result":   result.Result.String(),
		"replayed": result.Replayed,
	}).Info("Submitted operation")
	return common.Nonce, result
}

// PresaleInfo is a sale with the values derived at query time
type PresaleInfo struct {
	presale.PresaleRecord

	Mode           string `json:"mode"`
	Whitelist      string `json:"whitelist"`
	UnsoldAction   string `json:"unsold_action"`
	Price          string `json:"price,omitempty"`
	Progress       string `json:"progress"`
	TotalSupply    uint64 `json:"total_supply"`
	TotalBaseSold  uint64 `json:"total_base_sold"`
	CollectableFee uint64 `json:"collectable_fee"`
	QueriedAt      uint64 `json:"queried_at"`
}

// Presale returns one sale
func (s *Service) Presale(ctx context.Context, id presale.ID) (*PresaleInfo, error) {
	p, err := s.store.Presale(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPresaleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	info := s.presaleInfo(p, s.clock.Now())
	return &info, nil
}

// Presales returns every sale
func (s *Service) Presales(ctx context.Context) ([]PresaleInfo, error) {
	sales, err := s.store.Presales(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]PresaleInfo, 0, len(sales))
	for _, p := range sales {
		out = append(out, s.presaleInfo(p, now))
	}
	return out, nil
}

func (s *Service) presaleInfo(p *presale.Presale, now uint64) PresaleInfo {
	info := PresaleInfo{
		PresaleRecord: p.Record(),
		Mode:          p.Mode().String(),
		Whitelist:     p.Whitelist().String(),
		UnsoldAction:  p.UnsoldAction().String(),
		Progress:      p.Progress(now).String(),
		TotalSupply:   p.TotalSupply(),
		QueriedAt:     now,
	}
	if p.Mode() == presale.ModeFixedPrice {
		info.Price = presale.FormatPrice(p.QPrice(), PricePlaces)
	}
	// Derived totals are best effort, a sale that cannot compute them is
	// still reported
	if sold, err := p.TotalBaseSold(); err == nil {
		info.TotalBaseSold = sold
	} else {
		s.log.WithError(err).WithField("presale", p.ID().String()).Warn("Failed to compute base sold")
	}
	if fee, err := p.CollectableFee(); err == nil {
		info.CollectableFee = fee
	}
	return info
}

// EscrowInfo is an escrow with the values its owner could act on now
type EscrowInfo struct {
	presale.EscrowRecord

	// Claimable is vested base not yet accrued into PendingClaim
	Claimable uint64 `json:"claimable"`

	// RemainingQuote is what WithdrawRemainingQuote would pay now
	RemainingQuote *presale.Refund `json:"remaining_quote,omitempty"`
}

// Escrow returns the escrow of owner in tranche idx
func (s *Service) Escrow(ctx context.Context, sale presale.ID, owner presale.AccountID, idx uint8) (*EscrowInfo, error) {
	p, err := s.store.Presale(ctx, sale)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPresaleNotFound, sale)
	}
	if err != nil {
		return nil, err
	}
	e, err := s.store.Escrow(ctx, sale, owner, idx)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s tranche %d", ErrEscrowNotFound, owner, idx)
	}
	if err != nil {
		return nil, err
	}
	info := escrowInfo(p, e, s.clock.Now())
	return &info, nil
}

// Escrows returns every escrow of sale
func (s *Service) Escrows(ctx context.Context, sale presale.ID) ([]EscrowInfo, error) {
	p, err := s.store.Presale(ctx, sale)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPresaleNotFound, sale)
	}
	if err != nil {
		return nil, err
	}
	escrows, err := s.store.Escrows(ctx, sale)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]EscrowInfo, 0, len(escrows))
	for _, e := range escrows {
		out = append(out, escrowInfo(p, e, now))
	}
	return out, nil
}

func escrowInfo(p *presale.Presale, e *presale.Escrow, now uint64) EscrowInfo {
	info := EscrowInfo{EscrowRecord: e.Record()}
	if p.Progress(now) == presale.ProgressCompleted {
		if cumulative, err := p.CumulativeClaimable(e, now); err == nil {
			accounted := e.TotalClaimed() + e.PendingClaim()
			if cumulative > accounted {
				info.Claimable = cumulative - accounted
			}
		}
	}
	if !e.RemainingQuoteWithdrawn() {
		if r, err := p.RemainingQuote(e, now); err == nil && !r.IsZero() {
			info.RemainingQuote = &r
		}
	}
	return info
}

// MerkleRootInfo is a root version with its root in hex
type MerkleRootInfo struct {
	presale.MerkleRootConfig

	Root string `json:"root"`
}

// MerkleRoots returns the whitelist roots of sale in version order
func (s *Service) MerkleRoots(ctx context.Context, sale presale.ID) ([]MerkleRootInfo, error) {
	roots, err := s.store.MerkleRoots(ctx, sale)
	if err != nil {
		return nil, err
	}
	out := make([]MerkleRootInfo, 0, len(roots))
	for _, cfg := range roots {
		out = append(out, MerkleRootInfo{MerkleRootConfig: cfg, Root: presale.ID(cfg.Root).String()})
	}
	return out, nil
}

// MerkleRoot returns one root version
func (s *Service) MerkleRoot(ctx context.Context, sale presale.ID, version uint64) (*MerkleRootInfo, error) {
	cfg, err := s.store.MerkleRoot(ctx, sale, version)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: version %d", ErrRootNotFound, version)
	}
	if err != nil {
		return nil, err
	}
	return &MerkleRootInfo{MerkleRootConfig: cfg, Root: presale.ID(cfg.Root).String()}, nil
}

// Operator returns an operator registration
func (s *Service) Operator(ctx context.Context, sale presale.ID, operator presale.AccountID) (*presale.Operator, error) {
	op, err := s.store.Operator(ctx, sale, operator)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotOperator, operator)
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}
