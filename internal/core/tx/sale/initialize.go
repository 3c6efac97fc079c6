package sale

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/holiman/uint256"
)

func init() {
	tx.Register(tx.TypeInitializePresale, func() tx.Transaction {
		return &InitializePresale{BaseTx: *tx.NewBaseTx(tx.TypeInitializePresale, presale.AccountID{}, presale.ID{})}
	})
}

// InitializePresale creates a sale owned by Account and moves the whole
// base supply into the sale base vault.
type InitializePresale struct {
	tx.BaseTx

	BaseAsset  presale.AssetID `json:"base_asset"`
	QuoteAsset presale.AssetID `json:"quote_asset"`

	// Mode is one of fixed_price, prorata or fcfs
	Mode string `json:"mode"`

	// Whitelist is one of open, merkle_proof or authority
	Whitelist string `json:"whitelist"`

	// UnsoldAction is refund or burn
	UnsoldAction string `json:"unsold_action"`

	MinimumCap uint64 `json:"minimum_cap"`
	MaximumCap uint64 `json:"maximum_cap"`

	StartTime    uint64 `json:"start_time"`
	EndTime      uint64 `json:"end_time"`
	LockDuration uint64 `json:"lock_duration"`
	VestDuration uint64 `json:"vest_duration"`

	ImmediateReleaseBps uint16 `json:"immediate_release_bps"`
	ImmediateReleaseAt  uint64 `json:"immediate_release_at,omitempty"`

	// Price is the decimal quote-per-base price of a fixed price sale.
	// QPrice, the raw Q64.64 value as a decimal integer, takes precedence.
	Price             string `json:"price,omitempty"`
	QPrice            string `json:"q_price,omitempty"`
	DisableWithdraw   bool   `json:"disable_withdraw,omitempty"`
	DisableEarlierEnd bool   `json:"disable_earlier_end,omitempty"`

	Tranches []presale.TrancheConfig `json:"tranches"`
}

// NewInitializePresale creates an InitializePresale with the asset pair
// set. The remaining configuration is filled in by the caller.
func NewInitializePresale(owner presale.AccountID, base, quote presale.AssetID) *InitializePresale {
	return &InitializePresale{
		BaseTx:     *tx.NewBaseTx(tx.TypeInitializePresale, owner, presale.ID{}),
		BaseAsset:  base,
		QuoteAsset: quote,
	}
}

// PresaleID is the id the sale will be created under.
func (op *InitializePresale) PresaleID() presale.ID {
	return presale.ID(keylet.PresaleID(op.BaseAsset, op.QuoteAsset, op.Account))
}

func (op *InitializePresale) Sales() []presale.ID {
	return []presale.ID{op.PresaleID()}
}

func (op *InitializePresale) Target() [32]byte {
	return op.PresaleID()
}

// Validate checks the operation is well formed. Ranges that depend on the
// clock or engine limits are checked at apply time.
func (op *InitializePresale) Validate() error {
	if err := op.Common.Validate(); err != nil {
		return err
	}
	if op.Presale != (presale.ID{}) && op.Presale != op.PresaleID() {
		return fmt.Errorf("%w: presale does not match owner and assets", tx.TemBAD_PRESALE)
	}
	if op.BaseAsset == (presale.AssetID{}) || op.QuoteAsset == (presale.AssetID{}) {
		return fmt.Errorf("%w: base and quote asset are required", tx.TemMALFORMED)
	}
	if op.BaseAsset == op.QuoteAsset {
		return fmt.Errorf("%w: base and quote asset must differ", tx.TemMALFORMED)
	}
	if len(op.Tranches) == 0 {
		return fmt.Errorf("%w: at least one tranche is required", tx.TemBAD_TRANCHE)
	}
	if len(op.Tranches) > presale.MaxTranches {
		return fmt.Errorf("%w: %d tranches, max %d", tx.TemTOO_MANY_TRANCHES, len(op.Tranches), presale.MaxTranches)
	}
	if _, err := op.Params(); err != nil {
		return err
	}
	return nil
}

// Params decodes the sale configuration.
func (op *InitializePresale) Params() (presale.InitParams, error) {
	mode, err := presale.ParseSaleMode(op.Mode)
	if err != nil {
		return presale.InitParams{}, fmt.Errorf("%w: %v", tx.TemBAD_MODE, err)
	}
	whitelist, err := presale.ParseWhitelistMode(op.Whitelist)
	if err != nil {
		return presale.InitParams{}, fmt.Errorf("%w: %v", tx.TemBAD_WHITELIST, err)
	}
	unsold, err := presale.ParseUnsoldAction(op.UnsoldAction)
	if err != nil {
		return presale.InitParams{}, fmt.Errorf("%w: %v", tx.TemBAD_UNSOLD_ACTION, err)
	}

	params := presale.InitParams{
		Owner:               op.Account,
		BaseAsset:           op.BaseAsset,
		QuoteAsset:          op.QuoteAsset,
		Mode:                mode,
		Whitelist:           whitelist,
		UnsoldAction:        unsold,
		MinimumCap:          op.MinimumCap,
		MaximumCap:          op.MaximumCap,
		StartTime:           op.StartTime,
		EndTime:             op.EndTime,
		LockDuration:        op.LockDuration,
		VestDuration:        op.VestDuration,
		ImmediateReleaseBps: op.ImmediateReleaseBps,
		ImmediateReleaseAt:  op.ImmediateReleaseAt,
		DisableWithdraw:     op.DisableWithdraw,
		DisableEarlierEnd:   op.DisableEarlierEnd,
		Tranches:            op.Tranches,
	}
	if mode == presale.ModeFixedPrice {
		if params.QPrice, err = op.qPrice(); err != nil {
			return presale.InitParams{}, err
		}
	}
	return params, nil
}

func (op *InitializePresale) qPrice() (*uint256.Int, error) {
	if op.QPrice != "" {
		q, err := uint256.FromDecimal(op.QPrice)
		if err != nil || q.IsZero() {
			return nil, fmt.Errorf("%w: q_price %q", tx.TemBAD_PRICE, op.QPrice)
		}
		return q, nil
	}
	if op.Price == "" {
		return nil, fmt.Errorf("%w: fixed price sale requires a price", tx.TemBAD_PRICE)
	}
	q, err := presale.ParsePrice(op.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", tx.TemBAD_PRICE, op.Price)
	}
	return q, nil
}

// Apply creates the sale and funds its base vault.
func (op *InitializePresale) Apply(ctx *tx.ApplyContext) tx.Result {
	params, err := op.Params()
	if err != nil {
		return ctx.Fail(err)
	}
	id := op.PresaleID()

	exists, err := ctx.View().Exists(keylet.Presale(id))
	if err != nil {
		return ctx.Fail(err)
	}
	if exists {
		return tx.TecDUPLICATE
	}

	p, err := presale.New(id, params, ctx.Limits, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	supply := p.TotalSupply()
	if err := ctx.MoveExact(tx.AccountCustody(ctx.Account), tx.BaseVault(id), op.BaseAsset, supply); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.InsertPresale(p); err != nil {
		return ctx.Fail(err)
	}

	ctx.Deliver("base_deposited", supply)
	ctx.Metadata.Created = append(ctx.Metadata.Created, id.String())
	return tx.TesSUCCESS
}
