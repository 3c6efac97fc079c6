package tx

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
)

// MaxBatchSize is the maximum number of operations in a Batch.
const MaxBatchSize = 8

func init() {
	Register(TypeBatch, func() Transaction {
		return &Batch{BaseTx: *NewBaseTx(TypeBatch, presale.AccountID{}, presale.ID{})}
	})
}

// Batch applies its operations in order at a single clock reading. Either
// every operation succeeds and all of them commit, or nothing does.
type Batch struct {
	BaseTx

	Transactions []Transaction `json:"-"`
}

// NewBatch creates a Batch of ops submitted by account.
func NewBatch(account presale.AccountID, ops ...Transaction) *Batch {
	b := &Batch{BaseTx: *NewBaseTx(TypeBatch, account, presale.ID{}), Transactions: ops}
	if len(ops) > 0 {
		b.Presale = ops[0].GetCommon().Presale
	}
	return b
}

type batchJSON struct {
	Common
	Transactions []json.RawMessage `json:"transactions"`
}

func (b *Batch) MarshalJSON() ([]byte, error) {
	out := batchJSON{Common: b.Common, Transactions: make([]json.RawMessage, len(b.Transactions))}
	for i, op := range b.Transactions {
		data, err := json.Marshal(op)
		if err != nil {
			return nil, err
		}
		out.Transactions[i] = data
	}
	return json.Marshal(out)
}

func (b *Batch) UnmarshalJSON(data []byte) error {
	var in batchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Common = in.Common
	b.txType = TypeBatch
	b.Transactions = make([]Transaction, len(in.Transactions))
	for i, raw := range in.Transactions {
		op, err := FromJSON(raw)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		b.Transactions[i] = op
	}
	return nil
}

// Validate validates the Batch and every operation in it.
func (b *Batch) Validate() error {
	if err := b.Common.Validate(); err != nil {
		return err
	}
	if len(b.Transactions) == 0 {
		return TemARRAY_EMPTY
	}
	if len(b.Transactions) > MaxBatchSize {
		return fmt.Errorf("%w: %d operations, max %d", TemARRAY_TOO_LARGE, len(b.Transactions), MaxBatchSize)
	}
	for i, op := range b.Transactions {
		if op.TxType() == TypeBatch {
			return fmt.Errorf("%w: operation %d is a nested batch", TemMALFORMED, i)
		}
		if op.GetCommon().Account != b.Account {
			return fmt.Errorf("%w: operation %d has another account", TemBAD_ACCOUNT, i)
		}
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// Sales returns the sales of every operation in first-use order.
func (b *Batch) Sales() []presale.ID {
	var out []presale.ID
	seen := make(map[presale.ID]bool)
	for _, op := range b.Transactions {
		for _, id := range op.Sales() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Apply runs each operation on the shared state table and stops at the
// first one that does not succeed. A preview pass on a child table runs
// first so a rejected operation never leaves value moved by an earlier one.
func (b *Batch) Apply(ctx *ApplyContext) Result {
	if !ctx.simulate {
		preview := ctx.preview()
		if result := b.run(preview); !result.IsSuccess() {
			ctx.Metadata.Inner = preview.Metadata.Inner
			if preview.err != nil {
				ctx.Fail(preview.err)
			}
			return result
		}
	}
	result := b.run(ctx)
	if !result.IsSuccess() && !result.IsTef() && ctx.transfer > 0 {
		// Only a short transfer can make the real pass diverge
		return ctx.Fail(fmt.Errorf("%w: %s after value moved", TefTRANSFER_MISMATCH, result))
	}
	return result
}

func (b *Batch) run(ctx *ApplyContext) Result {
	parent := ctx.Metadata
	defer func() { ctx.Metadata = parent }()

	for _, op := range b.Transactions {
		inner := &Metadata{}
		ctx.Metadata = inner
		result := op.Apply(ctx)
		inner.TransactionResult = result
		parent.Inner = append(parent.Inner, *inner)
		if !result.IsSuccess() {
			return result
		}
	}
	return TesSUCCESS
}
