package tx

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	crypto "github.com/LeJamon/goPresale/internal/crypto/common"
	"github.com/LeJamon/goPresale/internal/protocol"
)

// ApplyContext provides all the state and helpers needed to apply an
// operation. It is passed to Transaction.Apply.
type ApplyContext struct {
	// Now is the engine clock reading shared by every step of the operation.
	Now uint64

	// Account is the caller of the operation being applied
	Account presale.AccountID

	// Limits bounds sale durations at initialization
	Limits presale.Limits

	// Metadata collects what the operation delivered
	Metadata *Metadata

	ctx      context.Context
	view     *ApplyStateTable
	engine   *Engine
	opKey    keylet.Keylet
	transfer uint32
	simulate bool
	err      error
}

// Context returns the context of the operation.
func (c *ApplyContext) Context() context.Context {
	return c.ctx
}

// View gives raw access to the state table.
func (c *ApplyContext) View() *ApplyStateTable {
	return c.view
}

// Fail records err for logging and returns its result code.
func (c *ApplyContext) Fail(err error) Result {
	if c.err == nil {
		c.err = err
	}
	return ResultOf(err)
}

// preview returns a copy of c over a child state table. Its transfers are
// assumed to arrive in full and never reach custody.
func (c *ApplyContext) preview() *ApplyContext {
	p := *c
	p.view = NewApplyStateTable(c.ctx, c.view)
	p.Metadata = &Metadata{}
	p.simulate = true
	p.err = nil
	return &p
}

// Err returns the error recorded by Fail.
func (c *ApplyContext) Err() error {
	return c.err
}

// Deliver records an amount in the metadata under name.
func (c *ApplyContext) Deliver(name string, amount uint64) {
	if c.Metadata.Delivered == nil {
		c.Metadata.Delivered = make(map[string]uint64)
	}
	c.Metadata.Delivered[name] += amount
}

// Presale reads a sale.
func (c *ApplyContext) Presale(id presale.ID) (*presale.Presale, error) {
	data, err := c.view.Read(keylet.Presale(id))
	if err != nil {
		return nil, err
	}
	p, err := presale.DecodePresale(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", TefBAD_LEDGER, err)
	}
	return p, nil
}

// OwnedPresale reads a sale and checks the caller owns it.
func (c *ApplyContext) OwnedPresale(id presale.ID) (*presale.Presale, error) {
	p, err := c.Presale(id)
	if err != nil {
		return nil, err
	}
	if p.Owner() != c.Account {
		return nil, presale.ErrUnauthorized
	}
	return p, nil
}

func (c *ApplyContext) InsertPresale(p *presale.Presale) error {
	data, err := presale.EncodePresale(p)
	if err != nil {
		return err
	}
	return c.view.Insert(keylet.Presale(p.ID()), data)
}

func (c *ApplyContext) UpdatePresale(p *presale.Presale) error {
	data, err := presale.EncodePresale(p)
	if err != nil {
		return err
	}
	return c.view.Update(keylet.Presale(p.ID()), data)
}

// Escrow reads the escrow of owner in tranche idx.
func (c *ApplyContext) Escrow(sale presale.ID, owner presale.AccountID, idx uint8) (*presale.Escrow, error) {
	data, err := c.view.Read(keylet.Escrow(sale, owner, idx))
	if err != nil {
		return nil, err
	}
	e, err := presale.DecodeEscrow(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", TefBAD_LEDGER, err)
	}
	if e.Sale() != sale {
		return nil, presale.ErrSaleMismatch
	}
	return e, nil
}

func (c *ApplyContext) EscrowExists(sale presale.ID, owner presale.AccountID, idx uint8) (bool, error) {
	return c.view.Exists(keylet.Escrow(sale, owner, idx))
}

func (c *ApplyContext) InsertEscrow(e *presale.Escrow) error {
	data, err := presale.EncodeEscrow(e)
	if err != nil {
		return err
	}
	return c.view.Insert(keylet.Escrow(e.Sale(), e.Owner(), e.TrancheIndex()), data)
}

func (c *ApplyContext) UpdateEscrow(e *presale.Escrow) error {
	data, err := presale.EncodeEscrow(e)
	if err != nil {
		return err
	}
	return c.view.Update(keylet.Escrow(e.Sale(), e.Owner(), e.TrancheIndex()), data)
}

func (c *ApplyContext) EraseEscrow(e *presale.Escrow) error {
	return c.view.Erase(keylet.Escrow(e.Sale(), e.Owner(), e.TrancheIndex()))
}

// MerkleRoot reads one whitelist root version.
func (c *ApplyContext) MerkleRoot(sale presale.ID, version uint64) (presale.MerkleRootConfig, error) {
	var cfg presale.MerkleRootConfig
	data, err := c.view.Read(keylet.MerkleRoot(sale, version))
	if err != nil {
		return cfg, err
	}
	if err := presale.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", TefBAD_LEDGER, err)
	}
	return cfg, nil
}

func (c *ApplyContext) InsertMerkleRoot(cfg presale.MerkleRootConfig) error {
	data, err := presale.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.view.Insert(keylet.MerkleRoot(cfg.Sale, cfg.Version), data)
}

func (c *ApplyContext) EraseMerkleRoot(sale presale.ID, version uint64) error {
	return c.view.Erase(keylet.MerkleRoot(sale, version))
}

// Operator reads an operator registration.
func (c *ApplyContext) Operator(sale presale.ID, operator presale.AccountID) (presale.Operator, error) {
	var op presale.Operator
	data, err := c.view.Read(keylet.Operator(sale, operator))
	if err != nil {
		return op, err
	}
	if err := presale.Unmarshal(data, &op); err != nil {
		return op, fmt.Errorf("%w: %v", TefBAD_LEDGER, err)
	}
	return op, nil
}

func (c *ApplyContext) InsertOperator(op presale.Operator) error {
	data, err := presale.Marshal(op)
	if err != nil {
		return err
	}
	return c.view.Insert(keylet.Operator(op.Sale, op.Operator), data)
}

func (c *ApplyContext) EraseOperator(sale presale.ID, operator presale.AccountID) error {
	return c.view.Erase(keylet.Operator(sale, operator))
}

// Move asks custody to transfer amount and returns what was received. Each
// transfer of an operation gets a key derived from the operation key and
// its position, so a retried operation repeats the same keys. A zero amount
// moves nothing.
func (c *ApplyContext) Move(from, to Custody, asset presale.AssetID, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	c.transfer++
	if c.simulate {
		return amount, nil
	}
	var seq [4]byte
	binary.BigEndian.PutUint32(seq[:], c.transfer)
	prefix := protocol.HashPrefixTransfer

	t := Transfer{
		IdempotencyKey: crypto.Hashv(prefix[:], c.opKey.Bytes(), seq[:]),
		From:           from,
		To:             to,
		Asset:          asset,
		Amount:         amount,
	}
	received, err := c.engine.transfer.Move(c.ctx, t)
	if err != nil {
		return 0, fmt.Errorf("%w: %s to %s: %v", TefTRANSFER, from, to, err)
	}
	if received > amount {
		return 0, fmt.Errorf("%w: received %d of %d", TefTRANSFER_MISMATCH, received, amount)
	}
	c.engine.observer.ObserveTransfer(t, received)
	return received, nil
}

// MoveExact is Move for transfers whose full amount must arrive.
func (c *ApplyContext) MoveExact(from, to Custody, asset presale.AssetID, amount uint64) error {
	received, err := c.Move(from, to, asset, amount)
	if err != nil {
		return err
	}
	if received != amount {
		return fmt.Errorf("%w: received %d of %d", TefTRANSFER_MISMATCH, received, amount)
	}
	return nil
}
