package tx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
)

// Action represents the type of modification to an entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

var (
	ErrEntryExists  = errors.New("entry already exists")
	ErrEntryMissing = errors.New("entry does not exist")
)

// View is the committed state an ApplyStateTable reads through.
type View interface {
	Get(ctx context.Context, k keylet.Keylet) ([]byte, error)
}

// TrackedEntry represents an entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // nil for inserts
	Current  []byte // nil after erase
}

// ApplyStateTable buffers reads and writes of one operation on top of a
// View. Nothing reaches the View until Changes is committed.
type ApplyStateTable struct {
	ctx   context.Context
	base  View
	items map[keylet.Keylet]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(ctx context.Context, base View) *ApplyStateTable {
	return &ApplyStateTable{
		ctx:   ctx,
		base:  base,
		items: make(map[keylet.Keylet]*TrackedEntry),
	}
}

// Read returns the current data of k, or an error wrapping
// ledger.ErrNotFound.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, k)
		}
		return entry.Current, nil
	}

	data, err := t.base.Get(t.ctx, k)
	if err != nil {
		return nil, err
	}
	t.items[k] = &TrackedEntry{
		Action:   ActionCache,
		Original: data,
		Current:  data,
	}
	return data, nil
}

// Get implements View so a table can be layered over another one.
func (t *ApplyStateTable) Get(_ context.Context, k keylet.Keylet) ([]byte, error) {
	return t.Read(k)
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	_, err := t.Read(k)
	if errors.Is(err, ledger.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	exists, err := t.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrEntryExists, k)
	}
	if entry, tracked := t.items[k]; tracked {
		// erased earlier in this table, so the entry existed in the base
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}
	t.items[k] = &TrackedEntry{Action: ActionInsert, Current: data}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if _, err := t.Read(k); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrEntryMissing, k)
		}
		return err
	}
	entry := t.items[k]
	if entry.Action == ActionCache {
		entry.Action = ActionModify
	}
	entry.Current = data
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if _, err := t.Read(k); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrEntryMissing, k)
		}
		return err
	}
	entry := t.items[k]
	if entry.Action == ActionInsert {
		delete(t.items, k)
		return nil
	}
	entry.Action = ActionErase
	entry.Current = nil
	return nil
}

// Changes returns the pending writes in key order.
func (t *ApplyStateTable) Changes() []ledger.Change {
	changes := make([]ledger.Change, 0, len(t.items))
	for k, entry := range t.items {
		switch entry.Action {
		case ActionInsert, ActionModify:
			changes = append(changes, ledger.Change{Key: k, Value: entry.Current})
		case ActionErase:
			changes = append(changes, ledger.Change{Key: k})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].Key.Bytes(), changes[j].Key.Bytes()) < 0
	})
	return changes
}
