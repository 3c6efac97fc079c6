package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory builds an empty operation ready to be decoded into.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Factory)
)

// Register makes an operation type decodable. It is called from init() of
// the packages defining operations and panics on duplicates.
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[t]; exists {
		panic(fmt.Sprintf("tx: operation %s registered twice", t))
	}
	registry[t] = f
}

// NewFromType creates a new operation of the given type
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return f(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	// First, unmarshal to get the transaction_type
	var raw struct {
		TransactionType string `json:"transaction_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", TemMALFORMED, err)
	}

	t, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", TemUNKNOWN, ErrUnknownTransactionType, raw.TransactionType)
	}

	op, err := NewFromType(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", TemUNKNOWN, err)
	}

	if err := json.Unmarshal(data, op); err != nil {
		return nil, fmt.Errorf("%w: %v", TemMALFORMED, err)
	}
	return op, nil
}
