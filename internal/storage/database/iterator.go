package database

// SliceIterator iterates a materialized, sorted set of entries.
type SliceIterator struct {
	keys     [][]byte
	values   [][]byte
	position int
}

// NewSliceIterator returns an iterator over keys and values, which must have
// the same length and be sorted by key.
func NewSliceIterator(keys, values [][]byte) *SliceIterator {
	return &SliceIterator{keys: keys, values: values, position: -1}
}

func (it *SliceIterator) Next() bool {
	it.position++
	return it.position < len(it.keys)
}

func (it *SliceIterator) Key() []byte {
	if it.position >= 0 && it.position < len(it.keys) {
		return it.keys[it.position]
	}
	return nil
}

func (it *SliceIterator) Value() []byte {
	if it.position >= 0 && it.position < len(it.values) {
		return it.values[it.position]
	}
	return nil
}

func (it *SliceIterator) Error() error { return nil }

func (it *SliceIterator) Close() error {
	it.keys, it.values = nil, nil
	return nil
}
