package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for the entity namespaces sharing one Badger DB.
	postKeyPrefix    = "post:"
	slugKeyPrefix    = "slug:"
	userKeyPrefix    = "user:"
	emailKeyPrefix   = "email:"
	profileKeyPrefix = "profile:"

	// Sequence keys for minting record ids.
	postSeqKey = "seq:post"
	userSeqKey = "seq:user"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSlug is returned when a write would violate slug
	// uniqueness. The wrapped message is what the editor shows.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrDuplicateEmail is returned when a user with the same email
	// already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// nextSeq increments and returns the counter stored under seqKey.
func nextSeq(txn *badger.Txn, seqKey string) (uint64, error) {
	var n uint64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case err == badger.ErrKeyNotFound:
		n = 1
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			n = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return 0, err
		}
		n++
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return 0, err
	}
	return n, nil
}

func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
