package repositories

import (
	"fmt"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository on the same Badger DB
// as the posts, under its own key prefixes. Email uniqueness uses an
// email:<email> -> user id index.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository.
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// CreateUser assigns an id and persists the credential record.
func (r *BadgerUserRepository) CreateUser(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(emailKeyPrefix + user.Email)
		_, err := txn.Get(emailKey)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		n, err := nextSeq(txn, userSeqKey)
		if err != nil {
			return err
		}
		user.ID = fmt.Sprintf("user-%d", n)

		if err := user.Validate(); err != nil {
			return err
		}
		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(user.ID))
	})
}

// GetUserByEmail resolves a user through the email index.
func (r *BadgerUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailKeyPrefix + email))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get([]byte(userKeyPrefix + id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PutProfile stores or replaces the profile for a user.
func (r *BadgerUserRepository) PutProfile(profile *models.Profile) error {
	return r.db.Update(func(txn *badger.Txn) error {
		data, err := marshalEntity(profile)
		if err != nil {
			return err
		}
		return txn.Set([]byte(profileKeyPrefix+profile.UserID), data)
	})
}

// GetProfile retrieves the profile for a user id.
func (r *BadgerUserRepository) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
