package repositories

import (
	"fmt"
	"sort"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository on BadgerDB. Slug
// uniqueness is enforced with an index key slug:<slug> -> post id,
// written in the same transaction as the record itself.
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository.
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns an id from the post sequence and persists the record.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := slugFree(txn, post.Slug, ""); err != nil {
			return err
		}

		n, err := nextSeq(txn, postSeqKey)
		if err != nil {
			return err
		}
		post.ID = fmt.Sprintf("post-%d", n)

		if err := post.Validate(); err != nil {
			return err
		}
		return writePost(txn, post)
	})
}

// GetByID retrieves a post by id.
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return readPost(txn, id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post through the slug index.
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(slugKeyPrefix + slug))
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
		return readPost(txn, id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest first by creation time.
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	return r.list(func(*models.Post) bool { return true })
}

// ListPublished returns published posts, newest first.
func (r *BadgerPostRepository) ListPublished() ([]*models.Post, error) {
	return r.list(func(p *models.Post) bool { return p.Published })
}

func (r *BadgerPostRepository) list(keep func(*models.Post) bool) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// Update rewrites an existing post. The stored record's AuthorID and
// CreatedAt win over whatever the caller supplied; a slug change moves
// the index entry.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := readPost(txn, post.ID, &existing); err != nil {
			return err
		}

		post.AuthorID = existing.AuthorID
		post.CreatedAt = existing.CreatedAt

		if post.Slug != existing.Slug {
			if err := slugFree(txn, post.Slug, post.ID); err != nil {
				return err
			}
			if err := txn.Delete([]byte(slugKeyPrefix + existing.Slug)); err != nil {
				return err
			}
		}

		if err := post.Validate(); err != nil {
			return err
		}
		return writePost(txn, post)
	})
}

// Delete removes the post and its slug index entry.
func (r *BadgerPostRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := readPost(txn, id, &existing); err != nil {
			return err
		}
		if err := txn.Delete([]byte(slugKeyPrefix + existing.Slug)); err != nil {
			return err
		}
		return txn.Delete([]byte(postKeyPrefix + id))
	})
}

// Stats counts posts for the dashboard.
func (r *BadgerPostRepository) Stats() (models.Stats, error) {
	posts, err := r.List()
	if err != nil {
		return models.Stats{}, err
	}
	stats := models.Stats{Total: len(posts)}
	for _, p := range posts {
		if p.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
	}
	return stats, nil
}

func readPost(txn *badger.Txn, id string, post *models.Post) error {
	item, err := txn.Get([]byte(postKeyPrefix + id))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, post)
	})
}

func writePost(txn *badger.Txn, post *models.Post) error {
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	if err := txn.Set([]byte(postKeyPrefix+post.ID), data); err != nil {
		return err
	}
	return txn.Set([]byte(slugKeyPrefix+post.Slug), []byte(post.ID))
}

// slugFree fails with ErrDuplicateSlug unless the slug is unclaimed or
// claimed by ownID.
func slugFree(txn *badger.Txn, slug, ownID string) error {
	item, err := txn.Get([]byte(slugKeyPrefix + slug))
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var holder string
	if err := item.Value(func(val []byte) error {
		holder = string(val)
		return nil
	}); err != nil {
		return err
	}
	if holder == ownID {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDuplicateSlug, slug)
}
