// Package mock provides in-memory repositories for tests. Mutating
// calls can be made to fail by setting Err, and every store call is
// counted so tests can assert a call never happened.
package mock

import (
	"fmt"
	"sort"
	"sync"

	"quill/app/models"
	"quill/app/repositories"
)

type PostRepository struct {
	mutex  sync.RWMutex
	posts  map[string]*models.Post
	nextID int

	// Err, when set, fails every subsequent store call.
	Err error

	// Calls counts store calls by method name.
	Calls map[string]int
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[string]*models.Post),
		nextID: 1,
		Calls:  make(map[string]int),
	}
}

func (m *PostRepository) record(method string) error {
	m.Calls[method]++
	return m.Err
}

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Create"); err != nil {
		return err
	}
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return fmt.Errorf("%w: %s", repositories.ErrDuplicateSlug, post.Slug)
		}
	}
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	m.nextID++
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *PostRepository) GetByID(id string) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("GetByID"); err != nil {
		return nil, err
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("GetBySlug"); err != nil {
		return nil, err
	}
	for _, post := range m.posts {
		if post.Slug == slug {
			clone := *post
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) List() ([]*models.Post, error) {
	return m.list(func(*models.Post) bool { return true })
}

func (m *PostRepository) ListPublished() ([]*models.Post, error) {
	return m.list(func(p *models.Post) bool { return p.Published })
}

func (m *PostRepository) list(keep func(*models.Post) bool) ([]*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("List"); err != nil {
		return nil, err
	}
	var posts []*models.Post
	for _, post := range m.posts {
		if keep(post) {
			clone := *post
			posts = append(posts, &clone)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Update"); err != nil {
		return err
	}
	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	for _, p := range m.posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return fmt.Errorf("%w: %s", repositories.ErrDuplicateSlug, post.Slug)
		}
	}
	post.AuthorID = existing.AuthorID
	post.CreatedAt = existing.CreatedAt
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *PostRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.record("Delete"); err != nil {
		return err
	}
	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) Stats() (models.Stats, error) {
	posts, err := m.List()
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

type UserRepository struct {
	mutex  sync.RWMutex
	users  map[string]*models.User
	byMail map[string]string
	prof   map[string]*models.Profile
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]*models.User),
		byMail: make(map[string]string),
		prof:   make(map[string]*models.Profile),
		nextID: 1,
	}
}

func (m *UserRepository) CreateUser(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.byMail[user.Email]; exists {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateEmail, user.Email)
	}
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	m.nextID++
	clone := *user
	m.users[user.ID] = &clone
	m.byMail[user.Email] = user.ID
	return nil
}

func (m *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	id, exists := m.byMail[email]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	clone := *m.users[id]
	return &clone, nil
}

func (m *UserRepository) PutProfile(profile *models.Profile) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	clone := *profile
	m.prof[profile.UserID] = &clone
	return nil
}

func (m *UserRepository) GetProfile(userID string) (*models.Profile, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	profile, exists := m.prof[userID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	clone := *profile
	return &clone, nil
}
