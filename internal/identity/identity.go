package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pasternak-karmel/google-clone/pkg/logger"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// Profile is the public view of a user, as shown in rosters and
// version history.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Verifier resolves a credential token to a user profile.
type Verifier interface {
	Verify(token string) (Profile, error)
}

type user struct {
	Profile
	passwordHash []byte
}

// Directory is the in-memory user registry. It backs share-by-email
// resolution and display-name capture for version snapshots.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]*user
	byEmail map[string]*user
}

func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[string]*user),
		byEmail: make(map[string]*user),
	}
}

func (d *Directory) Register(name, email, password string) (Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, fmt.Errorf("hashing password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byEmail[email]; ok {
		return Profile{}, ErrDuplicateEmail
	}

	u := &user{
		Profile:      Profile{ID: uuid.NewString(), Name: name, Email: email},
		passwordHash: hash,
	}
	d.byID[u.ID] = u
	d.byEmail[u.Email] = u

	logger.Sugar.Infof("Registered user %s (%s)", u.ID, u.Email)
	return u.Profile, nil
}

func (d *Directory) Authenticate(email, password string) (Profile, error) {
	d.mu.RLock()
	u, ok := d.byEmail[email]
	d.mu.RUnlock()
	if !ok {
		return Profile{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return Profile{}, ErrBadCredentials
	}
	return u.Profile, nil
}

func (d *Directory) GetByEmail(email string) (Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.byEmail[email]; ok {
		return u.Profile, nil
	}
	return Profile{}, ErrUserNotFound
}

func (d *Directory) GetByID(id string) (Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.byID[id]; ok {
		return u.Profile, nil
	}
	return Profile{}, ErrUserNotFound
}

// DisplayName returns the user's name, or "Unknown" when the id is not
// in the directory. Version snapshots capture this at write time.
func (d *Directory) DisplayName(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.byID[id]; ok {
		return u.Name
	}
	return "Unknown"
}
