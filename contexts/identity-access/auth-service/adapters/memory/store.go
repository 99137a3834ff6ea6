package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
	"moringadesk/contexts/identity-access/auth-service/ports"

	"github.com/google/uuid"
)

type state struct {
	users       map[string]entities.User
	resetTokens map[string]entities.ResetToken
}

func (s *state) clone() *state {
	return &state{
		users:       maps.Clone(s.users),
		resetTokens: maps.Clone(s.resetTokens),
	}
}

// Store is an in-memory adapter for accounts, used by tests and local runs.
// A failed unit of work restores the snapshot taken before it started.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: &state{
		users:       make(map[string]entities.User),
		resetTokens: make(map[string]entities.ResetToken),
	}}
}

func (s *Store) Do(_ context.Context, fn func(repo ports.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	if err := fn(&repository{state: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// ResetTokenCount reports stored reset tokens for a user.
func (s *Store) ResetTokenCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, token := range s.data.resetTokens {
		if token.UserID == userID {
			count++
		}
	}
	return count
}

type repository struct {
	state *state
}

var _ ports.Repository = (*repository)(nil)

func (r *repository) CreateUser(_ context.Context, user entities.User) error {
	if _, ok := r.state.users[user.UserID]; ok {
		return domainerrors.ErrConflict
	}
	for _, existing := range r.state.users {
		if existing.Email == user.Email {
			return domainerrors.ErrConflict
		}
	}
	r.state.users[user.UserID] = user
	return nil
}

func (r *repository) GetUser(_ context.Context, userID string) (entities.User, error) {
	user, ok := r.state.users[strings.TrimSpace(userID)]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (r *repository) GetUserByEmail(_ context.Context, email string) (entities.User, bool, error) {
	email = entities.NormalizeEmail(email)
	for _, user := range r.state.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return entities.User{}, false, nil
}

func (r *repository) SaveUser(_ context.Context, user entities.User) error {
	if _, ok := r.state.users[user.UserID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	r.state.users[user.UserID] = user
	return nil
}

func (r *repository) ListUsers(_ context.Context) ([]entities.User, error) {
	users := make([]entities.User, 0, len(r.state.users))
	for _, user := range r.state.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].UserID > users[j].UserID
	})
	return users, nil
}

func (r *repository) DeleteUser(_ context.Context, userID string) (bool, error) {
	if _, ok := r.state.users[userID]; !ok {
		return false, nil
	}
	delete(r.state.users, userID)
	return true, nil
}

func (r *repository) CreateResetToken(_ context.Context, token entities.ResetToken) error {
	for _, existing := range r.state.resetTokens {
		if existing.TokenHash == token.TokenHash {
			return domainerrors.ErrConflict
		}
	}
	r.state.resetTokens[token.TokenID] = token
	return nil
}

func (r *repository) GetResetTokenByHash(_ context.Context, tokenHash string) (entities.ResetToken, bool, error) {
	for _, token := range r.state.resetTokens {
		if token.TokenHash == tokenHash {
			return token, true, nil
		}
	}
	return entities.ResetToken{}, false, nil
}

func (r *repository) DeleteResetTokensByUser(_ context.Context, userID string) error {
	for id, token := range r.state.resetTokens {
		if token.UserID == userID {
			delete(r.state.resetTokens, id)
		}
	}
	return nil
}
