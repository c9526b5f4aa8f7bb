package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is a read view over the seeded user collection.
type UserRepository struct {
	col *collection[models.User]
}

func NewUserRepository(ctx context.Context, s store.Store) (*UserRepository, error) {
	col, err := loadCollection[models.User](ctx, s, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	return &UserRepository{col: col}, nil
}

func (r *UserRepository) List() []models.User {
	var out []models.User
	r.col.read(func(items []models.User) {
		out = make([]models.User, 0, len(items))
		for _, u := range items {
			out = append(out, u.Clone())
		}
	})
	return out
}

func (r *UserRepository) find(match func(models.User) bool) (models.User, bool) {
	var (
		found models.User
		ok    bool
	)
	r.col.read(func(items []models.User) {
		for _, u := range items {
			if match(u) {
				found, ok = u.Clone(), true
				return
			}
		}
	})
	return found, ok
}

func (r *UserRepository) GetByID(id string) (models.User, error) {
	u, ok := r.find(func(u models.User) bool { return u.ID == id })
	if !ok {
		return models.User{}, notFound(ErrUserNotFound, id)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	email = strings.TrimSpace(email)
	u, ok := r.find(func(u models.User) bool { return u.Email == email })
	if !ok {
		return models.User{}, notFound(ErrUserNotFound, email)
	}
	return u, nil
}
