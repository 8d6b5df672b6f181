package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/client/storage"
)

// Device storage keys of the persisted credentials.
const (
	TokenKey = "auth.token"
	UserKey  = "auth.user"
)

// KVPersister stores the token and the JSON-encoded user as a pair.
type KVPersister struct {
	repo storage.Repository
}

func NewKVPersister(repo storage.Repository) *KVPersister {
	return &KVPersister{repo: repo}
}

func (p *KVPersister) Save(ctx context.Context, token string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return p.repo.SetMany(ctx, map[string][]byte{
		TokenKey: []byte(token),
		UserKey:  data,
	})
}

func (p *KVPersister) Remove(ctx context.Context) error {
	return p.repo.DeleteMany(ctx, TokenKey, UserKey)
}
