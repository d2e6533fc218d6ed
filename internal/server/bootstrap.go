package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/auth"
	"github.com/imobiliaria/imoveis-api/internal/config"
	"github.com/imobiliaria/imoveis-api/internal/contact"
	"github.com/imobiliaria/imoveis-api/internal/persistence"
	"github.com/imobiliaria/imoveis-api/internal/property"
	"github.com/imobiliaria/imoveis-api/internal/seeds"
)

// Deps are the stores and collaborators the router serves.
type Deps struct {
	Properties  *property.Store
	Contacts    *contact.Store
	Users       *auth.UserStore
	Tokens      *auth.TokenStore
	Persistence *persistence.Client
}

// Bootstrap builds the stores from cfg. When client is initialized and
// already holds listings they replace the embedded seeds, and stored
// contacts are loaded into the inbox.
func Bootstrap(ctx context.Context, cfg config.Config, client *persistence.Client) (Deps, error) {
	ttl, err := cfg.TTL()
	if err != nil {
		return Deps{}, err
	}

	admin, err := auth.NewUser(1, cfg.Admin.CPF, cfg.Admin.Password, cfg.Admin.Name, cfg.Admin.Email, auth.RoleAdmin, cfg.BcryptCost)
	if err != nil {
		return Deps{}, err
	}
	users, err := auth.NewUserStore(admin)
	if err != nil {
		return Deps{}, err
	}

	listings, err := initialListings(ctx, cfg, client)
	if err != nil {
		return Deps{}, err
	}
	properties, err := property.NewStore(listings)
	if err != nil {
		return Deps{}, err
	}

	contacts := contact.NewStore()
	stored, err := client.ListContacts(ctx)
	switch {
	case errors.Is(err, apperr.ErrNotInitialized):
	case err != nil:
		return Deps{}, fmt.Errorf("load contacts: %w", err)
	default:
		if err := contacts.Load(stored); err != nil {
			return Deps{}, err
		}
	}

	log.Printf("[server] loaded %d properties and %d contacts", properties.Len(), contacts.Len())
	return Deps{
		Properties:  properties,
		Contacts:    contacts,
		Users:       users,
		Tokens:      auth.NewTokenStore(ttl),
		Persistence: client,
	}, nil
}

func initialListings(ctx context.Context, cfg config.Config, client *persistence.Client) ([]property.Property, error) {
	stored, err := client.ListProperties(ctx)
	switch {
	case errors.Is(err, apperr.ErrNotInitialized):
	case err != nil:
		return nil, fmt.Errorf("load properties: %w", err)
	case len(stored) > 0:
		return stored, nil
	}

	if !cfg.SeedProperties {
		return nil, nil
	}
	return seeds.Properties(time.Now().UTC())
}
