// Package persistence mirrors the in-memory stores into Postgres. A Client
// built without a database answers every call with apperr.ErrNotInitialized.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/contact"
	"github.com/imobiliaria/imoveis-api/internal/db"
	"github.com/imobiliaria/imoveis-api/internal/property"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Client struct {
	db *gorm.DB
}

// New returns a client backed by d. A nil d yields an uninitialized client.
func New(d *gorm.DB) *Client {
	return &Client{db: d}
}

func (c *Client) Initialized() bool {
	return c != nil && c.db != nil
}

func (c *Client) conn(ctx context.Context) (*gorm.DB, error) {
	if !c.Initialized() {
		return nil, apperr.ErrNotInitialized
	}
	return c.db.WithContext(ctx), nil
}

// Migrate creates the schema and tables.
func (c *Client) Migrate(ctx context.Context) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(d, Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", Schema, err)
	}
	if err := d.AutoMigrate(&propertyRow{}, &contactRow{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (c *Client) CreateProperty(ctx context.Context, p property.Property) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	row := toPropertyRow(p)
	if err := d.Create(&row).Error; err != nil {
		return fmt.Errorf("create property %d: %w", p.ID, err)
	}
	return nil
}

func (c *Client) GetProperty(ctx context.Context, id int) (property.Property, error) {
	d, err := c.conn(ctx)
	if err != nil {
		return property.Property{}, err
	}
	var row propertyRow
	if err := d.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return property.Property{}, property.ErrNotFound
		}
		return property.Property{}, fmt.Errorf("get property %d: %w", id, err)
	}
	return row.toProperty(), nil
}

func (c *Client) ListProperties(ctx context.Context) ([]property.Property, error) {
	d, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []propertyRow
	if err := d.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	out := make([]property.Property, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProperty())
	}
	return out, nil
}

// UpdateProperty writes every column of p, inserting the row when the
// database has not seen it yet.
func (c *Client) UpdateProperty(ctx context.Context, p property.Property) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	row := toPropertyRow(p)
	if err := d.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("update property %d: %w", p.ID, err)
	}
	return nil
}

func (c *Client) DeleteProperty(ctx context.Context, id int) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	res := d.Delete(&propertyRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete property %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return property.ErrNotFound
	}
	return nil
}

func (c *Client) CreateContact(ctx context.Context, ct contact.Contact) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	row := toContactRow(ct)
	if err := d.Create(&row).Error; err != nil {
		return fmt.Errorf("create contact %d: %w", ct.ID, err)
	}
	return nil
}

func (c *Client) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	d, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []contactRow
	if err := d.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]contact.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toContact())
	}
	return out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int) error {
	d, err := c.conn(ctx)
	if err != nil {
		return err
	}
	res := d.Delete(&contactRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete contact %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return contact.ErrNotFound
	}
	return nil
}

var (
	_ property.Repository = (*Client)(nil)
	_ contact.Repository  = (*Client)(nil)
)
