package persistence

import (
	"time"

	"github.com/imobiliaria/imoveis-api/internal/contact"
	"github.com/imobiliaria/imoveis-api/internal/property"
	"github.com/lib/pq"
)

const Schema = "imoveis"

// Timestamps are owned by the in-memory stores, so gorm must not touch them.
type propertyRow struct {
	ID          int     `gorm:"primaryKey;autoIncrement:false"`
	Title       string  `gorm:"not null"`
	Type        string  `gorm:"not null;index"`
	Purpose     string  `gorm:"not null;index"`
	Price       float64 `gorm:"not null"`
	Description string
	Bedrooms    int
	Bathrooms   int
	Area        float64
	Address     string
	Photos      pq.StringArray `gorm:"type:text[]"`
	Status      string         `gorm:"not null;index"`
	Enabled     bool           `gorm:"not null"`
	PublishedAt time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (propertyRow) TableName() string { return Schema + ".properties" }

type contactRow struct {
	ID         int `gorm:"primaryKey;autoIncrement:false"`
	Name       string
	Email      string
	Phone      string
	Subject    string
	Message    string
	ReceivedAt time.Time
	Read       bool `gorm:"not null;default:false"`
}

func (contactRow) TableName() string { return Schema + ".contacts" }

func toPropertyRow(p property.Property) propertyRow {
	photos := make(pq.StringArray, len(p.Photos))
	copy(photos, p.Photos)
	return propertyRow{
		ID:          p.ID,
		Title:       p.Title,
		Type:        p.Type,
		Purpose:     p.Purpose,
		Price:       p.Price,
		Description: p.Description,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		Address:     p.Address,
		Photos:      photos,
		Status:      p.Status,
		Enabled:     p.Enabled,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r propertyRow) toProperty() property.Property {
	photos := make([]string, len(r.Photos))
	copy(photos, r.Photos)
	return property.Property{
		ID:          r.ID,
		Title:       r.Title,
		Type:        r.Type,
		Purpose:     r.Purpose,
		Price:       r.Price,
		Description: r.Description,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Area:        r.Area,
		Address:     r.Address,
		Photos:      photos,
		Status:      r.Status,
		Enabled:     r.Enabled,
		PublishedAt: r.PublishedAt.UTC(),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func toContactRow(c contact.Contact) contactRow {
	return contactRow{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Subject:    c.Subject,
		Message:    c.Message,
		ReceivedAt: c.ReceivedAt,
		Read:       c.Read,
	}
}

func (r contactRow) toContact() contact.Contact {
	return contact.Contact{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Subject:    r.Subject,
		Message:    r.Message,
		ReceivedAt: r.ReceivedAt.UTC(),
		Read:       r.Read,
	}
}
