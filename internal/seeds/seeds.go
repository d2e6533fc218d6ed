// Package seeds holds the sample listings shipped with the binary.
package seeds

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/imobiliaria/imoveis-api/internal/property"
)

//go:embed data/imoveis.yaml
var propertiesYAML []byte

type seedProperty struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"titulo"`
	Type        string   `yaml:"tipo"`
	Purpose     string   `yaml:"finalidade"`
	Price       float64  `yaml:"preco"`
	Description string   `yaml:"descricao"`
	Bedrooms    int      `yaml:"quartos"`
	Bathrooms   int      `yaml:"banheiros"`
	Area        float64  `yaml:"area"`
	Address     string   `yaml:"endereco"`
	Photos      []string `yaml:"fotos"`
	Status      string   `yaml:"status"`
	Enabled     *bool    `yaml:"habilitado"`
	PublishedAt string   `yaml:"dataPublicacao"`
}

// Properties returns the embedded sample listings. Creation and update
// times are set to now.
func Properties(now time.Time) ([]property.Property, error) {
	return ParseProperties(propertiesYAML, now)
}

// ParseProperties decodes a YAML list of listings.
func ParseProperties(raw []byte, now time.Time) ([]property.Property, error) {
	var rows []seedProperty
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode seed properties: %w", err)
	}

	out := make([]property.Property, 0, len(rows))
	for _, s := range rows {
		published := now
		if s.PublishedAt != "" {
			t, err := time.Parse(time.RFC3339, s.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("seed property %d: dataPublicacao: %w", s.ID, err)
			}
			published = t.UTC()
		}
		status := s.Status
		if status == "" {
			status = property.StatusAvailable
		}
		photos := s.Photos
		if photos == nil {
			photos = []string{}
		}

		out = append(out, property.Property{
			ID:          s.ID,
			Title:       s.Title,
			Type:        s.Type,
			Purpose:     s.Purpose,
			Price:       s.Price,
			Description: s.Description,
			Bedrooms:    s.Bedrooms,
			Bathrooms:   s.Bathrooms,
			Area:        s.Area,
			Address:     s.Address,
			Photos:      photos,
			Status:      status,
			Enabled:     s.Enabled == nil || *s.Enabled,
			PublishedAt: published,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out, nil
}
