package property

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Listing types and purposes seen in practice. The sets are open: any
// non-empty string is accepted.
const (
	TypeHouse      = "casa"
	TypeApartment  = "apartamento"
	TypeLand       = "terreno"
	TypeCommercial = "comercial"

	PurposeSale = "venda"
	PurposeRent = "aluguel"

	StatusAvailable   = "disponivel"
	StatusUnavailable = "indisponivel"
	StatusSold        = "vendido"
	StatusRented      = "alugado"
)

// Property is a real-estate listing.
type Property struct {
	ID          int       `json:"id"`
	Title       string    `json:"titulo"`
	Type        string    `json:"tipo"`
	Purpose     string    `json:"finalidade"`
	Price       float64   `json:"preco"`
	Description string    `json:"descricao"`
	Bedrooms    int       `json:"quartos"`
	Bathrooms   int       `json:"banheiros"`
	Area        float64   `json:"area"`
	Address     string    `json:"endereco"`
	Photos      []string  `json:"fotos"`
	Status      string    `json:"status"`
	Enabled     bool      `json:"habilitado"`
	PublishedAt time.Time `json:"dataPublicacao"`
	CreatedAt   time.Time `json:"dataCriacao"`
	UpdatedAt   time.Time `json:"dataAtualizacao"`
}

// Visible reports whether the public site may show p.
func (p Property) Visible() bool {
	return p.Status == StatusAvailable && p.Enabled
}

func (p Property) clone() Property {
	c := p
	c.Photos = make([]string, len(p.Photos))
	copy(c.Photos, p.Photos)
	return c
}

// Input carries the fields of a create or update request. A nil field was
// absent from the request body.
type Input struct {
	Title       *string   `json:"titulo,omitempty"`
	Type        *string   `json:"tipo,omitempty"`
	Purpose     *string   `json:"finalidade,omitempty"`
	Price       *Number   `json:"preco,omitempty"`
	Description *string   `json:"descricao,omitempty"`
	Bedrooms    *Number   `json:"quartos,omitempty"`
	Bathrooms   *Number   `json:"banheiros,omitempty"`
	Area        *Number   `json:"area,omitempty"`
	Address     *string   `json:"endereco,omitempty"`
	Photos      *[]string `json:"fotos,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Enabled     *bool     `json:"habilitado,omitempty"`
}

// Number accepts a JSON number or a numeric string. Anything else decodes
// without error but with Valid set to false.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid *Number holding v.
func Num(v float64) *Number { return &Number{Value: v, Valid: true} }

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = Number{}
		return nil
	}
	*n = Number{Value: f, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Float returns the value, or 0 when absent or unparsable.
func (n *Number) Float() float64 {
	if n == nil || !n.Valid {
		return 0
	}
	return n.Value
}

// Int truncates toward zero, or returns 0 when absent or unparsable.
func (n *Number) Int() int {
	return int(math.Trunc(n.Float()))
}
