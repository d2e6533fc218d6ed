package contact

import "time"

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID         int       `json:"id"`
	Name       string    `json:"nome"`
	Email      string    `json:"email"`
	Phone      string    `json:"telefone"`
	Subject    string    `json:"assunto"`
	Message    string    `json:"mensagem"`
	ReceivedAt time.Time `json:"dataRecebimento"`
	Read       bool      `json:"lido"`
}

// Input is the body of POST /contato.
type Input struct {
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Phone   string `json:"telefone"`
	Subject string `json:"assunto"`
	Message string `json:"mensagem"`
}
