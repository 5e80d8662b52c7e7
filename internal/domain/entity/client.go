package entity

import "time"

// Client un client de l'entreprise. Entité CRUD simple, référencée (jamais
// possédée) par les devis et les factures.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string // matricule fiscal du client
	CreatedAt time.Time
	UpdatedAt time.Time
}
