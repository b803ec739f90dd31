package domain

// Client is the authenticated storefront customer.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type Address struct {
	ID         string `json:"id,omitempty"`
	ClientID   string `json:"client_id"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}
