package checkout

import (
	"regexp"
	"strings"

	"github.com/gero-store/storefront/internal/domain"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardPattern   = regexp.MustCompile(`^\d{16}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// Form is the submitted checkout form. Card fields matter only when
// PaymentMethod is card; Address only when DeliveryMethod is home
// delivery.
type Form struct {
	Name      string
	Lastname  string
	Email     string
	Telephone string

	DeliveryMethod domain.DeliveryMethod
	PaymentMethod  domain.PaymentType

	CardNumber string
	CardHolder string
	CardExpiry string // MM/YY
	CardCVV    string

	// Address is the selected or newly created delivery address.
	Address *domain.Address
}

// Validate applies the field-level rules. It returns the first failure;
// the caller surfaces it without touching the network.
func (f Form) Validate() error {
	if f.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if f.Lastname == "" {
		return &ValidationError{Field: "lastname", Reason: "required"}
	}
	if f.Email == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if !emailPattern.MatchString(f.Email) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	if f.Telephone == "" {
		return &ValidationError{Field: "telephone", Reason: "required"}
	}

	if f.DeliveryMethod == domain.DeliveryHomeDelivery && f.Address == nil {
		return &ValidationError{Field: "address", Reason: "required for home delivery"}
	}

	if f.PaymentMethod == domain.PaymentCard {
		number := strings.ReplaceAll(f.CardNumber, " ", "")
		if !cardPattern.MatchString(number) {
			return &ValidationError{Field: "card_number", Reason: "must be 16 digits"}
		}
		if f.CardHolder == "" {
			return &ValidationError{Field: "card_holder", Reason: "required"}
		}
		if !expiryPattern.MatchString(f.CardExpiry) {
			return &ValidationError{Field: "card_expiry", Reason: "must be MM/YY"}
		}
		if !cvvPattern.MatchString(f.CardCVV) {
			return &ValidationError{Field: "card_cvv", Reason: "must be 3 or 4 digits"}
		}
	}

	return nil
}
