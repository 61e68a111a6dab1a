package usecase

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// ValidateCheckout reports missing buyer input as ErrValidation.
func ValidateCheckout(c model.Checkout) error {
	var missing []string
	if strings.TrimSpace(c.ProductID) == "" {
		missing = append(missing, "product_id")
	}
	if c.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(c.CustomerEmail) == "" {
		missing = append(missing, "customer_email")
	}
	if strings.TrimSpace(c.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(c.UserID) == "" {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domainErrors.ErrValidation, strings.Join(missing, ", "))
	}

	if c.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must be positive", domainErrors.ErrValidation)
	}
	return nil
}
