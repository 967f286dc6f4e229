package service

import (
	"math"
	"strings"

	"inventory-api/internal/domain"
)

// fieldChecker collects field errors so callers see every problem at once.
type fieldChecker struct {
	fields []domain.FieldError
}

func (c *fieldChecker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(field, "This field is required")
	}
}

func (c *fieldChecker) nonNegative(field string, value float64) {
	if value < 0 {
		c.add(field, "Value must be greater than or equal to 0")
	}
}

// count accepts quantities that fit the store's INTEGER columns.
func (c *fieldChecker) count(field string, value int) {
	switch {
	case value < 0:
		c.add(field, "Value must be greater than or equal to 0")
	case value > math.MaxInt32:
		c.add(field, "Value must be less than or equal to 2147483647")
	}
}

func (c *fieldChecker) add(field, message string) {
	c.fields = append(c.fields, domain.FieldError{Field: field, Message: message})
}

func (c *fieldChecker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: c.fields}
}
