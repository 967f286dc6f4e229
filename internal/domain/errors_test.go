package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("create sale: %w", NewValidationError("totalAmount", "does not match quantity * unitPrice"))

	if !errors.Is(err, ErrValidation) {
		t.Fatal("wrapped ValidationError should match ErrValidation")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("ValidationError must not match ErrNotFound")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected errors.As to find the ValidationError")
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "totalAmount" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}

func TestProductNameFallsBackForMissingProduct(t *testing.T) {
	sale := &Sale{SaleID: "s1", ProductID: "gone"}
	if got := sale.ProductName(); got != UnknownProductName {
		t.Errorf("expected %q, got %q", UnknownProductName, got)
	}

	sale.Product = &Product{ProductID: "p1", Name: "Widget"}
	if got := sale.ProductName(); got != "Widget" {
		t.Errorf("expected Widget, got %q", got)
	}

	purchase := &Purchase{PurchaseID: "u1"}
	if got := purchase.ProductName(); got != UnknownProductName {
		t.Errorf("expected %q, got %q", UnknownProductName, got)
	}
}
