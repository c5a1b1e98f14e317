package server

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type effectPayload struct {
	Effect  string `json:"vata_effect" validate:"omitempty,dosha_effect"`
	Potency string `json:"potency" validate:"omitempty,potency"`
	Status  string `json:"status" validate:"omitempty,plan_status"`
}

// TestValidatorDomainTags проверяет теги перечислений.
func TestValidatorDomainTags(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&effectPayload{Effect: "pacifies", Potency: "HEATING", Status: "active"}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	if err := v.Validate(&effectPayload{}); err != nil {
		t.Fatalf("expected empty payload to pass, got %v", err)
	}

	err := v.Validate(&effectPayload{Effect: "boosts"})
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) != 1 {
		t.Fatalf("expected one field error, got %v", err)
	}
	if fieldErrs[0].Field() != "vata_effect" {
		t.Fatalf("expected json field name, got %s", fieldErrs[0].Field())
	}

	if err := v.Validate(&effectPayload{Status: "ARCHIVED"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
