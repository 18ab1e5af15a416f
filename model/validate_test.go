package model

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

// validRaw returns a structurally complete extracted record, parsed the way
// the extraction pipeline parses model output.
func validRaw(t *testing.T) map[string]any {
	t.Helper()

	const doc = `{
		"parties": {
			"licensor": "XACCT Technologies, Inc.",
			"licensee": "Acme Media LLC"
		},
		"licensing_terms": {
			"effective_date": "2024-01-15",
			"term_duration": "12 months",
			"scope_of_use": ["web", "print"]
		},
		"financial_terms": {
			"license_fee": "$10,000",
			"royalty_terms": "5% of net revenue"
		},
		"usage_restrictions": {
			"prohibited_uses": ["resale", "sublicensing"]
		},
		"intellectual_property": {
			"copyright_ownership": "Licensor retains all rights",
			"attribution_requirements": "Credit required"
		},
		"legal_compliance": {
			"third_party_rights": "N/A",
			"indemnification": "Licensee indemnifies licensor",
			"liability_limitations": "Capped at fees paid"
		},
		"contract_termination": {
			"termination_grounds": ["breach", "insolvency"],
			"dispute_resolution": {"governing_law": "Delaware"}
		}
	}`

	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("Failed to parse test document: %v", err)
	}
	return raw
}

func TestValidatePassesCompleteRecord(t *testing.T) {
	raw := validRaw(t)

	record, err := Validate(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if record.Parties[PartyLicensor] != "XACCT Technologies, Inc." {
		t.Errorf("Unexpected licensor: %q", record.Parties[PartyLicensor])
	}
	if record.EffectiveDate() != "2024-01-15" {
		t.Errorf("Expected effective date 2024-01-15, got %q", record.EffectiveDate())
	}
	if record.TermDuration() != "12 months" {
		t.Errorf("Expected term duration '12 months', got %q", record.TermDuration())
	}
	if got := record.UsageRestrictions["prohibited_uses"]; len(got) != 2 {
		t.Errorf("Expected 2 prohibited uses, got %v", got)
	}
}

func TestValidateMissingLicensee(t *testing.T) {
	raw := validRaw(t)
	delete(raw["parties"].(map[string]any), "licensee")

	_, err := Validate(raw)
	if err == nil {
		t.Fatal("Expected SchemaError")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %T", err)
	}
	if !slices.Contains(schemaErr.Fields, "parties.licensee") {
		t.Errorf("Expected parties.licensee in fields, got %v", schemaErr.Fields)
	}
}

func TestValidateEmptyPartyValue(t *testing.T) {
	raw := validRaw(t)
	raw["parties"].(map[string]any)["licensor"] = ""

	_, err := Validate(raw)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if !slices.Contains(schemaErr.Fields, "parties.licensor") {
		t.Errorf("Expected parties.licensor in fields, got %v", schemaErr.Fields)
	}
}

func TestValidateMissingTopLevelFields(t *testing.T) {
	raw := validRaw(t)
	delete(raw, "financial_terms")
	delete(raw, "contract_termination")

	_, err := Validate(raw)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	for _, want := range []string{"financial_terms", "contract_termination"} {
		if !slices.Contains(schemaErr.Fields, want) {
			t.Errorf("Expected %s in fields, got %v", want, schemaErr.Fields)
		}
	}
}

func TestValidateWrongShapes(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"parties not an object", "parties", "licensor and licensee"},
		{"parties with non-string value", "parties", map[string]any{"licensor": 7, "licensee": "B"}},
		{"usage_restrictions not list-valued", "usage_restrictions", map[string]any{"prohibited_uses": "resale"}},
		{"usage_restrictions with non-string items", "usage_restrictions", map[string]any{"prohibited_uses": []any{1, 2}}},
		{"legal_compliance not string-valued", "legal_compliance", map[string]any{"indemnification": []any{"x"}}},
		{"licensing_terms not an object", "licensing_terms", []any{"12 months"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw(t)
			raw[tt.field] = tt.value

			_, err := Validate(raw)
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected SchemaError, got %v", err)
			}
			if !slices.Contains(schemaErr.Fields, tt.field) {
				t.Errorf("Expected %s in fields, got %v", tt.field, schemaErr.Fields)
			}
		})
	}
}

func TestContractName(t *testing.T) {
	record := &ContractRecord{Parties: map[string]string{
		PartyLicensor: "Alpha Corp",
		PartyLicensee: "Beta Ltd",
	}}
	if got := record.ContractName(); got != "Alpha Corp - Beta Ltd" {
		t.Errorf("Expected 'Alpha Corp - Beta Ltd', got %q", got)
	}

	empty := &ContractRecord{Parties: map[string]string{}}
	if got := empty.ContractName(); got != "Unknown - Unknown" {
		t.Errorf("Expected 'Unknown - Unknown', got %q", got)
	}
}
