package model

import (
	"fmt"
	"strings"
)

// SchemaError reports a structurally invalid extracted record. Fields lists
// every missing or malformed top-level field, using dotted paths for nested
// violations (e.g. "parties.licensee").
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("contract record failed schema validation: %s", strings.Join(e.Fields, ", "))
}

// Validate type-checks a parsed JSON object against the contract schema and
// returns the typed record. Validation is structural only: it verifies the
// seven top-level mappings exist with the right shapes and that parties names
// both licensor and licensee, but does not judge extracted content. Pure; the
// input is not modified.
func Validate(raw map[string]any) (*ContractRecord, error) {
	var bad []string
	record := &ContractRecord{}

	if m, ok := stringMap(raw["parties"]); ok {
		record.Parties = m
		for _, role := range []string{PartyLicensor, PartyLicensee} {
			if m[role] == "" {
				bad = append(bad, "parties."+role)
			}
		}
	} else {
		bad = append(bad, "parties")
	}

	if m, ok := anyMap(raw["licensing_terms"]); ok {
		record.LicensingTerms = m
	} else {
		bad = append(bad, "licensing_terms")
	}

	if m, ok := anyMap(raw["financial_terms"]); ok {
		record.FinancialTerms = m
	} else {
		bad = append(bad, "financial_terms")
	}

	if m, ok := stringListMap(raw["usage_restrictions"]); ok {
		record.UsageRestrictions = m
	} else {
		bad = append(bad, "usage_restrictions")
	}

	if m, ok := stringMap(raw["intellectual_property"]); ok {
		record.IntellectualProperty = m
	} else {
		bad = append(bad, "intellectual_property")
	}

	if m, ok := stringMap(raw["legal_compliance"]); ok {
		record.LegalCompliance = m
	} else {
		bad = append(bad, "legal_compliance")
	}

	if m, ok := anyMap(raw["contract_termination"]); ok {
		record.ContractTermination = m
	} else {
		bad = append(bad, "contract_termination")
	}

	if len(bad) > 0 {
		return nil, &SchemaError{Fields: bad}
	}
	return record, nil
}

// anyMap asserts a JSON object
func anyMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// stringMap asserts a JSON object whose values are all strings
func stringMap(v any) (map[string]string, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	m := make(map[string]string, len(raw))
	for k, val := range raw {
		s, ok := val.(string)
		if !ok {
			return nil, false
		}
		m[k] = s
	}
	return m, true
}

// stringListMap asserts a JSON object whose values are all lists of strings
func stringListMap(v any) (map[string][]string, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	m := make(map[string][]string, len(raw))
	for k, val := range raw {
		list, ok := val.([]any)
		if !ok {
			return nil, false
		}
		items := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
		m[k] = items
	}
	return m, true
}
