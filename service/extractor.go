package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AZREAL-08/contractiq-backend/model"
	"github.com/AZREAL-08/contractiq-backend/pkg/logger"
)

// GenerationError reports a failed or unreadable response from the generation
// collaborator. The pipeline makes exactly one call per extraction, so the
// caller decides whether to retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation service failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError reports a model response that is not valid JSON after fence
// stripping. Raw carries the full response text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// extractionPrompt is the fixed instruction template. The schema embedded
// here is the contract for model.Validate; the two must change together.
const extractionPrompt = `You are an expert legal NLP assistant specializing in parsing content licensing agreements.

EXTRACTION INSTRUCTIONS:
- Extract precise, concise information for each specified category.
- If information is not found, use "N/A", refrain from returning Null.
- Ensure JSON output is clean and standardized.
- Try to fill in the gaps if any from inference
- Reread your output to make sense or find gaps
- Strictly adhere to this format no matter what.

EXTRACTION CATEGORIES:
1. PARTIES INVOLVED
2. LICENSING TERMS
3. PAYMENT & FEES
4. USAGE RESTRICTIONS
5. INTELLECTUAL PROPERTY
6. LEGAL COMPLIANCE
7. TERMINATION & DISPUTE RESOLUTION

DETAILED EXTRACTION SCHEMA:
{
    "parties": {
        "licensor": "Full legal name of content owner",
        "licensee": "Full legal name of rights recipient"
    },
    "licensing_terms": {
        "effective_date": "Exact date license begins",
        "term_duration": "License period (e.g., '12 months')",
        "scope_of_use": ["List of allowed usage contexts"],
        "license_characteristics": {
            "exclusivity": "Exclusive/Non-Exclusive",
            "transferability": "Transferable/Non-Transferable",
            "geographical_scope": "Regions covered",
            "user_access": "Single/Multi-User"
        }
    },
    "financial_terms": {
        "license_fee": "Total amount payable",
        "royalty_terms": "Details of ongoing payments"
    },
    "usage_restrictions": {
        "prohibited_uses": ["List of explicitly forbidden uses"]
    },
    "intellectual_property": {
        "copyright_ownership": "Description of IP rights",
        "attribution_requirements": "Credit/acknowledgment details"
    },
    "legal_compliance": {
        "third_party_rights": "Required releases or permissions",
        "indemnification": "Liability assignment details",
        "liability_limitations": "Scope of licensor's responsibilities"
    },
    "contract_termination": {
        "termination_grounds": ["List of license revocation conditions"],
        "dispute_resolution": {
            "governing_law": "Jurisdiction for legal matters",
            "resolution_mechanism": "Method of resolving disputes"
        }
    }
}

CONTRACT TEXT TO ANALYZE:
%s
`

// Extractor orchestrates structured extraction: prompt the generation
// collaborator once, strip markdown framing, parse JSON, validate the schema.
type Extractor struct {
	generator Generator
}

func NewExtractor(generator Generator) *Extractor {
	return &Extractor{generator: generator}
}

// Extract turns raw contract text into a validated ContractRecord. Failures
// are typed: GenerationError, ParseError or model.SchemaError. There is no
// retry and no fallback model.
func (e *Extractor) Extract(ctx context.Context, contractText string) (*model.ContractRecord, error) {
	prompt := fmt.Sprintf(extractionPrompt, contractText)

	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	cleaned := cleanResponse(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		logger.Warn(ctx, "extraction response is not valid JSON", "error", err)
		return nil, &ParseError{Raw: raw, Err: err}
	}

	record, err := model.Validate(parsed)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// cleanResponse strips the markdown code fence models often wrap JSON in.
func cleanResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(cleaned[len("```json") : len(cleaned)-len("```")])
	}
	return cleaned
}
