package model

// ContractRecord holds the structured terms extracted from a content
// licensing agreement. It is produced once per extraction and immutable after
// validation.
type ContractRecord struct {
	Parties              map[string]string   `json:"parties"`
	LicensingTerms       map[string]any      `json:"licensing_terms"`
	FinancialTerms       map[string]any      `json:"financial_terms"`
	UsageRestrictions    map[string][]string `json:"usage_restrictions"`
	IntellectualProperty map[string]string   `json:"intellectual_property"`
	LegalCompliance      map[string]string   `json:"legal_compliance"`
	ContractTermination  map[string]any      `json:"contract_termination"`
}

// Party role keys required under parties
const (
	PartyLicensor = "licensor"
	PartyLicensee = "licensee"
)

// Licensing-term keys consumed by notification scheduling
const (
	KeyEffectiveDate = "effective_date"
	KeyTermDuration  = "term_duration"
)

// EffectiveDate returns the raw effective-date string from licensing_terms,
// or "" when absent or not a string.
func (r *ContractRecord) EffectiveDate() string {
	s, _ := r.LicensingTerms[KeyEffectiveDate].(string)
	return s
}

// TermDuration returns the raw term-duration string from licensing_terms,
// or "" when absent or not a string.
func (r *ContractRecord) TermDuration() string {
	s, _ := r.LicensingTerms[KeyTermDuration].(string)
	return s
}

// ContractName derives the display name "{licensor} - {licensee}".
func (r *ContractRecord) ContractName() string {
	licensor := r.Parties[PartyLicensor]
	if licensor == "" {
		licensor = "Unknown"
	}
	licensee := r.Parties[PartyLicensee]
	if licensee == "" {
		licensee = "Unknown"
	}
	return licensor + " - " + licensee
}
