package model

// Issue is a candidate legal question extracted from a draft.
type Issue = string

// PrecedentMatch is one case returned by the case-law search service.
// Fields the service did not return stay nil and serialize as null.
type PrecedentMatch struct {
	Name     *string `json:"name"`
	Citation *string `json:"citation"`
	Fragment *string `json:"fragment"`
}

// IssueResult carries the precedents found for one issue. When Error is set,
// Cases is empty.
type IssueResult struct {
	Issue Issue            `json:"issue"`
	Cases []PrecedentMatch `json:"cases"`
	Error string           `json:"error,omitempty"`
}

// AnalysisReport is the outcome of analyzing one draft. Cases[i] always
// belongs to Questions[i].
type AnalysisReport struct {
	Questions []Issue       `json:"questions"`
	Cases     []IssueResult `json:"cases"`
	DraftText string        `json:"draft_text"`
}
