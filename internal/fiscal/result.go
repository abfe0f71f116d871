package fiscal

import "github.com/tecnano/factura-api/internal/domain/enum"

// SubmissionResult is the normalized outcome of one authority submission.
// It is never persisted directly; the fiscal service copies its fields
// onto the sale. Transport failure and fiscal refusal are distinct:
// a refused document arrives as REJECTED with the authority's message,
// a failed call as ERROR.
type SubmissionResult struct {
	Status              enum.FiscalStatus
	Message             string
	AccessKey           string
	AuthorizationNumber string
	Artifact            []byte
}

// ErrorResult builds a transport/configuration failure result.
func ErrorResult(message string) SubmissionResult {
	return SubmissionResult{
		Status:  enum.FiscalStatusError,
		Message: message,
	}
}
