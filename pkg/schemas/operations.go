package schemas

import (
	"slices"
	"strings"
)

// OperationKind is the kind of remote operation being tracked.
type OperationKind string

const (
	// OperationKindDeployment is an application or static site deployment.
	OperationKindDeployment OperationKind = "deployment"

	// OperationKindPromotion is an application promotion.
	OperationKindPromotion OperationKind = "promotion"
)

// Title returns the kind with its first letter upper-cased, as used in user-facing messages.
func (k OperationKind) Title() string {
	if k == "" {
		return ""
	}

	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Outcome is the classification of a status value.
type Outcome uint8

const (
	// OutcomePending means the operation is still in progress and must be polled again.
	OutcomePending Outcome = iota

	// OutcomeSucceeded is the success-terminal class.
	OutcomeSucceeded

	// OutcomeFailed is the failure-terminal class.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Vocabulary partitions the status values of one endpoint family into
// success-terminal and failure-terminal sets. Every other value is non-terminal.
type Vocabulary struct {
	Success []string
	Failure []string
}

// Classify returns the outcome associated with status. Matching is exact.
func (v Vocabulary) Classify(status string) Outcome {
	switch {
	case slices.Contains(v.Success, status):
		return OutcomeSucceeded
	case slices.Contains(v.Failure, status):
		return OutcomeFailed
	default:
		return OutcomePending
	}
}

// The vocabularies below are the remote API contract of each endpoint family.
// They differ on purpose and must not be unified.
var (
	// AppDeploymentVocabulary applies to GET /applications/deployments/{id}.
	AppDeploymentVocabulary = Vocabulary{
		Success: []string{"succeeded", "finished"},
		Failure: []string{"failed", "error"},
	}

	// StaticSiteDeploymentVocabulary applies to GET /static-sites/deployments/{id}.
	StaticSiteDeploymentVocabulary = Vocabulary{
		Success: []string{"success"},
		Failure: []string{"failed", "cancelled"},
	}

	// PromotionVocabulary applies to GET /applications/promote/{id}.
	PromotionVocabulary = Vocabulary{
		Success: []string{"succeeded", "finished"},
		Failure: []string{"failed", "error"},
	}
)
