// Package compliance decides whether a proposed transaction fits the
// user-authorized control envelope.
package compliance

// Status is the outcome of evaluating a proposal.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Reason is the enumerated cause of a rejection. Rejection is an
// expected, frequent outcome, so reasons travel as data rather than
// errors; the wallet surfaces them verbatim so the user or block can
// take corrective action.
type Reason string

const (
	ReasonMalformedProposal   Reason = "malformed_proposal"
	ReasonNoActiveAuth        Reason = "no_active_authorization"
	ReasonAssetNotAuthorized  Reason = "asset_not_authorized"
	ReasonExceedsPerTxLimit   Reason = "exceeds_per_transaction_limit"
	ReasonExceedsCumulative   Reason = "exceeds_cumulative_limit"
)

// Decision is the evaluator's verdict on one proposal. Reason is set
// only on rejection.
type Decision struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Accepted reports whether the decision approved the proposal.
func (d Decision) Accepted() bool {
	return d.Status == StatusAccepted
}

func accepted() Decision {
	return Decision{Status: StatusAccepted}
}

func rejected(reason Reason, detail string) Decision {
	return Decision{Status: StatusRejected, Reason: reason, Detail: detail}
}
