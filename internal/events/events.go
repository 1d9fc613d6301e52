package events

import (
	"time"

	"github.com/google/uuid"

	"crossledger/pkg/domain"
)

// Kind classifies ledger events. Each successful mutating operation emits
// exactly one event; failed operations emit nothing.
type Kind string

const (
	KindTransfer             Kind = "transfer"
	KindApproval             Kind = "approval"
	KindOwnershipTransferred Kind = "ownership_transferred"
	KindBridgeMint           Kind = "bridge_mint"
	KindBridgeBurn           Kind = "bridge_burn"
)

// Event is emitted from domain logic to capture ledger activity. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Only the fields relevant to the Kind are populated: transfers and bridge
// moves use From/To/Amount, approvals use Owner/Spender/Amount, ownership
// changes use PreviousOwner/NewOwner.
type Event struct {
	ID         uuid.UUID        `json:"id"`
	Kind       Kind             `json:"kind"`
	DomainID   domain.DomainID  `json:"domain_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	From       domain.Principal `json:"from,omitempty"`
	To         domain.Principal `json:"to,omitempty"`
	Owner      domain.Principal `json:"owner,omitempty"`
	Spender    domain.Principal `json:"spender,omitempty"`
	// PreviousOwner and NewOwner track administrative authority changes.
	// NewOwner is empty after a renounce.
	PreviousOwner domain.Principal `json:"previous_owner,omitempty"`
	NewOwner      domain.Principal `json:"new_owner,omitempty"`
	// Amount in decimal string form; empty for ownership events.
	Amount string `json:"amount,omitempty"`
	// MessageID correlates bridge events with the messenger's delivery id.
	MessageID string `json:"message_id,omitempty"`
}

// NewEvent stamps identity and time so emitters only fill domain fields.
func NewEvent(kind Kind, domainID domain.DomainID) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		DomainID:   domainID,
		OccurredAt: time.Now().UTC(),
	}
}
