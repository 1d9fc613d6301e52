package httptransport

import (
	"context"
	"net/http"

	"github.com/holiman/uint256"

	"crossledger/internal/platform/middleware"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

type bridgeRequest struct {
	// MessageID is the cross-domain message id. Redelivery of an id that was
	// already applied is acknowledged without a second mint or burn.
	MessageID string `json:"message_id"`
	To        string `json:"to,omitempty"`
	From      string `json:"from,omitempty"`
	Amount    string `json:"amount"`
}

type bridgeResponse struct {
	MessageID string `json:"message_id"`
	Duplicate bool   `json:"duplicate"`
}

type bridgeOp func(ctx context.Context, caller, p domain.Principal, amount *uint256.Int, messageID string) error

func (h *Handler) handleBridgeMint(w http.ResponseWriter, r *http.Request) {
	h.handleBridge(w, r, h.gate.Mint, func(req bridgeRequest) string { return req.To })
}

func (h *Handler) handleBridgeBurn(w http.ResponseWriter, r *http.Request) {
	h.handleBridge(w, r, h.gate.Burn, func(req bridgeRequest) string { return req.From })
}

// handleBridge runs the shared delivery path for both gate operations:
// decode, dedup on message id, apply, acknowledge. Authorization stays in
// the gate; the transport never inspects the caller.
func (h *Handler) handleBridge(w http.ResponseWriter, r *http.Request, apply bridgeOp, subject func(bridgeRequest) string) {
	p, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req bridgeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MessageID == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "message_id is required"))
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	// Validate before claiming the message id: a malformed delivery must not
	// poison the inbox for the corrected retry.
	subj, err := parseRecipient(subject(req))
	if err != nil {
		writeError(w, err)
		return
	}

	first, err := h.inbox.MarkDelivered(r.Context(), req.MessageID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !first {
		h.bridgeMetrics.Duplicates.Inc()
		h.log.Info().Str("message_id", req.MessageID).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("duplicate bridge message acknowledged")
		writeJSON(w, http.StatusOK, bridgeResponse{MessageID: req.MessageID, Duplicate: true})
		return
	}

	if err := apply(r.Context(), p, subj, amount, req.MessageID); err != nil {
		// The message was not applied; free the id so redelivery can retry.
		if relErr := h.inbox.Release(r.Context(), req.MessageID); relErr != nil {
			h.log.Error().Err(relErr).Str("message_id", req.MessageID).
				Msg("release bridge message after failed apply")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bridgeResponse{MessageID: req.MessageID})
}
