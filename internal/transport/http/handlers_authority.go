package httptransport

import "net/http"

type ownerResponse struct {
	Owner     string `json:"owner"`
	Renounced bool   `json:"renounced"`
}

func (h *Handler) handleOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := h.authority.Owner(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ownerResponse{
		Owner:     owner.String(),
		Renounced: owner.IsZero(),
	})
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *Handler) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	p, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req transferOwnershipRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// The null new owner still reaches the authority so it can reject it
	// with its own code; renunciation has a dedicated endpoint.
	newOwner, err := parseRecipient(req.NewOwner)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.authority.TransferOwnership(r.Context(), p, newOwner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRenounceOwnership(w http.ResponseWriter, r *http.Request) {
	p, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.authority.RenounceOwnership(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
