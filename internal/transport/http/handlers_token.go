package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crossledger/pkg/domain"
)

type metadataResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	DomainID    uint64 `json:"domain_id"`
	TotalSupply string `json:"total_supply"`
}

func (h *Handler) handleTokenMetadata(w http.ResponseWriter, r *http.Request) {
	meta := h.token.Metadata()
	supply, err := h.token.TotalSupply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse{
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    meta.Decimals,
		DomainID:    uint64(meta.DomainID),
		TotalSupply: domain.FormatAmount(supply),
	})
}

type balanceResponse struct {
	Principal string `json:"principal"`
	Balance   string `json:"balance"`
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	principal, err := domain.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.token.BalanceOf(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Principal: principal.String(),
		Balance:   domain.FormatAmount(balance),
	})
}

type allowanceResponse struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
	Unlimited bool   `json:"unlimited"`
}

func (h *Handler) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner, err := domain.ParsePrincipal(chi.URLParam(r, "owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	spender, err := domain.ParsePrincipal(chi.URLParam(r, "spender"))
	if err != nil {
		writeError(w, err)
		return
	}
	allowance, err := h.token.Allowance(r.Context(), owner, spender)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allowanceResponse{
		Owner:     owner.String(),
		Spender:   spender.String(),
		Allowance: domain.FormatAmount(allowance),
		Unlimited: domain.IsUnlimited(allowance),
	})
}

type transferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	from, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	to, err := parseRecipient(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.token.Transfer(r.Context(), from, to, amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type approveRequest struct {
	Spender string `json:"spender"`
	// Amount is a decimal string; the literal "unlimited" grants the
	// never-consumed unlimited allowance.
	Amount string `json:"amount"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	owner, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req approveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	spender, err := domain.ParsePrincipal(req.Spender)
	if err != nil {
		writeError(w, err)
		return
	}
	amount := domain.Unlimited()
	if req.Amount != "unlimited" {
		if amount, err = domain.ParseAmount(req.Amount); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := h.token.Approve(r.Context(), owner, spender, amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferFromRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (h *Handler) handleTransferFrom(w http.ResponseWriter, r *http.Request) {
	spender, err := caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req transferFromRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from, err := domain.ParsePrincipal(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseRecipient(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.token.TransferFrom(r.Context(), spender, from, to, amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
