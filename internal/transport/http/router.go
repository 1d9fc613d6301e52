// Package httptransport is the thin HTTP layer. Handlers decode input,
// resolve the caller principal, and delegate to domain services without
// embedding business logic.
package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"crossledger/internal/bridge"
	"crossledger/internal/bridge/inbox"
	"crossledger/internal/ledger/models"
	"crossledger/internal/platform/middleware"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// TokenService is the ledger surface the transport needs.
type TokenService interface {
	Metadata() models.Metadata
	TotalSupply(ctx context.Context) (*uint256.Int, error)
	BalanceOf(ctx context.Context, p domain.Principal) (*uint256.Int, error)
	Allowance(ctx context.Context, owner, spender domain.Principal) (*uint256.Int, error)
	Transfer(ctx context.Context, caller, to domain.Principal, amount *uint256.Int) error
	Approve(ctx context.Context, caller, spender domain.Principal, amount *uint256.Int) error
	TransferFrom(ctx context.Context, caller, from, to domain.Principal, amount *uint256.Int) error
}

// AuthorityService is the ownership surface the transport needs.
type AuthorityService interface {
	Owner(ctx context.Context) (domain.Principal, error)
	TransferOwnership(ctx context.Context, caller, newOwner domain.Principal) error
	RenounceOwnership(ctx context.Context, caller domain.Principal) error
}

// BridgeService is the gate surface the transport needs.
type BridgeService interface {
	Mint(ctx context.Context, caller, to domain.Principal, amount *uint256.Int, messageID string) error
	Burn(ctx context.Context, caller, from domain.Principal, amount *uint256.Int, messageID string) error
}

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler carries the wired services for all endpoints.
type Handler struct {
	token         TokenService
	authority     AuthorityService
	gate          BridgeService
	inbox         inbox.Inbox
	bridgeMetrics *bridge.Metrics
	health        map[string]HealthChecker
	log           zerolog.Logger
}

// NewHandler wires the transport. health maps a component name to its
// checker; nil checkers are skipped so optional backends stay optional.
func NewHandler(
	token TokenService,
	authority AuthorityService,
	gate BridgeService,
	ibx inbox.Inbox,
	bridgeMetrics *bridge.Metrics,
	health map[string]HealthChecker,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		token:         token,
		authority:     authority,
		gate:          gate,
		inbox:         ibx,
		bridgeMetrics: bridgeMetrics,
		health:        health,
		log:           log,
	}
}

// NewRouter builds the route tree. Reads are public; every state change
// requires a bearer token whose subject is the caller principal.
func NewRouter(h *Handler, validator middleware.TokenValidator, metricsHandler http.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/token", h.handleTokenMetadata)
		r.Get("/balances/{principal}", h.handleBalance)
		r.Get("/allowances/{owner}/{spender}", h.handleAllowance)
		r.Get("/owner", h.handleOwner)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator, log))
			r.Post("/transfers", h.handleTransfer)
			r.Post("/approvals", h.handleApprove)
			r.Post("/transfer-from", h.handleTransferFrom)
			r.Post("/ownership/transfer", h.handleTransferOwnership)
			r.Post("/ownership/renounce", h.handleRenounceOwnership)
			r.Post("/bridge/mint", h.handleBridgeMint)
			r.Post("/bridge/burn", h.handleBridgeBurn)
		})
	})

	return r
}

// writeError translates domain errors into the JSON error envelope. Keeping
// it here ensures every endpoint fails the same way.
func writeError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(pkgerrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// caller resolves the authenticated principal set by RequireAuth.
func caller(r *http.Request) (domain.Principal, error) {
	p := middleware.GetPrincipal(r.Context())
	if p.IsZero() {
		return domain.Zero, pkgerrors.New(pkgerrors.CodeUnauthorized, "no authenticated caller")
	}
	return p, nil
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}

// parseRecipient validates non-empty recipients at the boundary, so every
// principal the write path accepts is one the read path can report. The
// empty string passes through as the null principal and keeps its domain
// verdict (invalid_recipient) instead of a generic input error.
func parseRecipient(s string) (domain.Principal, error) {
	if s == "" {
		return domain.Zero, nil
	}
	return domain.ParsePrincipal(s)
}
