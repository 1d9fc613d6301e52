package bridge

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"crossledger/internal/events"
	"crossledger/internal/ledger/store"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// Gate is the sole entry point allowed to mint and burn outside of normal
// transfers. Authorization is a single equality check against the immutable
// bridge identity injected at construction; there is no dynamic dispatch and
// no second trusted caller.
//
// The gate does not deduplicate messages. The external messenger owns
// exactly-once-effect semantics; this instance's HTTP edge enforces them
// with the delivery inbox before calling in here.
type Gate struct {
	identity domain.Principal
	store    store.Store
	bus      *events.Bus
	domainID domain.DomainID
	metrics  *Metrics
	log      zerolog.Logger
}

// NewGate binds the gate to the trusted messenger identity.
func NewGate(identity domain.Principal, st store.Store, bus *events.Bus, domainID domain.DomainID, m *Metrics, log zerolog.Logger) *Gate {
	return &Gate{
		identity: identity,
		store:    st,
		bus:      bus,
		domainID: domainID,
		metrics:  m,
		log:      log,
	}
}

// Identity returns the trusted messenger principal.
func (g *Gate) Identity() domain.Principal {
	return g.identity
}

// Mint realizes the destination half of a cross-domain move: it creates
// amount for the recipient and grows total supply by the same amount.
func (g *Gate) Mint(ctx context.Context, caller, to domain.Principal, amount *uint256.Int, messageID string) error {
	if caller != g.identity {
		g.metrics.Rejected.Inc()
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller is not the bridge")
	}
	if err := g.store.Mint(ctx, to, amount); err != nil {
		return err
	}

	g.metrics.Mints.Inc()
	g.log.Info().
		Str("to", to.String()).
		Str("amount", domain.FormatAmount(amount)).
		Str("message_id", messageID).
		Msg("bridge mint")

	ev := events.NewEvent(events.KindBridgeMint, g.domainID)
	ev.To, ev.Amount, ev.MessageID = to, domain.FormatAmount(amount), messageID
	g.bus.Emit(ev)
	return nil
}

// Burn realizes the source half of a cross-domain move: it destroys amount
// held by from and shrinks total supply by the same amount.
func (g *Gate) Burn(ctx context.Context, caller, from domain.Principal, amount *uint256.Int, messageID string) error {
	if caller != g.identity {
		g.metrics.Rejected.Inc()
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller is not the bridge")
	}
	if err := g.store.Burn(ctx, from, amount); err != nil {
		return err
	}

	g.metrics.Burns.Inc()
	g.log.Info().
		Str("from", from.String()).
		Str("amount", domain.FormatAmount(amount)).
		Str("message_id", messageID).
		Msg("bridge burn")

	ev := events.NewEvent(events.KindBridgeBurn, g.domainID)
	ev.From, ev.Amount, ev.MessageID = from, domain.FormatAmount(amount), messageID
	g.bus.Emit(ev)
	return nil
}
