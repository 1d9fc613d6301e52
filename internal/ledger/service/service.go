package service

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"crossledger/internal/events"
	"crossledger/internal/ledger/metrics"
	"crossledger/internal/ledger/models"
	"crossledger/internal/ledger/store"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// Config carries the construction-time parameters of one token instance.
// The deployment coordinator must hand every instance in the cluster the
// same OriginDomainID and InitialSupply; this process cannot verify that.
type Config struct {
	Metadata       models.Metadata
	OriginDomainID domain.DomainID
	InitialSupply  *uint256.Int
	Owner          domain.Principal
}

// Token is the ledger façade: transfers, approvals, and reads over one
// domain's balance and allowance tables. Transport concerns stay out; the
// caller principal arrives already authenticated.
type Token struct {
	meta    models.Metadata
	store   store.Store
	bus     *events.Bus
	metrics *metrics.Metrics
	tracer  trace.Tracer
	log     zerolog.Logger
}

// New constructs the token instance and runs the supply initializer: the
// one and only comparison of the configured origin domain against this
// instance's own domain. On the origin domain the owner is credited with
// the full initial supply; everywhere else the ledger starts empty.
func New(ctx context.Context, cfg Config, st store.Store, bus *events.Bus, m *metrics.Metrics, log zerolog.Logger) (*Token, error) {
	supply := uint256.NewInt(0)
	if cfg.OriginDomainID == cfg.Metadata.DomainID && cfg.InitialSupply != nil {
		supply = cfg.InitialSupply
	}

	initialized, err := st.InitializeSupply(ctx, cfg.Owner, supply)
	if err != nil {
		return nil, err
	}
	if initialized {
		log.Info().
			Uint64("domain_id", uint64(cfg.Metadata.DomainID)).
			Uint64("origin_domain_id", uint64(cfg.OriginDomainID)).
			Str("initial_supply", domain.FormatAmount(supply)).
			Str("owner", cfg.Owner.String()).
			Msg("ledger genesis")
	}

	return &Token{
		meta:    cfg.Metadata,
		store:   st,
		bus:     bus,
		metrics: m,
		tracer:  otel.Tracer("crossledger/ledger"),
		log:     log,
	}, nil
}

// Metadata returns the immutable token identity.
func (t *Token) Metadata() models.Metadata {
	return t.meta
}

func (t *Token) TotalSupply(ctx context.Context) (*uint256.Int, error) {
	return t.store.TotalSupply(ctx)
}

func (t *Token) BalanceOf(ctx context.Context, p domain.Principal) (*uint256.Int, error) {
	return t.store.Balance(ctx, p)
}

func (t *Token) Allowance(ctx context.Context, owner, spender domain.Principal) (*uint256.Int, error) {
	return t.store.Allowance(ctx, owner, spender)
}

// Transfer moves amount from the authenticated caller to the recipient.
func (t *Token) Transfer(ctx context.Context, caller, to domain.Principal, amount *uint256.Int) error {
	ctx, span := t.tracer.Start(ctx, "ledger.Transfer")
	defer span.End()

	err := t.timed("transfer", func() error {
		return t.store.Transfer(ctx, caller, to, amount)
	})
	if err != nil {
		t.fail(err)
		return err
	}

	t.metrics.Transfers.Inc()
	ev := events.NewEvent(events.KindTransfer, t.meta.DomainID)
	ev.From, ev.To, ev.Amount = caller, to, domain.FormatAmount(amount)
	t.bus.Emit(ev)
	return nil
}

// Approve overwrites the caller's allowance entry for spender. The amount
// is unconstrained; the unlimited sentinel is a legal value.
func (t *Token) Approve(ctx context.Context, caller, spender domain.Principal, amount *uint256.Int) error {
	ctx, span := t.tracer.Start(ctx, "ledger.Approve")
	defer span.End()

	err := t.timed("approve", func() error {
		return t.store.SetAllowance(ctx, caller, spender, amount)
	})
	if err != nil {
		t.fail(err)
		return err
	}

	t.metrics.Approvals.Inc()
	ev := events.NewEvent(events.KindApproval, t.meta.DomainID)
	ev.Owner, ev.Spender, ev.Amount = caller, spender, domain.FormatAmount(amount)
	t.bus.Emit(ev)
	return nil
}

// TransferFrom moves amount from the owner to the recipient on the
// authenticated caller's allowance.
func (t *Token) TransferFrom(ctx context.Context, caller, from, to domain.Principal, amount *uint256.Int) error {
	ctx, span := t.tracer.Start(ctx, "ledger.TransferFrom")
	defer span.End()

	err := t.timed("transfer_from", func() error {
		return t.store.TransferFrom(ctx, caller, from, to, amount)
	})
	if err != nil {
		t.fail(err)
		return err
	}

	t.metrics.TransferFroms.Inc()
	ev := events.NewEvent(events.KindTransfer, t.meta.DomainID)
	ev.From, ev.To, ev.Spender, ev.Amount = from, to, caller, domain.FormatAmount(amount)
	t.bus.Emit(ev)
	return nil
}

func (t *Token) timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.metrics.OpDurationMs.WithLabelValues(op).
		Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	return err
}

func (t *Token) fail(err error) {
	t.metrics.Failures.WithLabelValues(string(pkgerrors.CodeOf(err))).Inc()
}
