package authority

import (
	"context"

	"github.com/rs/zerolog"

	"crossledger/internal/events"
	"crossledger/pkg/domain"
	pkgerrors "crossledger/pkg/errors"
)

// Service is the administrative authority: a single mutable owner principal
// with transfer and renounce rights, orthogonal to token economics. Once
// renounced the owner is the null principal and no API path restores it;
// every later administrative call fails Unauthorized for every caller.
type Service struct {
	store    Store
	bus      *events.Bus
	domainID domain.DomainID
	log      zerolog.Logger
}

// New constructs the authority and seeds the owner on first boot.
func New(ctx context.Context, store Store, initialOwner domain.Principal, bus *events.Bus, domainID domain.DomainID, log zerolog.Logger) (*Service, error) {
	initialized, err := store.InitializeOwner(ctx, initialOwner)
	if err != nil {
		return nil, err
	}
	if initialized {
		log.Info().Str("owner", initialOwner.String()).Msg("owner initialized")
	}
	return &Service{
		store:    store,
		bus:      bus,
		domainID: domainID,
		log:      log,
	}, nil
}

// Owner returns the current owner; the null principal after a renounce.
func (s *Service) Owner(ctx context.Context) (domain.Principal, error) {
	return s.store.Owner(ctx)
}

// TransferOwnership hands the authority to newOwner. The null principal is
// rejected: renouncing is an explicit, separate operation.
func (s *Service) TransferOwnership(ctx context.Context, caller, newOwner domain.Principal) error {
	if newOwner.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvalidRecipient, "new owner cannot be the null principal")
	}
	return s.replaceOwner(ctx, caller, newOwner)
}

// RenounceOwnership irreversibly clears the owner.
func (s *Service) RenounceOwnership(ctx context.Context, caller domain.Principal) error {
	return s.replaceOwner(ctx, caller, domain.Zero)
}

func (s *Service) replaceOwner(ctx context.Context, caller, newOwner domain.Principal) error {
	current, err := s.store.Owner(ctx)
	if err != nil {
		return err
	}
	// A renounced instance has a null current owner, so no caller can pass
	// this check again.
	if current.IsZero() || caller != current {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller is not the owner")
	}

	if err := s.store.SetOwner(ctx, newOwner); err != nil {
		return err
	}

	s.log.Info().
		Str("previous_owner", current.String()).
		Str("new_owner", newOwner.String()).
		Msg("ownership changed")

	ev := events.NewEvent(events.KindOwnershipTransferred, s.domainID)
	ev.PreviousOwner, ev.NewOwner = current, newOwner
	s.bus.Emit(ev)
	return nil
}
