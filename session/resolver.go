package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/credential"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/jrsteele09/crm-portal/internal/metrics"
	"github.com/jrsteele09/crm-portal/tokenstore"
	"github.com/rs/zerolog/log"
)

// ProfileFetcher is the part of the CRM API the resolver needs
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*api.User, error)
	TenantProfile(ctx context.Context, token string) (*api.TenantProfile, error)
}

// Resolver turns a stored credential into a verified Session by asking the
// backend. Local decoding only chooses which endpoint to ask.
type Resolver struct {
	profiles ProfileFetcher
}

func NewResolver(profiles ProfileFetcher) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve makes exactly one profile call per invocation and does not cache.
//
// The store is cleared when the credential cannot be decoded or the backend
// rejects it. Transport failures leave the store untouched and return an error
// matching errors.ErrTransport.
func (r *Resolver) Resolve(ctx context.Context, store tokenstore.Store) (Session, error) {
	token, ok := store.Get(ctx)
	if !ok {
		metrics.ObserveResolution(metrics.OutcomeNoCredential)
		return Session{}, fmt.Errorf("%w: %w", ErrNoSession, errors.ErrNoCredential)
	}

	payload, err := credential.Decode(token)
	if err != nil {
		store.Clear(ctx)
		metrics.ObserveResolution(metrics.OutcomeMalformed)
		log.Warn().Err(err).Msg("session: clearing undecodable credential")
		return Session{}, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	var s Session
	switch p := payload.(type) {
	case credential.TenantAccess:
		s, err = r.resolveTenant(ctx, token)
	case credential.Default:
		s, err = r.resolveDefault(ctx, token, p)
	default:
		err = fmt.Errorf("unsupported payload %T", payload)
	}

	if err != nil {
		if errors.Is(err, errors.ErrTransport) || ctx.Err() != nil {
			metrics.ObserveResolution(metrics.OutcomeTransport)
			return Session{}, err
		}
		store.Clear(ctx)
		metrics.ObserveResolution(metrics.OutcomeRejected)
		log.Info().Err(err).Msg("session: credential rejected by backend")
		return Session{}, fmt.Errorf("%w: %w: %w", ErrNoSession, errors.ErrProfileRejected, err)
	}

	metrics.ObserveResolution(string(s.Role))
	return s, nil
}

func (r *Resolver) resolveTenant(ctx context.Context, token string) (Session, error) {
	profile, err := r.profiles.TenantProfile(ctx, token)
	if err != nil {
		return Session{}, err
	}
	return Session{
		SubjectID: profile.TenantID,
		TenantID:  profile.TenantID,
		Email:     profile.Email,
		Role:      credential.RoleTenant,
		Status:    profile.Status,
		CreatedAt: profile.CreatedAt,
	}, nil
}

func (r *Resolver) resolveDefault(ctx context.Context, token string, hint credential.Default) (Session, error) {
	user, err := r.profiles.Me(ctx, token)
	if err != nil {
		return Session{}, err
	}

	// The backend's role wins; the claim is only consulted when the backend omits it
	roleName := user.Role
	if roleName == "" {
		roleName = hint.Role
	}
	role, err := credential.ParseRole(roleName)
	if err != nil {
		return Session{}, err
	}

	return Session{
		SubjectID: user.ID,
		TenantID:  user.TenantID,
		Email:     user.Email,
		Role:      role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}, nil
}
