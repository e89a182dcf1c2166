package features

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog/log"

	"github.com/puneethvarma-001/worksense-sub000/internal/models"
)

// invalidateChannel carries override-change notifications so sibling
// instances can drop their local entries.
const invalidateChannel = "features:invalidate"

// OverrideStore holds per-tenant overrides with a bounded TTL. Satisfied by
// cache.Client; a nil store means overrides are simply never found.
type OverrideStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) <-chan string
}

// Service answers feature flag checks. Resolution order, first applicable
// wins: process-local cache, tier eligibility, deployment-level override,
// per-tenant override, static default. A flag check never fails the
// surrounding request: override-store errors degrade to "no override".
type Service struct {
	overrides   OverrideStore
	local       *ristretto.Cache[string, bool]
	overrideTTL time.Duration
	deployment  map[Flag]bool
	cancel      context.CancelFunc
}

// NewService builds the flag service. deploymentOverrides are operator-set
// values keyed by flag name; unknown names are dropped with a warning.
func NewService(overrides OverrideStore, overrideTTL time.Duration, deploymentOverrides map[string]bool) (*Service, error) {
	local, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create local flag cache: %w", err)
	}

	deployment := make(map[Flag]bool, len(deploymentOverrides))
	for name, enabled := range deploymentOverrides {
		if _, ok := registry[Flag(name)]; !ok {
			log.Warn().Str("flag", name).Msg("ignoring deployment override for unknown flag")
			continue
		}
		deployment[Flag(name)] = enabled
	}

	s := &Service{
		overrides:   overrides,
		local:       local,
		overrideTTL: overrideTTL,
		deployment:  deployment,
	}

	// Sibling instances publish override changes; drop our local entry so
	// the next check re-reads the store.
	if overrides != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.listenInvalidations(ctx)
	}

	return s, nil
}

func (s *Service) listenInvalidations(ctx context.Context) {
	msgs := s.overrides.Subscribe(ctx, invalidateChannel)
	for {
		select {
		case key, ok := <-msgs:
			if !ok {
				return
			}
			s.local.Del(key)
			s.local.Wait()
		case <-ctx.Done():
			return
		}
	}
}

func localKey(flag Flag, tenantID string) string {
	return string(flag) + ":" + tenantID
}

func overrideKey(flag Flag, tenantID string) string {
	return "feature:override:" + string(flag) + ":" + tenantID
}

// IsEnabled reports whether the flag is on for the tenant. Tier gating
// dominates: a flag is never enabled for a tenant whose tier is outside the
// flag's allowed tiers, regardless of overrides.
func (s *Service) IsEnabled(ctx context.Context, flag Flag, tenantID string, tier models.SubscriptionTier) bool {
	key := localKey(flag, tenantID)
	if v, ok := s.local.Get(key); ok {
		return v
	}

	cfg, ok := registry[flag]
	if !ok {
		log.Error().Str("flag", string(flag)).Msg("flag check for unregistered flag")
		return false
	}

	v := s.resolve(ctx, flag, cfg, tenantID, tier)
	s.local.SetWithTTL(key, v, 1, s.overrideTTL)
	s.local.Wait()
	return v
}

func (s *Service) resolve(ctx context.Context, flag Flag, cfg FlagConfig, tenantID string, tier models.SubscriptionTier) bool {
	if tier != "" && !tierAllowed(cfg, tier) {
		return false
	}

	if v, ok := s.deployment[flag]; ok {
		return v
	}

	if tenantID != "" && s.overrides != nil {
		raw, ok, err := s.overrides.Get(ctx, overrideKey(flag, tenantID))
		if err != nil {
			log.Warn().Err(err).Str("flag", string(flag)).Str("tenant", tenantID).
				Msg("override store unavailable, using static default")
		} else if ok {
			return raw == "true"
		}
	}

	return cfg.Default
}

// SetOverride writes a per-tenant override with the bounded TTL and drops
// the local entry so the next read observes it.
func (s *Service) SetOverride(ctx context.Context, flag Flag, tenantID string, enabled bool) error {
	if _, ok := registry[flag]; !ok {
		return fmt.Errorf("unknown feature flag %q", flag)
	}
	if s.overrides == nil {
		return fmt.Errorf("no override store configured")
	}

	if err := s.overrides.Set(ctx, overrideKey(flag, tenantID), strconv.FormatBool(enabled), s.overrideTTL); err != nil {
		return fmt.Errorf("failed to write override: %w", err)
	}

	s.local.Del(localKey(flag, tenantID))
	s.local.Wait()

	if err := s.overrides.Publish(ctx, invalidateChannel, localKey(flag, tenantID)); err != nil {
		log.Warn().Err(err).Str("flag", string(flag)).Msg("failed to publish override invalidation")
	}

	return nil
}

// GetAll evaluates every registered flag for the tenant in one pass, used
// by the UI to build its capability list in a single round trip.
func (s *Service) GetAll(ctx context.Context, tenantID string, tier models.SubscriptionTier) map[Flag]bool {
	out := make(map[Flag]bool, len(registry))
	for _, flag := range Flags() {
		out[flag] = s.IsEnabled(ctx, flag, tenantID, tier)
	}
	return out
}

// Close stops the invalidation listener and releases the local cache.
func (s *Service) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.local.Close()
}
