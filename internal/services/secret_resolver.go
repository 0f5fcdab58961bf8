package services

import (
	"context"
	"log"
	"strings"

	"payments-monitor/internal/models"
)

// SecretResolver returns the Stripe secret key, preference store first, then the
// key from the environment
type SecretResolver struct {
	store     PreferenceStore
	envSecret string
}

func NewSecretResolver(store PreferenceStore, envSecret string) *SecretResolver {
	return &SecretResolver{store: store, envSecret: strings.TrimSpace(envSecret)}
}

// StripeSecret returns "" when no key is configured anywhere
func (r *SecretResolver) StripeSecret(ctx context.Context) string {
	var stored string
	found, err := r.store.Get(ctx, models.OptionStripeSecretKey, &stored)
	if err != nil {
		log.Printf("[Secrets] Failed to read stored Stripe key, using environment: %v", err)
	}
	if found && strings.TrimSpace(stored) != "" {
		return strings.TrimSpace(stored)
	}
	return r.envSecret
}

// SaveStripeSecret persists a new key
func (r *SecretResolver) SaveStripeSecret(ctx context.Context, secret string) error {
	return r.store.Set(ctx, models.OptionStripeSecretKey, strings.TrimSpace(secret))
}
