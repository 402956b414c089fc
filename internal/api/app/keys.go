package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 access-token key and returns a signer and
// a verifier bound to the configured issuer.
//
// Without AUTH_SIGNING_KEY_FILE a key is generated in memory, so every
// outstanding access token becomes invalid when the service restarts. The
// bot recovers by logging in again on its next 401.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	pemKey, generated, err := cryptox.LoadOrGenerateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	switch {
	case cfg.SigningKeyFile == "":
		logger.Warn("AUTH_SIGNING_KEY_FILE not set, using an ephemeral signing key")
	case generated:
		logger.Info("generated new signing key", "path", cfg.SigningKeyFile)
	}

	// The kid only has to be stable for a given key.
	probe, err := jwtx.NewSigner("", pemKey)
	if err != nil {
		return nil, nil, err
	}
	kid := cryptox.SHA256Hex(probe.Public())[:16]

	signer, err := jwtx.NewSigner(kid, pemKey)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("signing key ready", "kid", kid)

	return signer, jwtx.NewVerifier(signer.Public(), cfg.Issuer), nil
}
