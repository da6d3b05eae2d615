package provider

import (
	"strings"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/infrastructure/tokenloader"
)

type tokenProviderImpl struct {
	tokens map[entity.ChainID][]entity.TokenInfo
}

var _ port.TokenProvider = (*tokenProviderImpl)(nil)

// NewTokenProvider merges the tokens of cfg with the token list files of cfg.TokenListDir for
// the given chains. Configured entries win over file entries with the same contract address.
// The result is loaded once and read-only afterwards.
func NewTokenProvider(cfg *configloader.Config, chains []entity.ChainID, logger port.Logger) (port.TokenProvider, error) {
	fromFiles, err := tokenloader.LoadTokens(cfg.TokenListDir, chains, logger)
	if err != nil {
		logger.Error("Failed to load token lists", "directory", cfg.TokenListDir, "error", err)
		return nil, err
	}

	p := &tokenProviderImpl{tokens: make(map[entity.ChainID][]entity.TokenInfo, len(chains))}
	for _, chain := range chains {
		seen := make(map[string]bool)
		var merged []entity.TokenInfo
		for _, list := range [][]entity.TokenInfo{cfg.TokensFor(chain), fromFiles[chain]} {
			for _, t := range list {
				key := strings.ToLower(t.Address)
				if seen[key] {
					continue
				}
				seen[key] = true
				t.Chain = chain
				merged = append(merged, t)
			}
		}
		p.tokens[chain] = merged
		logger.Debug("Tokens resolved", "chain", chain, "count", len(merged))
	}
	return p, nil
}

// TokensFor returns the tokens of chain in configuration-then-file order.
func (p *tokenProviderImpl) TokensFor(chain entity.ChainID) []entity.TokenInfo {
	return p.tokens[chain]
}
