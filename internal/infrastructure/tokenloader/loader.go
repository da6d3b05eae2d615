package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"asset_gateway/internal/app/port"
	"asset_gateway/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadTokens reads every <chain>.json file of dir whose chain is in chains. A missing directory
// yields no tokens. Unreadable or malformed files are errors; entries naming another chain are
// skipped with a warning.
func LoadTokens(dir string, chains []entity.ChainID, logger port.Logger) (map[entity.ChainID][]entity.TokenInfo, error) {
	tokensByChain := make(map[entity.ChainID][]entity.TokenInfo)

	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("Token directory not found, no token lists loaded", "path", dir)
		return tokensByChain, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token directory %s: %w", dir, err)
	}

	wanted := make(map[entity.ChainID]bool, len(chains))
	for _, c := range chains {
		wanted[c] = true
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}
		chain := entity.ChainID(strings.ToLower(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))))
		if !wanted[chain] {
			logger.Debug("Token file for a chain without asset queries, skipping", "file", file.Name())
			continue
		}

		filePath := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file %s: %w", filePath, err)
		}

		var tokensInFile []entity.TokenInfo
		if err := json.Unmarshal(data, &tokensInFile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tokens from %s: %w", filePath, err)
		}

		valid := make([]entity.TokenInfo, 0, len(tokensInFile))
		for _, token := range tokensInFile {
			switch {
			case token.Chain == "":
				token.Chain = chain
			case !strings.EqualFold(string(token.Chain), string(chain)):
				logger.Warn("Token has mismatched chain in file, skipping token",
					"file", filePath, "symbol", token.Symbol, "address", token.Address, "tokenChain", token.Chain)
				continue
			}
			if token.Address == "" {
				logger.Warn("Token without address in file, skipping token", "file", filePath, "symbol", token.Symbol)
				continue
			}
			token.Chain = chain
			valid = append(valid, token)
		}

		tokensByChain[chain] = append(tokensByChain[chain], valid...)
		logger.Info("Loaded token list", "chain", chain, "file", file.Name(), "count", len(valid))
	}

	return tokensByChain, nil
}
