package port

import "asset_gateway/internal/domain/entity"

// TokenProvider supplies the known token contracts of chains that cannot enumerate an
// account's tokens on their own.
type TokenProvider interface {
	TokensFor(chain entity.ChainID) []entity.TokenInfo
}
