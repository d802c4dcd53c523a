package marketplace

// MarketplaceError is the program's custom error code space. Codes start at
// 0x1770, following the Anchor custom error convention.
type MarketplaceError uint32

const (
	// Invalid marketplace fee. Must be between 0 and 10000 basis points.
	ErrInvalidFee MarketplaceError = iota + 0x1770

	// Invalid marketplace name. Must be non-empty and max 32 bytes.
	ErrInvalidName

	// Invalid price. Must be greater than 0.
	ErrInvalidPrice

	// Insufficient tokens in account.
	ErrInsufficientTokens

	// Invalid collection. NFT must belong to the specified collection.
	ErrInvalidCollection

	// Unverified collection. NFT collection must be verified.
	ErrUnverifiedCollection

	// Unauthorized access. Only the owner can perform this action.
	ErrUnauthorized

	// Vault is empty. No NFT to transfer.
	ErrEmptyVault

	// Invalid maker. Maker address doesn't match listing.
	ErrInvalidMaker

	// Insufficient funds.
	ErrInsufficientFunds

	// Mathematical overflow occurred.
	ErrMathOverflow

	// Invalid marketplace state.
	ErrInvalidMarketplaceState
)

func (e MarketplaceError) Error() string {
	switch e {
	case ErrInvalidFee:
		return "invalid marketplace fee, must be between 0 and 10000 basis points"
	case ErrInvalidName:
		return "invalid marketplace name, must be non-empty and max 32 bytes"
	case ErrInvalidPrice:
		return "invalid price, must be greater than 0"
	case ErrInsufficientTokens:
		return "insufficient tokens in account"
	case ErrInvalidCollection:
		return "invalid collection, nft must belong to the specified collection"
	case ErrUnverifiedCollection:
		return "unverified collection, nft collection must be verified"
	case ErrUnauthorized:
		return "unauthorized access, only the owner can perform this action"
	case ErrEmptyVault:
		return "vault is empty, no nft to transfer"
	case ErrInvalidMaker:
		return "invalid maker, maker address doesn't match listing"
	case ErrInsufficientFunds:
		return "insufficient funds"
	case ErrMathOverflow:
		return "mathematical overflow occurred"
	case ErrInvalidMarketplaceState:
		return "invalid marketplace state"
	default:
		return "unknown marketplace error"
	}
}
