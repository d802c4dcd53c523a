package processor

import (
	"math/bits"

	"github.com/openmarket-labs/marketplace-server/pkg/solana/marketplace"
)

// ComputeFee returns the marketplace's cut of a sale, rounded down. The
// intermediate product is computed in 128 bits so prices near the uint64
// boundary don't silently wrap.
func ComputeFee(priceLamports uint64, feeBasisPoints uint16) (uint64, error) {
	if feeBasisPoints > marketplace.MaxFeeBasisPoints {
		return 0, marketplace.ErrInvalidFee
	}

	hi, lo := bits.Mul64(priceLamports, uint64(feeBasisPoints))
	if hi >= marketplace.MaxFeeBasisPoints {
		return 0, marketplace.ErrMathOverflow
	}

	quo, _ := bits.Div64(hi, lo, marketplace.MaxFeeBasisPoints)
	return quo, nil
}
