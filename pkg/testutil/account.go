package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openmarket-labs/marketplace-server/pkg/market/common"
	"github.com/openmarket-labs/marketplace-server/pkg/market/ledger"
)

func NewRandomAccount(t *testing.T) *common.Account {
	account, err := common.NewRandomAccount()
	require.NoError(t, err)

	return account
}

// NewFundedAccount returns a random account credited with the provided
// lamport balance.
func NewFundedAccount(t *testing.T, l *ledger.Ledger, lamports uint64) *common.Account {
	account := NewRandomAccount(t)
	l.FundAccount(account.PublicKey().ToBytes(), lamports)
	return account
}
