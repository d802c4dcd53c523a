package ledger

import (
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
)

// SystemProgram owns plain lamport accounts with no data.
var SystemProgram = ed25519.PublicKey(make([]byte, ed25519.PublicKeySize))

// Account is a single ledger entry. Data layout is defined by the owning
// program.
type Account struct {
	Address  ed25519.PublicKey
	Owner    ed25519.PublicKey
	Lamports uint64
	Data     []byte
}

func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)

	return &Account{
		Address:  a.Address,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     data,
	}
}

// Ledger is the authoritative keyed store of accounts. All mutation happens
// through Execute, which applies a transaction atomically under a single
// writer lock.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*Account),
	}
}

// GetAccount returns a snapshot of the account at the provided address.
func (l *Ledger) GetAccount(address ed25519.PublicKey) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[base58.Encode(address)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account.Clone(), nil
}

// Execute runs fn against a buffered transaction. If fn returns nil the
// buffered writes are committed after rent enforcement; any error discards
// them all.
func (l *Ledger) Execute(fn func(tx *Transaction) error, signers ...ed25519.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Transaction{
		ledger:  l,
		signers: make(map[string]struct{}),
		pending: make(map[string]*Account),
		deleted: make(map[string]struct{}),
	}
	for _, signer := range signers {
		tx.signers[base58.Encode(signer)] = struct{}{}
	}

	if err := fn(tx); err != nil {
		return err
	}

	return tx.commit()
}

// FundAccount credits lamports out of thin air. Test and bootstrap use only.
func (l *Ledger) FundAccount(address ed25519.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := base58.Encode(address)
	account, ok := l.accounts[key]
	if !ok {
		account = &Account{
			Address: address,
			Owner:   SystemProgram,
		}
		l.accounts[key] = account
	}
	account.Lamports += lamports
}
