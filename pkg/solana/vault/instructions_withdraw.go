package vault

import (
	"bytes"
	"crypto/ed25519"
)

var withdrawInstructionDiscriminator = []byte{183, 18, 70, 156, 148, 109, 161, 34}

const WithdrawInstructionSize = (8 + // discriminator
	8) // amount

type WithdrawInstructionArgs struct {
	Amount uint64
}

type WithdrawInstructionAccounts struct {
	Owner      ed25519.PublicKey
	VaultState ed25519.PublicKey
	VaultAuth  ed25519.PublicKey
	Vault      ed25519.PublicKey
}

func NewWithdrawInstruction(
	accounts *WithdrawInstructionAccounts,
	args *WithdrawInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, WithdrawInstructionSize)

	putDiscriminator(data, withdrawInstructionDiscriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Owner,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.VaultState,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultAuth,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func DecompileWithdraw(instruction Instruction) (*WithdrawInstructionArgs, *WithdrawInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 4 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < WithdrawInstructionSize {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, withdrawInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var args WithdrawInstructionArgs
	getUint64(instruction.Data, &args.Amount, &offset)

	accounts := &WithdrawInstructionAccounts{
		Owner:      instruction.Accounts[0].PublicKey,
		VaultState: instruction.Accounts[1].PublicKey,
		VaultAuth:  instruction.Accounts[2].PublicKey,
		Vault:      instruction.Accounts[3].PublicKey,
	}

	return &args, accounts, nil
}
