package vault

import (
	"bytes"
	"crypto/ed25519"
)

var depositInstructionDiscriminator = []byte{242, 35, 198, 137, 82, 225, 242, 182}

const DepositInstructionSize = (8 + // discriminator
	8) // amount

type DepositInstructionArgs struct {
	Amount uint64
}

type DepositInstructionAccounts struct {
	Owner      ed25519.PublicKey
	VaultState ed25519.PublicKey
	VaultAuth  ed25519.PublicKey
	Vault      ed25519.PublicKey
}

func NewDepositInstruction(
	accounts *DepositInstructionAccounts,
	args *DepositInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, DepositInstructionSize)

	putDiscriminator(data, depositInstructionDiscriminator, &offset)
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

func DecompileDeposit(instruction Instruction) (*DepositInstructionArgs, *DepositInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 4 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < DepositInstructionSize {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, depositInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var args DepositInstructionArgs
	getUint64(instruction.Data, &args.Amount, &offset)

	accounts := &DepositInstructionAccounts{
		Owner:      instruction.Accounts[0].PublicKey,
		VaultState: instruction.Accounts[1].PublicKey,
		VaultAuth:  instruction.Accounts[2].PublicKey,
		Vault:      instruction.Accounts[3].PublicKey,
	}

	return &args, accounts, nil
}
