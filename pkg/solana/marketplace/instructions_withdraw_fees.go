package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var withdrawFeesInstructionDiscriminator = []byte{198, 212, 171, 109, 144, 215, 174, 89}

const WithdrawFeesInstructionSize = (8 + // discriminator
	8) // amount

type WithdrawFeesInstructionArgs struct {
	Amount uint64
}

type WithdrawFeesInstructionAccounts struct {
	Admin       ed25519.PublicKey
	Marketplace ed25519.PublicKey
	Treasury    ed25519.PublicKey
}

func NewWithdrawFeesInstruction(
	accounts *WithdrawFeesInstructionAccounts,
	args *WithdrawFeesInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, WithdrawFeesInstructionSize)

	putDiscriminator(data, withdrawFeesInstructionDiscriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Marketplace,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
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

func DecompileWithdrawFees(instruction Instruction) (*WithdrawFeesInstructionArgs, *WithdrawFeesInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 3 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < WithdrawFeesInstructionSize {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, withdrawFeesInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var args WithdrawFeesInstructionArgs
	getUint64(instruction.Data, &args.Amount, &offset)

	accounts := &WithdrawFeesInstructionAccounts{
		Admin:       instruction.Accounts[0].PublicKey,
		Marketplace: instruction.Accounts[1].PublicKey,
		Treasury:    instruction.Accounts[2].PublicKey,
	}

	return &args, accounts, nil
}
