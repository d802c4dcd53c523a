package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var updateMarketplaceInstructionDiscriminator = []byte{72, 12, 22, 71, 86, 113, 79, 167}

type UpdateMarketplaceInstructionArgs struct {
	// NewFee leaves the fee unchanged when nil
	NewFee *uint16
}

type UpdateMarketplaceInstructionAccounts struct {
	Admin       ed25519.PublicKey
	Marketplace ed25519.PublicKey
}

func NewUpdateMarketplaceInstruction(
	accounts *UpdateMarketplaceInstructionAccounts,
	args *UpdateMarketplaceInstructionArgs,
) Instruction {
	var offset int

	size := 8 + 1
	if args.NewFee != nil {
		size += 2
	}
	data := make([]byte, size)

	putDiscriminator(data, updateMarketplaceInstructionDiscriminator, &offset)
	putOptionalUint16(data, args.NewFee, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Admin,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Marketplace,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

func DecompileUpdateMarketplace(instruction Instruction) (*UpdateMarketplaceInstructionArgs, *UpdateMarketplaceInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 2 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < 8+1 {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, updateMarketplaceInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	if instruction.Data[offset] == 1 && len(instruction.Data) < 8+1+2 {
		return nil, nil, ErrInvalidInstructionData
	}

	var args UpdateMarketplaceInstructionArgs
	getOptionalUint16(instruction.Data, &args.NewFee, &offset)

	accounts := &UpdateMarketplaceInstructionAccounts{
		Admin:       instruction.Accounts[0].PublicKey,
		Marketplace: instruction.Accounts[1].PublicKey,
	}

	return &args, accounts, nil
}
