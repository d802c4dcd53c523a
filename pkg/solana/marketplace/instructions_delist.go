package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var delistInstructionDiscriminator = []byte{55, 136, 205, 107, 107, 173, 4, 31}

const DelistInstructionSize = 8 // discriminator only

type DelistInstructionAccounts struct {
	Maker       ed25519.PublicKey
	Marketplace ed25519.PublicKey
	Mint        ed25519.PublicKey
	MakerTokens ed25519.PublicKey
	Vault       ed25519.PublicKey
	Listing     ed25519.PublicKey
}

func NewDelistInstruction(
	accounts *DelistInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, DelistInstructionSize)

	putDiscriminator(data, delistInstructionDiscriminator, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Maker,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Marketplace,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.MakerTokens,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Listing,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_ASSOCIATED_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func DecompileDelist(instruction Instruction) (*DelistInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 6 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < DelistInstructionSize {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, delistInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	return &DelistInstructionAccounts{
		Maker:       instruction.Accounts[0].PublicKey,
		Marketplace: instruction.Accounts[1].PublicKey,
		Mint:        instruction.Accounts[2].PublicKey,
		MakerTokens: instruction.Accounts[3].PublicKey,
		Vault:       instruction.Accounts[4].PublicKey,
		Listing:     instruction.Accounts[5].PublicKey,
	}, nil
}
