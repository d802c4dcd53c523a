package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var listInstructionDiscriminator = []byte{126, 47, 161, 107, 23, 112, 254, 126}

const ListInstructionSize = (8 + // discriminator
	8) // price

type ListInstructionArgs struct {
	Price uint64
}

type ListInstructionAccounts struct {
	Maker          ed25519.PublicKey
	Marketplace    ed25519.PublicKey
	Mint           ed25519.PublicKey
	MakerTokens    ed25519.PublicKey
	Vault          ed25519.PublicKey
	Listing        ed25519.PublicKey
	CollectionMint ed25519.PublicKey
	Metadata       ed25519.PublicKey
	MasterEdition  ed25519.PublicKey
}

func NewListInstruction(
	accounts *ListInstructionAccounts,
	args *ListInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, ListInstructionSize)

	putDiscriminator(data, listInstructionDiscriminator, &offset)
	putUint64(data, args.Price, &offset)

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
				PublicKey:  accounts.CollectionMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Metadata,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.MasterEdition,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  TOKEN_METADATA_PROGRAM_ID,
				IsWritable: false,
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

func DecompileList(instruction Instruction) (*ListInstructionArgs, *ListInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 9 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < ListInstructionSize {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, listInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var args ListInstructionArgs
	getUint64(instruction.Data, &args.Price, &offset)

	accounts := &ListInstructionAccounts{
		Maker:          instruction.Accounts[0].PublicKey,
		Marketplace:    instruction.Accounts[1].PublicKey,
		Mint:           instruction.Accounts[2].PublicKey,
		MakerTokens:    instruction.Accounts[3].PublicKey,
		Vault:          instruction.Accounts[4].PublicKey,
		Listing:        instruction.Accounts[5].PublicKey,
		CollectionMint: instruction.Accounts[6].PublicKey,
		Metadata:       instruction.Accounts[7].PublicKey,
		MasterEdition:  instruction.Accounts[8].PublicKey,
	}

	return &args, accounts, nil
}
