package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var purchaseInstructionDiscriminator = []byte{21, 93, 113, 154, 193, 160, 242, 168}

const PurchaseInstructionSize = 8 // discriminator only

type PurchaseInstructionAccounts struct {
	Taker          ed25519.PublicKey
	Maker          ed25519.PublicKey
	Marketplace    ed25519.PublicKey
	Mint           ed25519.PublicKey
	TakerTokens    ed25519.PublicKey
	TakerRewards   ed25519.PublicKey
	Listing        ed25519.PublicKey
	Vault          ed25519.PublicKey
	Treasury       ed25519.PublicKey
	RewardMint     ed25519.PublicKey
	CollectionMint ed25519.PublicKey
	Metadata       ed25519.PublicKey
	MasterEdition  ed25519.PublicKey
}

func NewPurchaseInstruction(
	accounts *PurchaseInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, PurchaseInstructionSize)

	putDiscriminator(data, purchaseInstructionDiscriminator, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Taker,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Maker,
				IsWritable: true,
				IsSigner:   false,
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
				PublicKey:  accounts.TakerTokens,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TakerRewards,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Listing,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.RewardMint,
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

func DecompilePurchase(instruction Instruction) (*PurchaseInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 13 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < PurchaseInstructionSize {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, purchaseInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	return &PurchaseInstructionAccounts{
		Taker:          instruction.Accounts[0].PublicKey,
		Maker:          instruction.Accounts[1].PublicKey,
		Marketplace:    instruction.Accounts[2].PublicKey,
		Mint:           instruction.Accounts[3].PublicKey,
		TakerTokens:    instruction.Accounts[4].PublicKey,
		TakerRewards:   instruction.Accounts[5].PublicKey,
		Listing:        instruction.Accounts[6].PublicKey,
		Vault:          instruction.Accounts[7].PublicKey,
		Treasury:       instruction.Accounts[8].PublicKey,
		RewardMint:     instruction.Accounts[9].PublicKey,
		CollectionMint: instruction.Accounts[10].PublicKey,
		Metadata:       instruction.Accounts[11].PublicKey,
		MasterEdition:  instruction.Accounts[12].PublicKey,
	}, nil
}
