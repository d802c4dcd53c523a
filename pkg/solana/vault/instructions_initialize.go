package vault

import (
	"bytes"
	"crypto/ed25519"
)

var initializeInstructionDiscriminator = []byte{175, 175, 109, 31, 13, 152, 155, 237}

const InitializeInstructionSize = 8 // discriminator

type InitializeInstructionAccounts struct {
	Owner      ed25519.PublicKey
	VaultState ed25519.PublicKey
	VaultAuth  ed25519.PublicKey
	Vault      ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, InitializeInstructionSize)

	putDiscriminator(data, initializeInstructionDiscriminator, &offset)

	return Instruction{
		Program: PROGRAM_ID,

		Data: data,

		// The vault state is a fresh keypair account, so it co-signs its own
		// creation alongside the owner.
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Owner,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.VaultState,
				IsWritable: true,
				IsSigner:   true,
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

func DecompileInitialize(instruction Instruction) (*InitializeInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 4 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < InitializeInstructionSize {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, initializeInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	return &InitializeInstructionAccounts{
		Owner:      instruction.Accounts[0].PublicKey,
		VaultState: instruction.Accounts[1].PublicKey,
		VaultAuth:  instruction.Accounts[2].PublicKey,
		Vault:      instruction.Accounts[3].PublicKey,
	}, nil
}
