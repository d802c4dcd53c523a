package vault

import (
	"bytes"
	"crypto/ed25519"
)

var closeInstructionDiscriminator = []byte{98, 165, 201, 177, 108, 65, 206, 96}

const CloseInstructionSize = 8 // discriminator

type CloseInstructionAccounts struct {
	Owner      ed25519.PublicKey
	VaultState ed25519.PublicKey
	VaultAuth  ed25519.PublicKey
	Vault      ed25519.PublicKey
}

func NewCloseInstruction(
	accounts *CloseInstructionAccounts,
) Instruction {
	var offset int

	data := make([]byte, CloseInstructionSize)

	putDiscriminator(data, closeInstructionDiscriminator, &offset)

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
				IsWritable: true,
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

func DecompileClose(instruction Instruction) (*CloseInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 4 {
		return nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < CloseInstructionSize {
		return nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, closeInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	return &CloseInstructionAccounts{
		Owner:      instruction.Accounts[0].PublicKey,
		VaultState: instruction.Accounts[1].PublicKey,
		VaultAuth:  instruction.Accounts[2].PublicKey,
		Vault:      instruction.Accounts[3].PublicKey,
	}, nil
}
