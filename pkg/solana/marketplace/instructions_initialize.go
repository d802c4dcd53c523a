package marketplace

import (
	"bytes"
	"crypto/ed25519"
)

var initializeInstructionDiscriminator = []byte{175, 175, 109, 31, 13, 152, 155, 237}

type InitializeInstructionArgs struct {
	Name string
	Fee  uint16
}

type InitializeInstructionAccounts struct {
	Admin       ed25519.PublicKey
	Marketplace ed25519.PublicKey
	Treasury    ed25519.PublicKey
	RewardMint  ed25519.PublicKey
}

func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
	args *InitializeInstructionArgs,
) Instruction {
	var offset int

	data := make([]byte, 8+4+len(args.Name)+2)

	putDiscriminator(data, initializeInstructionDiscriminator, &offset)
	putName(data, args.Name, &offset)
	putUint16(data, args.Fee, &offset)

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
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Treasury,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.RewardMint,
				IsWritable: true,
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

func DecompileInitialize(instruction Instruction) (*InitializeInstructionArgs, *InitializeInstructionAccounts, error) {
	if !bytes.Equal(instruction.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}
	if len(instruction.Accounts) < 4 {
		return nil, nil, ErrInvalidInstructionData
	}
	if len(instruction.Data) < 8+4+2 {
		return nil, nil, ErrInvalidInstructionData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(instruction.Data, &discriminator, &offset)
	if !bytes.Equal(discriminator, initializeInstructionDiscriminator) {
		return nil, nil, ErrInvalidInstructionData
	}

	var nameLength uint32
	getUint32(instruction.Data, &nameLength, &offset)
	if nameLength > MaxNameLength || len(instruction.Data) < offset+int(nameLength)+2 {
		return nil, nil, ErrInvalidInstructionData
	}

	var args InitializeInstructionArgs
	args.Name = string(instruction.Data[offset : offset+int(nameLength)])
	offset += int(nameLength)
	getUint16(instruction.Data, &args.Fee, &offset)

	accounts := &InitializeInstructionAccounts{
		Admin:       instruction.Accounts[0].PublicKey,
		Marketplace: instruction.Accounts[1].PublicKey,
		Treasury:    instruction.Accounts[2].PublicKey,
		RewardMint:  instruction.Accounts[3].PublicKey,
	}

	return &args, accounts, nil
}
