// opcode_defs.go - wires every supported opcode into the dense table
//
// Grounded on cpu_x86.go's initBaseOps/initExtendedOps: one call per
// opcode byte (or, here, per ArgSource-bearing entry), grouped by
// instruction family rather than in ascending opcode order. The arithmetic family
// (ADD/OR/ADC/SBB/AND/SUB/XOR/CMP) is generalized into a loop over its
// eight sub-handlers/eight opcode bases rather than 48 hand-written
// calls, since the encoding is perfectly regular (spec.md §4.8).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

var globalOpcodeTable *OpcodeTable

func init() {
	globalOpcodeTable = buildOpcodeTable()
}

// opcodeTable returns the package's single static opcode table.
func (vm *VM) opcodeTable() *OpcodeTable { return globalOpcodeTable }

func regArg(size ArgSize) ArgSource       { return ArgSource{Kind: ArgSrcModRM, Size: size} }
func regFieldArg(size ArgSize) ArgSource  { return ArgSource{Kind: ArgSrcModRMReg, Size: size} }
func immArg(size ArgSize) ArgSource       { return ArgSource{Kind: ArgSrcImmediateValue, Size: size} }
func jumpRelArg(size ArgSize) ArgSource   { return ArgSource{Kind: ArgSrcJumpRel, Size: size} }
func suffixArg(size ArgSize) ArgSource    { return ArgSource{Kind: ArgSrcRegisterSuffix, Size: size} }
func literalArg(v SizedValue) ArgSource   { return ArgSource{Kind: ArgSrcLiteral, Size: SzNone, Lit: v} }
func hardcodedArg(reg byte, size ArgSize) ArgSource {
	return ArgSource{Kind: ArgSrcHardcodedRegister, Reg: reg, Size: size}
}
func noArg() ArgSource { return ArgSource{Kind: ArgSrcNone} }
func addrArg(size ArgSize) ArgSource { return ArgSource{Kind: ArgSrcImmediateAddress, Size: size} }

func buildOpcodeTable() *OpcodeTable {
	b := newOpcodeTableBuilder()

	defineArithFamily(b)
	defineImmediateArithGroups(b)
	defineIncDec(b)
	definePushPop(b)
	defineMovFamily(b)
	defineTestXchg(b)
	defineShiftGroups(b)
	defineMulDivGroup(b)
	defineBranches(b)
	defineMisc(b)
	defineBitops(b)
	defineStringOps(b)
	defineSetccCmovcc(b)

	return b.build()
}

// --- arithmetic family: ADD/OR/ADC/SBB/AND/SUB/XOR/CMP, 8 ops x 6 forms ---

func defineArithFamily(b *opcodeTableBuilder) {
	type arithOp struct {
		mnemonic string
		handler  Handler
	}
	ops := [8]arithOp{
		{"add", handleAdd},
		{"or", handleOr},
		{"adc", handleAdc},
		{"sbb", handleSbb},
		{"and", handleAnd},
		{"sub", handleSub},
		{"xor", handleXor},
		{"cmp", handleCmp},
	}
	for n, op := range ops {
		base := 0x00 + 8*n
		b.defineModRM(base+0, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " Eb,Gb",
			Args: [3]ArgSource{regArg(SzByte), regFieldArg(SzByte)}, GasTier: GasVeryLow})
		b.defineModRM(base+1, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " Ev,Gv",
			Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
		b.defineModRM(base+2, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " Gb,Eb",
			Args: [3]ArgSource{regFieldArg(SzByte), regArg(SzByte)}, GasTier: GasVeryLow})
		b.defineModRM(base+3, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " Gv,Ev",
			Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasVeryLow})
		b.defineSimple(base+4, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " AL,ib",
			Args: [3]ArgSource{hardcodedArg(RegEAX, SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
		b.defineSimple(base+5, Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " eAX,iz",
			Args: [3]ArgSource{hardcodedArg(RegEAX, SzNative), immArg(SzNative)}, GasTier: GasVeryLow})
	}
}

// --- group 80/81/83: immediate arithmetic, reg field selects the op ---

func defineImmediateArithGroups(b *opcodeTableBuilder) {
	handlers := [8]Handler{handleAdd, handleOr, handleAdc, handleSbb, handleAnd, handleSub, handleXor, handleCmp}
	mnems := [8]string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}
	for g := 0; g < 8; g++ {
		b.defineGroup(0x80, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Eb,ib",
			Args: [3]ArgSource{regArg(SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
		b.defineGroup(0x81, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Ev,iz",
			Args: [3]ArgSource{regArg(SzNative), immArg(SzNative)}, GasTier: GasVeryLow})
		b.defineGroup(0x83, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Ev,ib",
			Args: [3]ArgSource{regArg(SzNative), immArg(SzByte)}, GasTier: GasVeryLow})
	}
}

// --- INC/DEC: register-suffix forms and the FE/FF group forms ---

func defineIncDec(b *opcodeTableBuilder) {
	for r := byte(0); r < 8; r++ {
		b.defineSimple(0x40+int(r), Opcode{Handler: handleInc, Mnemonic: "inc r32",
			Args: [3]ArgSource{suffixArg(SzNative)}, GasTier: GasVeryLow})
		b.defineSimple(0x48+int(r), Opcode{Handler: handleDec, Mnemonic: "dec r32",
			Args: [3]ArgSource{suffixArg(SzNative)}, GasTier: GasVeryLow})
	}
	b.defineGroup(0xFE, 0, Opcode{Handler: handleInc, Mnemonic: "inc Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xFE, 1, Opcode{Handler: handleDec, Mnemonic: "dec Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xFF, 0, Opcode{Handler: handleInc, Mnemonic: "inc Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xFF, 1, Opcode{Handler: handleDec, Mnemonic: "dec Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xFF, 2, Opcode{Handler: handleCallAbs, Mnemonic: "call Ev", Behavior: PBUnpredictable,
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasModerate})
	b.defineGroup(0xFF, 4, Opcode{Handler: handleJmpAbs, Mnemonic: "jmp Ev", Behavior: PBUnpredictable,
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasLow})
	b.defineGroup(0xFF, 6, Opcode{Handler: handlePush, Mnemonic: "push Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
}

func handleInc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	dv, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	size := slot.args[0].Size
	a := dv.TruncQword()
	result := a + 1
	cf := vm.Flags.CF
	vm.Flags.setFlagsArith(size, result, a, 1, false)
	vm.Flags.CF = cf // INC/DEC leave CF unchanged (spec.md §4.2 generalization)
	return vm.SetArg(slot.args[0], mkSized(size, result&maxUnsigned(size)))
}

func handleDec(vm *VM, slot *decodedInst, hv Hypervisor) error {
	dv, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	size := slot.args[0].Size
	a := dv.TruncQword()
	result := a - 1
	cf := vm.Flags.CF
	vm.Flags.setFlagsArith(size, result, a, 1, true)
	vm.Flags.CF = cf
	return vm.SetArg(slot.args[0], mkSized(size, result&maxUnsigned(size)))
}

// --- PUSH/POP register-suffix forms and immediate-push forms ---

func definePushPop(b *opcodeTableBuilder) {
	for r := byte(0); r < 8; r++ {
		b.defineSimple(0x50+int(r), Opcode{Handler: handlePush, Mnemonic: "push r32",
			Args: [3]ArgSource{suffixArg(SzNative)}, GasTier: GasVeryLow})
		b.defineSimple(0x58+int(r), Opcode{Handler: handlePop, Mnemonic: "pop r32",
			Args: [3]ArgSource{suffixArg(SzNative)}, GasTier: GasVeryLow})
	}
	b.defineSimple(0x68, Opcode{Handler: handlePush, Mnemonic: "push iz",
		Args: [3]ArgSource{immArg(SzNative)}, GasTier: GasVeryLow})
	b.defineSimple(0x6A, Opcode{Handler: handlePush, Mnemonic: "push ib",
		Args: [3]ArgSource{immArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0x8F, 0, Opcode{Handler: handlePop, Mnemonic: "pop Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
}

// --- MOV family, LEA, MOVZX/MOVSX, BSWAP ---

func defineMovFamily(b *opcodeTableBuilder) {
	b.defineModRM(0x88, Opcode{Handler: handleMov, Mnemonic: "mov Eb,Gb",
		Args: [3]ArgSource{regArg(SzByte), regFieldArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x89, Opcode{Handler: handleMov, Mnemonic: "mov Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineModRM(0x8A, Opcode{Handler: handleMov, Mnemonic: "mov Gb,Eb",
		Args: [3]ArgSource{regFieldArg(SzByte), regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x8B, Opcode{Handler: handleMov, Mnemonic: "mov Gv,Ev",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasVeryLow})
	b.defineModRM(0x8D, Opcode{Handler: handleLea, Mnemonic: "lea Gv,M",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasVeryLow})

	for r := byte(0); r < 8; r++ {
		b.defineSimple(0xB0+int(r), Opcode{Handler: handleMov, Mnemonic: "mov r8,ib",
			Args: [3]ArgSource{suffixArg(SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
		b.defineSimple(0xB8+int(r), Opcode{Handler: handleMov, Mnemonic: "mov r32,iv",
			Args: [3]ArgSource{suffixArg(SzNative), immArg(SzNative)}, GasTier: GasVeryLow})
	}
	b.defineGroup(0xC6, 0, Opcode{Handler: handleMov, Mnemonic: "mov Eb,ib",
		Args: [3]ArgSource{regArg(SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xC7, 0, Opcode{Handler: handleMov, Mnemonic: "mov Ev,iz",
		Args: [3]ArgSource{regArg(SzNative), immArg(SzNative)}, GasTier: GasVeryLow})

	// Direct-address forms: AL/eAX to/from a disp32 absolute address, no
	// Mod R/M byte at all.
	b.defineSimple(0xA0, Opcode{Handler: handleMov, Mnemonic: "mov AL,Ob",
		Args: [3]ArgSource{hardcodedArg(RegEAX, SzByte), addrArg(SzByte)}, GasTier: GasVeryLow})
	b.defineSimple(0xA1, Opcode{Handler: handleMov, Mnemonic: "mov eAX,Ov",
		Args: [3]ArgSource{hardcodedArg(RegEAX, SzNative), addrArg(SzNative)}, GasTier: GasVeryLow})
	b.defineSimple(0xA2, Opcode{Handler: handleMov, Mnemonic: "mov Ob,AL",
		Args: [3]ArgSource{addrArg(SzByte), hardcodedArg(RegEAX, SzByte)}, GasTier: GasVeryLow})
	b.defineSimple(0xA3, Opcode{Handler: handleMov, Mnemonic: "mov Ov,eAX",
		Args: [3]ArgSource{addrArg(SzNative), hardcodedArg(RegEAX, SzNative)}, GasTier: GasVeryLow})

	// 0x0F-prefixed MOVZX/MOVSX: Gv,Eb and Gv,Ew forms.
	b.defineModRM(0x1B6, Opcode{Handler: handleMovzx, Mnemonic: "movzx Gv,Eb",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x1B7, Opcode{Handler: handleMovzx, Mnemonic: "movzx Gv,Ew",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzWord)}, GasTier: GasVeryLow})
	b.defineModRM(0x1BE, Opcode{Handler: handleMovsx, Mnemonic: "movsx Gv,Eb",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x1BF, Opcode{Handler: handleMovsx, Mnemonic: "movsx Gv,Ew",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzWord)}, GasTier: GasVeryLow})

	// 0x0F 0xC8+r: BSWAP r32.
	for r := byte(0); r < 8; r++ {
		b.defineSimple(0x1C8+int(r), Opcode{Handler: handleBswap, Mnemonic: "bswap r32",
			Args: [3]ArgSource{suffixArg(SzDword)}, GasTier: GasVeryLow})
	}
}

// --- TEST and XCHG ---

func defineTestXchg(b *opcodeTableBuilder) {
	b.defineModRM(0x84, Opcode{Handler: handleTest, Mnemonic: "test Eb,Gb",
		Args: [3]ArgSource{regArg(SzByte), regFieldArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x85, Opcode{Handler: handleTest, Mnemonic: "test Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineSimple(0xA8, Opcode{Handler: handleTest, Mnemonic: "test AL,ib",
		Args: [3]ArgSource{hardcodedArg(RegEAX, SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
	b.defineSimple(0xA9, Opcode{Handler: handleTest, Mnemonic: "test eAX,iz",
		Args: [3]ArgSource{hardcodedArg(RegEAX, SzNative), immArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xF6, 0, Opcode{Handler: handleTest, Mnemonic: "test Eb,ib",
		Args: [3]ArgSource{regArg(SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xF6, 1, Opcode{Handler: handleTest, Mnemonic: "test Eb,ib",
		Args: [3]ArgSource{regArg(SzByte), immArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xF7, 0, Opcode{Handler: handleTest, Mnemonic: "test Ev,iz",
		Args: [3]ArgSource{regArg(SzNative), immArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xF7, 1, Opcode{Handler: handleTest, Mnemonic: "test Ev,iz",
		Args: [3]ArgSource{regArg(SzNative), immArg(SzNative)}, GasTier: GasVeryLow})

	b.defineModRM(0x86, Opcode{Handler: handleXchg, Mnemonic: "xchg Eb,Gb",
		Args: [3]ArgSource{regArg(SzByte), regFieldArg(SzByte)}, GasTier: GasVeryLow})
	b.defineModRM(0x87, Opcode{Handler: handleXchg, Mnemonic: "xchg Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineSimple(0x90, Opcode{Handler: handleNop, Mnemonic: "nop", GasTier: GasNone})
	for r := byte(1); r < 8; r++ {
		b.defineSimple(0x90+int(r), Opcode{Handler: handleXchg, Mnemonic: "xchg eAX,r32",
			Args: [3]ArgSource{hardcodedArg(RegEAX, SzNative), suffixArg(SzNative)}, GasTier: GasVeryLow})
	}
}

// --- group C0/C1/D0/D1/D2/D3: shifts and rotates ---

func defineShiftGroups(b *opcodeTableBuilder) {
	handlers := [8]Handler{handleRol, handleRor, handleRcl, handleRcr, handleShl, handleShr, handleShl, handleSar}
	mnems := [8]string{"rol", "ror", "rcl", "rcr", "shl", "shr", "shl", "sar"}
	one := literalArg(ByteValue(1))
	cl := hardcodedArg(RegECX, SzByte)
	for g := 0; g < 8; g++ {
		b.defineGroup(0xC0, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Eb,ib",
			Args: [3]ArgSource{regArg(SzByte), immArg(SzByte)}, GasTier: GasLow})
		b.defineGroup(0xC1, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Ev,ib",
			Args: [3]ArgSource{regArg(SzNative), immArg(SzByte)}, GasTier: GasLow})
		b.defineGroup(0xD0, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Eb,1",
			Args: [3]ArgSource{regArg(SzByte), one}, GasTier: GasLow})
		b.defineGroup(0xD1, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Ev,1",
			Args: [3]ArgSource{regArg(SzNative), one}, GasTier: GasLow})
		b.defineGroup(0xD2, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Eb,CL",
			Args: [3]ArgSource{regArg(SzByte), cl}, GasTier: GasLow})
		b.defineGroup(0xD3, g, Opcode{Handler: handlers[g], Mnemonic: mnems[g] + " Ev,CL",
			Args: [3]ArgSource{regArg(SzNative), cl}, GasTier: GasLow})
	}
}

// --- group F6/F7: NOT/NEG/MUL/IMUL/DIV/IDIV, and the 2/3-operand IMUL forms ---

func defineMulDivGroup(b *opcodeTableBuilder) {
	b.defineGroup(0xF6, 2, Opcode{Handler: handleNot, Mnemonic: "not Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xF6, 3, Opcode{Handler: handleNeg, Mnemonic: "neg Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasVeryLow})
	b.defineGroup(0xF6, 4, Opcode{Handler: handleMul1, Mnemonic: "mul Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasModerate})
	b.defineGroup(0xF6, 5, Opcode{Handler: handleImul1, Mnemonic: "imul Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasModerate})
	b.defineGroup(0xF6, 6, Opcode{Handler: handleDiv, Mnemonic: "div Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasHigh})
	b.defineGroup(0xF6, 7, Opcode{Handler: handleIdiv, Mnemonic: "idiv Eb",
		Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasHigh})

	b.defineGroup(0xF7, 2, Opcode{Handler: handleNot, Mnemonic: "not Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xF7, 3, Opcode{Handler: handleNeg, Mnemonic: "neg Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasVeryLow})
	b.defineGroup(0xF7, 4, Opcode{Handler: handleMul1, Mnemonic: "mul Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasModerate})
	b.defineGroup(0xF7, 5, Opcode{Handler: handleImul1, Mnemonic: "imul Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasModerate})
	b.defineGroup(0xF7, 6, Opcode{Handler: handleDiv, Mnemonic: "div Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasHigh})
	b.defineGroup(0xF7, 7, Opcode{Handler: handleIdiv, Mnemonic: "idiv Ev",
		Args: [3]ArgSource{regArg(SzNative)}, GasTier: GasHigh})

	// Two-byte 0x0F 0xAF: IMUL Gv,Ev (2-operand form, dst *= src).
	b.defineModRM(0x1AF, Opcode{Handler: handleImulN, Mnemonic: "imul Gv,Ev",
		Args: [3]ArgSource{regFieldArg(SzNative), regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasModerate})
	// 0x69: IMUL Gv,Ev,Iz (3-operand form). 0x6B: IMUL Gv,Ev,Ib.
	b.defineModRM(0x69, Opcode{Handler: handleImulN, Mnemonic: "imul Gv,Ev,Iz",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative), immArg(SzNative)}, GasTier: GasModerate})
	b.defineModRM(0x6B, Opcode{Handler: handleImulN, Mnemonic: "imul Gv,Ev,Ib",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative), immArg(SzByte)}, GasTier: GasModerate})
}

// --- branches: Jcc short/near, JMP rel8/rel32, JCXZ, CALL/RET ---

func defineBranches(b *opcodeTableBuilder) {
	for cc := 0; cc < 16; cc++ {
		b.defineSimple(0x70+cc, Opcode{Handler: handleJcc, Mnemonic: "jcc rel8", Behavior: PBUnpredictable,
			Args: [3]ArgSource{jumpRelArg(SzByte)}, GasTier: GasConditionalBranch})
		b.defineSimple(0x180+cc, Opcode{Handler: handleJcc, Mnemonic: "jcc rel32", Behavior: PBUnpredictable,
			Args: [3]ArgSource{jumpRelArg(SzDword)}, GasTier: GasConditionalBranch})
	}
	b.defineSimple(0xE3, Opcode{Handler: handleJcxz, Mnemonic: "jcxz rel8", Behavior: PBUnpredictable,
		Args: [3]ArgSource{jumpRelArg(SzByte)}, GasTier: GasConditionalBranch})

	b.defineSimple(0xEB, Opcode{Handler: handleJmpRel, Mnemonic: "jmp rel8", Behavior: PBRelativeJump,
		Args: [3]ArgSource{jumpRelArg(SzByte)}, GasTier: GasVeryLow})
	b.defineSimple(0xE9, Opcode{Handler: handleJmpRel, Mnemonic: "jmp rel32", Behavior: PBRelativeJump,
		Args: [3]ArgSource{jumpRelArg(SzNative)}, GasTier: GasVeryLow})

	b.defineSimple(0xE8, Opcode{Handler: handleCallRel, Mnemonic: "call rel32", Behavior: PBRelativeJump,
		Args: [3]ArgSource{jumpRelArg(SzNative)}, GasTier: GasModerate})

	b.defineSimple(0xC3, Opcode{Handler: handleRet, Mnemonic: "ret", Behavior: PBUnpredictable,
		Args: [3]ArgSource{literalArg(WordValue(0))}, GasTier: GasLow})
	b.defineSimple(0xC2, Opcode{Handler: handleRet, Mnemonic: "ret iw", Behavior: PBUnpredictable,
		Args: [3]ArgSource{immArg(SzWord)}, GasTier: GasLow})
}

// --- misc: NOP, HLT, INT3, INT imm8 ---

func defineMisc(b *opcodeTableBuilder) {
	b.defineSimple(0xF4, Opcode{Handler: handleHlt, Mnemonic: "hlt", GasTier: GasNone})
	b.defineSimple(0xCC, Opcode{Handler: handleInt3, Mnemonic: "int3",
		GasTier: GasHigh, Behavior: PBUnpredictableNoGas})
	b.defineSimple(0xCD, Opcode{Handler: handleInt, Mnemonic: "int ib",
		Args: [3]ArgSource{immArg(SzByte)}, GasTier: GasHigh, Behavior: PBUnpredictableNoGas})
}

// --- bit test family and BSF/BSR (0x0F-prefixed) ---

func defineBitops(b *opcodeTableBuilder) {
	b.defineModRM(0x1A3, Opcode{Handler: handleBt, Mnemonic: "bt Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineModRM(0x1AB, Opcode{Handler: handleBts, Mnemonic: "bts Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineModRM(0x1B3, Opcode{Handler: handleBtr, Mnemonic: "btr Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})
	b.defineModRM(0x1BB, Opcode{Handler: handleBtc, Mnemonic: "btc Ev,Gv",
		Args: [3]ArgSource{regArg(SzNative), regFieldArg(SzNative)}, GasTier: GasVeryLow})

	bitImmHandlers := [4]Handler{handleBt, handleBts, handleBtr, handleBtc}
	bitImmMnems := [4]string{"bt", "bts", "btr", "btc"}
	for i, h := range bitImmHandlers {
		b.defineGroup(0x1BA, 4+i, Opcode{Handler: h, Mnemonic: bitImmMnems[i] + " Ev,ib",
			Args: [3]ArgSource{regArg(SzNative), immArg(SzByte)}, GasTier: GasVeryLow})
	}

	b.defineModRM(0x1BC, Opcode{Handler: handleBsf, Mnemonic: "bsf Gv,Ev",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasLow})
	b.defineModRM(0x1BD, Opcode{Handler: handleBsr, Mnemonic: "bsr Gv,Ev",
		Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasLow})
}

// --- string operations: MOVS/CMPS/STOS/LODS/SCAS, byte and native-word forms ---

func defineStringOps(b *opcodeTableBuilder) {
	type strOp struct {
		byteOp, nativeOp byte
		handler          Handler
		mnemonic         string
	}
	ops := []strOp{
		{0xA4, 0xA5, handleMovsStep, "movs"},
		{0xA6, 0xA7, handleCmpsStep, "cmps"},
		{0xAA, 0xAB, handleStosStep, "stos"},
		{0xAC, 0xAD, handleLodsStep, "lods"},
		{0xAE, 0xAF, handleScasStep, "scas"},
	}
	for _, op := range ops {
		b.defineSimple(int(op.byteOp), Opcode{Handler: op.handler, Mnemonic: op.mnemonic + "b", GasTier: GasLow})
		b.markStringOp(int(op.byteOp))
		b.defineSimple(int(op.nativeOp), Opcode{Handler: op.handler, Mnemonic: op.mnemonic + " (native)", GasTier: GasLow})
		b.markStringOp(int(op.nativeOp))
	}
}

// --- SETcc and CMOVcc (0x0F-prefixed) ---

func defineSetccCmovcc(b *opcodeTableBuilder) {
	for cc := 0; cc < 16; cc++ {
		b.defineModRM(0x190+cc, Opcode{Handler: handleSetcc, Mnemonic: "setcc Eb",
			Args: [3]ArgSource{regArg(SzByte)}, GasTier: GasVeryLow})
		b.defineModRM(0x140+cc, Opcode{Handler: handleCmovcc, Mnemonic: "cmovcc Gv,Ev",
			Args: [3]ArgSource{regFieldArg(SzNative), regArg(SzNative)}, GasTier: GasVeryLow})
	}
}
