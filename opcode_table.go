// opcode_table.go - the static dense opcode table and its builder
//
// Grounded on cpu_x86.go's initBaseOps/initExtendedOps, which build two
// 256-entry `[256]func(*CPU_X86)` arrays at construction time. qx86
// generalizes the teacher's one-dimensional, one-byte-opcode array into the
// spec's two-dimensional 512x8 table (primary and two-byte opcode spaces,
// each with an 8-way Mod R/M reg-group dimension), since this subset needs
// group opcodes (/0../7) and 0x0F-prefixed opcodes the teacher's flat
// array doesn't distinguish.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

import "fmt"

// ArgSourceKind tags how one of an opcode's up-to-three arguments is
// decoded, per spec.md §4.4 step 7.
type ArgSourceKind int

const (
	ArgSrcNone ArgSourceKind = iota
	ArgSrcModRM
	ArgSrcModRMReg
	ArgSrcImmediateValue
	ArgSrcJumpRel
	ArgSrcImmediateAddress
	ArgSrcRegisterSuffix
	ArgSrcLiteral
	ArgSrcHardcodedRegister
)

// ArgSize tags how an argument's ValueSize is resolved at decode time.
type ArgSize int

const (
	SzNone ArgSize = iota
	SzByte
	SzWord
	SzDword
	SzNative // NativeWord: Dword, or Word if size_override
)

// ArgSource is one declared argument slot in an Opcode's arg_source[3].
type ArgSource struct {
	Kind ArgSourceKind
	Size ArgSize
	Lit  SizedValue // ArgSrcLiteral
	Reg  byte        // ArgSrcHardcodedRegister
}

// PipelineBehavior tags how fill_pipeline should treat a slot, per
// spec.md §4.5/§4.6.
type PipelineBehavior int

const (
	PBNone PipelineBehavior = iota
	PBRelativeJump
	PBUnpredictable
	PBUnpredictableNoGas
)

// Handler executes one decoded instruction.
type Handler func(vm *VM, slot *decodedInst, hv Hypervisor) error

// Opcode is one fully defined opcode (or one group sub-opcode).
type Opcode struct {
	Defined  bool
	Handler  Handler
	Args     [3]ArgSource
	GasTier  GasTier
	Behavior PipelineBehavior
	Mnemonic string // disassembly / debugging only
}

// OpcodeProperties is one cell of the 512-entry extended-opcode table.
type OpcodeProperties struct {
	Defined    bool
	HasModRM   bool
	IsGroup    bool
	StringOp   bool // accepts REP/REPE/REPNE prefixes
	SubOpcodes [8]Opcode
}

const opcodeTableSize = 0x200

// OpcodeTable is the dense, immutable-after-construction opcode map.
type OpcodeTable struct {
	entries [opcodeTableSize]OpcodeProperties
}

// opcodeTableBuilder accumulates definitions and rejects double-definition
// of the same (extended-opcode, group-index) cell, per spec.md §4.5.
type opcodeTableBuilder struct {
	table OpcodeTable
}

func newOpcodeTableBuilder() *opcodeTableBuilder {
	return &opcodeTableBuilder{}
}

// defineSimple registers a non-Mod R/M opcode (no group dimension).
func (b *opcodeTableBuilder) defineSimple(extOpcode int, op Opcode) {
	p := &b.table.entries[extOpcode]
	if p.Defined {
		panic(fmt.Sprintf("opcode table: double definition of extended opcode 0x%03X", extOpcode))
	}
	p.Defined = true
	p.HasModRM = false
	op.Defined = true
	for i := range p.SubOpcodes {
		p.SubOpcodes[i] = op
	}
}

// defineModRM registers a non-group Mod R/M opcode: the single definition
// replicates into all 8 sub-entries (spec.md §4.5).
func (b *opcodeTableBuilder) defineModRM(extOpcode int, op Opcode) {
	p := &b.table.entries[extOpcode]
	if p.Defined && !p.IsGroup {
		// Re-defining the same plain ModRM opcode (e.g. via a helper called
		// twice) is still a bug - reject it like any other double-definition.
		panic(fmt.Sprintf("opcode table: double definition of extended opcode 0x%03X", extOpcode))
	}
	p.Defined = true
	p.HasModRM = true
	op.Defined = true
	for i := range p.SubOpcodes {
		p.SubOpcodes[i] = op
	}
}

// defineGroup registers one /n sub-opcode of a group opcode.
func (b *opcodeTableBuilder) defineGroup(extOpcode int, group int, op Opcode) {
	p := &b.table.entries[extOpcode]
	if p.Defined && p.SubOpcodes[group].Defined {
		panic(fmt.Sprintf("opcode table: double definition of extended opcode 0x%03X /%d", extOpcode, group))
	}
	p.Defined = true
	p.HasModRM = true
	p.IsGroup = true
	op.Defined = true
	p.SubOpcodes[group] = op
}

// markStringOp flags an extended opcode as accepting REP/REPE/REPNE.
func (b *opcodeTableBuilder) markStringOp(extOpcode int) {
	b.table.entries[extOpcode].StringOp = true
}

func (b *opcodeTableBuilder) build() *OpcodeTable {
	t := b.table
	return &t
}

func (t *OpcodeTable) lookup(extOpcode int) *OpcodeProperties {
	if extOpcode < 0 || extOpcode >= opcodeTableSize {
		return nil
	}
	return &t.entries[extOpcode]
}
