// handlers_misc.go - NOP, HLT, INT/INT3, SETcc, CMOVcc and the condition
// predicate table shared with the Jcc branch handlers.
//
// Grounded on cpu_x86.go's opNOP/opHLT/opINT3/handleInterrupt and
// debug_disasm_x86.go's condition-name table, which this file turns into
// a single conditionHolds(cc, flags) predicate reused by Jcc/SETcc/CMOVcc
// instead of the teacher's three separate per-family switch statements.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

func handleNop(vm *VM, slot *decodedInst, hv Hypervisor) error { return nil }

func handleHlt(vm *VM, slot *decodedInst, hv Hypervisor) error { return &errInternalVMStop{} }

func handleInt3(vm *VM, slot *decodedInst, hv Hypervisor) error {
	if err := hv.Interrupt(vm, 3); err != nil {
		return &SyscallError{Err: err}
	}
	return nil
}

func handleInt(vm *VM, slot *decodedInst, hv Hypervisor) error {
	num, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	n, err := num.ExactByte()
	if err != nil {
		return err
	}
	if err := hv.Interrupt(vm, n); err != nil {
		return &SyscallError{Err: err}
	}
	return nil
}

// conditionHolds evaluates condition code cc (0x0-0xF, matching the low
// nibble of the Jcc/SETcc/CMOVcc primary opcode) against flags, per the
// Intel cc mapping named in spec.md §4.8.
func conditionHolds(cc byte, f Flags) bool {
	switch cc & 0xF {
	case 0x0: // O
		return f.OF
	case 0x1: // NO
		return !f.OF
	case 0x2: // B/C
		return f.CF
	case 0x3: // AE/NC
		return !f.CF
	case 0x4: // E/Z
		return f.ZF
	case 0x5: // NE/NZ
		return !f.ZF
	case 0x6: // BE
		return f.CF || f.ZF
	case 0x7: // A
		return !f.CF && !f.ZF
	case 0x8: // S
		return f.SF
	case 0x9: // NS
		return !f.SF
	case 0xA: // P
		return f.PF
	case 0xB: // NP
		return !f.PF
	case 0xC: // L
		return f.SF != f.OF
	case 0xD: // GE
		return f.SF == f.OF
	case 0xE: // LE
		return f.ZF || f.SF != f.OF
	case 0xF: // G
		return !f.ZF && f.SF == f.OF
	}
	return false
}

// handleSetcc writes 1 or 0 to an 8-bit destination based on condition
// opcodeByte&0xF (spec.md §4.8).
func handleSetcc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	var v byte
	if conditionHolds(slot.opcodeByte, vm.Flags) {
		v = 1
	}
	return vm.SetArg(slot.args[0], ByteValue(v))
}

// handleCmovcc moves if the condition holds; otherwise leaves the
// destination unchanged (spec.md §4.8).
func handleCmovcc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	if !conditionHolds(slot.opcodeByte, vm.Flags) {
		return nil
	}
	src, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	return vm.SetArg(slot.args[0], src)
}
