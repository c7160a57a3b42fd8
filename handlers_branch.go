// handlers_branch.go - JMP, JCC, JCXZ/JECXZ, CALL, RET
//
// Grounded on cpu_x86.go's opJMP_*/opCALL_*/opRET family in idiom, and
// precisely on original_source/src/ops.rs's jmp_rel/jmp_abs/jcc/call_rel
// in mechanism: every handler that redirects control flow sets EIP to
// `target - slot.length`, because the dispatcher unconditionally advances
// EIP by slot.length after a handler returns success (spec.md §4.7) - the
// handler's EIP write must already anticipate that advance.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

func maskIf16(v uint32, sizeOverride bool) uint32 {
	if sizeOverride {
		return v & 0xFFFF
	}
	return v
}

// jmpRel adds the sign-extended relative immediate in args[0] to the
// post-instruction EIP, then subtracts slot.length back out.
func jmpRel(vm *VM, slot *decodedInst) error {
	imm, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	rel, err := imm.ConvertSizeSx(SizeDword)
	if err != nil {
		return err
	}
	d, _ := rel.ExactDword()
	futureEIP := vm.EIP + uint32(slot.length)
	target := futureEIP + d
	vm.EIP = maskIf16(target, slot.sizeOverride) - uint32(slot.length)
	return nil
}

func handleJmpRel(vm *VM, slot *decodedInst, hv Hypervisor) error { return jmpRel(vm, slot) }

// handleJmpAbs takes the operand value as the new EIP.
func handleJmpAbs(vm *VM, slot *decodedInst, hv Hypervisor) error {
	v, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	zx, err := v.ConvertSizeZx(SizeDword)
	if err != nil {
		return err
	}
	target, _ := zx.ExactDword()
	vm.EIP = maskIf16(target, slot.sizeOverride) - uint32(slot.length)
	return nil
}

func handleJcc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	if conditionHolds(slot.opcodeByte, vm.Flags) {
		return jmpRel(vm, slot)
	}
	return nil
}

// handleJcxz branches if ECX is 0 (CX if size_override), per spec.md §4.8.
func handleJcxz(vm *VM, slot *decodedInst, hv Hypervisor) error {
	var zero bool
	if slot.sizeOverride {
		zero = vm.GetReg16(RegECX) == 0
	} else {
		zero = vm.GetReg32(RegECX) == 0
	}
	if zero {
		return jmpRel(vm, slot)
	}
	return nil
}

// handleCallRel pushes the return EIP then jumps by a relative immediate.
func handleCallRel(vm *VM, slot *decodedInst, hv Hypervisor) error {
	retAddr := vm.EIP + uint32(slot.length)
	if err := vm.pushValue(DwordValue(retAddr)); err != nil {
		return err
	}
	return jmpRel(vm, slot)
}

// handleCallAbs pushes the return EIP then jumps to the operand value.
func handleCallAbs(vm *VM, slot *decodedInst, hv Hypervisor) error {
	retAddr := vm.EIP + uint32(slot.length)
	if err := vm.pushValue(DwordValue(retAddr)); err != nil {
		return err
	}
	return handleJmpAbs(vm, slot, hv)
}

// handleRet pops the return EIP and optionally adjusts ESP by imm16.
func handleRet(vm *VM, slot *decodedInst, hv Hypervisor) error {
	stackClear, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	clearZx, err := stackClear.ConvertSizeZx(SizeWord)
	if err != nil {
		return err
	}
	clear, _ := clearZx.ExactWord()

	size := SizeDword
	if slot.sizeOverride {
		size = SizeWord
	}
	ret, err := vm.popValue(size)
	if err != nil {
		return err
	}
	retZx, err := ret.ConvertSizeZx(SizeDword)
	if err != nil {
		return err
	}
	target, _ := retZx.ExactDword()
	vm.EIP = maskIf16(target, slot.sizeOverride) - uint32(slot.length)
	if clear != 0 {
		vm.SetReg32(RegESP, vm.GetReg32(RegESP)+uint32(clear))
	}
	return nil
}
