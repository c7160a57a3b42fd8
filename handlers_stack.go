// handlers_stack.go - PUSH/POP
//
// Grounded on cpu_x86.go's push32/pop32 helpers; qx86 keeps their two-step
// shape (compute address, then move ESP) but preserves the documented
// POP ESP edge case the teacher does not need to special-case (its ESP is
// never itself a POP destination in the subset it implements).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// pushValue writes v at [ESP-size(v)] then decrements ESP by that size,
// per spec.md §4.8.
func (vm *VM) pushValue(v SizedValue) error {
	size := v.Size()
	n := uint32(size.Bytes())
	addr := vm.GetReg32(RegESP) - n
	if err := vm.Memory.SetSizedValue(addr, v); err != nil {
		return err
	}
	vm.SetReg32(RegESP, addr)
	return nil
}

// popValue reads [ESP] then increments ESP by size. It does not write a
// destination; the caller does that afterwards, so a destination address
// built from ESP sees the already-incremented value (Intel's documented
// POP ESP edge case, spec.md §4.8).
func (vm *VM) popValue(size ValueSize) (SizedValue, error) {
	addr := vm.GetReg32(RegESP)
	v, err := vm.Memory.GetSizedValue(addr, size)
	if err != nil {
		return NoneValue, err
	}
	vm.SetReg32(RegESP, addr+uint32(size.Bytes()))
	return v, nil
}

func handlePush(vm *VM, slot *decodedInst, hv Hypervisor) error {
	v, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	return vm.pushValue(v)
}

func handlePop(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	v, err := vm.popValue(size)
	if err != nil {
		return err
	}
	// vm.SetArg computes a memory destination's address (e.g. `pop [esp]`)
	// from the current registers, so it uses the post-increment ESP; for
	// `pop esp` the popped value simply replaces ESP.
	return vm.SetArg(slot.args[0], v)
}
