// handlers_logic.go - AND/OR/XOR/TEST/NOT/NEG
//
// Grounded on cpu_x86.go's opAND_*/opOR_*/opXOR_*/opTEST_*/opNOT_*/opNEG_*
// families, collapsed the same way as handlers_arith.go: one width-agnostic
// handler per logical operator instead of one per encoding.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

func (vm *VM) logicOp(dst, src ArgLocation, op func(a, b uint64) uint64, discard bool) error {
	dv, err := vm.GetArg(dst)
	if err != nil {
		return err
	}
	sv, err := vm.GetArg(src)
	if err != nil {
		return err
	}
	size := dst.Size
	svConv, err := sv.ConvertSizeZx(size)
	if err != nil {
		return err
	}
	result := op(dv.TruncQword(), svConv.TruncQword())
	vm.Flags.setFlagsLogic(size, result)
	if discard {
		return nil
	}
	return vm.SetArg(dst, mkSized(size, result&maxUnsigned(size)))
}

func handleAnd(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.logicOp(slot.args[0], slot.args[1], func(a, b uint64) uint64 { return a & b }, false)
}
func handleOr(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.logicOp(slot.args[0], slot.args[1], func(a, b uint64) uint64 { return a | b }, false)
}
func handleXor(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.logicOp(slot.args[0], slot.args[1], func(a, b uint64) uint64 { return a ^ b }, false)
}
func handleTest(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.logicOp(slot.args[0], slot.args[1], func(a, b uint64) uint64 { return a & b }, true)
}

// handleNot complements the destination in place; flags are unaffected
// (spec.md §4.8).
func handleNot(vm *VM, slot *decodedInst, hv Hypervisor) error {
	dv, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	size := slot.args[0].Size
	result := ^dv.TruncQword() & maxUnsigned(size)
	return vm.SetArg(slot.args[0], mkSized(size, result))
}

// handleNeg sets CF iff the operand was non-zero and updates SF/ZF/PF/OF,
// per spec.md §4.2/§4.8.
func handleNeg(vm *VM, slot *decodedInst, hv Hypervisor) error {
	dv, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	size := slot.args[0].Size
	a := dv.TruncQword()
	result := (uint64(0) - a)
	vm.Flags.setFlagsArith(size, result, 0, a, true)
	vm.Flags.CF = a != 0
	return vm.SetArg(slot.args[0], mkSized(size, result&maxUnsigned(size)))
}
