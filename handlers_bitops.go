// handlers_bitops.go - BT/BTS/BTR/BTC, BSF/BSR
//
// Grounded on cpu_x86_grp.go's BT-family and BSF/BSR handlers; qx86 keeps
// the teacher's "test bit, then optionally mutate" shape in one shared
// helper rather than four independent copy-pasted functions.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

type bitMutate int

const (
	bitTestOnly bitMutate = iota
	bitSet
	bitReset
	bitComplement
)

// btOp tests bit (n mod width) of dst, sets CF to it, then applies mutate.
func (vm *VM) btOp(dst, nLoc ArgLocation, mutate bitMutate) error {
	dv, err := vm.GetArg(dst)
	if err != nil {
		return err
	}
	nv, err := vm.GetArg(nLoc)
	if err != nil {
		return err
	}
	size := dst.Size
	bits := uint64(widthBits(size))
	n := nv.TruncQword() % bits

	v := dv.TruncQword()
	bit := (v >> n) & 1
	vm.Flags.CF = bit != 0

	if mutate == bitTestOnly {
		return nil
	}
	var result uint64
	switch mutate {
	case bitSet:
		result = v | (uint64(1) << n)
	case bitReset:
		result = v &^ (uint64(1) << n)
	case bitComplement:
		result = v ^ (uint64(1) << n)
	}
	return vm.SetArg(dst, mkSized(size, result&maxUnsigned(size)))
}

func handleBt(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.btOp(slot.args[0], slot.args[1], bitTestOnly)
}
func handleBts(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.btOp(slot.args[0], slot.args[1], bitSet)
}
func handleBtr(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.btOp(slot.args[0], slot.args[1], bitReset)
}
func handleBtc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.btOp(slot.args[0], slot.args[1], bitComplement)
}

// handleBsf stores the index of the lowest set bit; sets ZF if the operand
// is 0 (destination left unchanged in that case), per spec.md §4.8.
func handleBsf(vm *VM, slot *decodedInst, hv Hypervisor) error {
	src, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	size := slot.args[1].Size
	v := src.TruncQword() & maxUnsigned(size)
	if v == 0 {
		vm.Flags.ZF = true
		return nil
	}
	vm.Flags.ZF = false
	idx := 0
	for (v>>uint(idx))&1 == 0 {
		idx++
	}
	return vm.SetArg(slot.args[0], mkSized(slot.args[0].Size, uint64(idx)))
}

// handleBsr stores the index of the highest set bit.
func handleBsr(vm *VM, slot *decodedInst, hv Hypervisor) error {
	src, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	size := slot.args[1].Size
	v := src.TruncQword() & maxUnsigned(size)
	if v == 0 {
		vm.Flags.ZF = true
		return nil
	}
	vm.Flags.ZF = false
	idx := int(widthBits(size)) - 1
	for (v>>uint(idx))&1 == 0 {
		idx--
	}
	return vm.SetArg(slot.args[0], mkSized(slot.args[0].Size, uint64(idx)))
}
