// handlers_arith.go - ADD/ADC/SUB/SBB/CMP
//
// Grounded on cpu_x86.go's opADD_*/opSUB_*/opCMP_* families and
// setFlagsArith8/16/32; qx86 collapses the teacher's per-width, per-
// encoding handler explosion into one width-agnostic arithOp, since
// ArgLocation already carries the operand width.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// arithOp implements ADD (sub=false, useCarry=false), ADC (sub=false,
// useCarry=true), SUB/CMP (sub=true, useCarry=false) and SBB (sub=true,
// useCarry=true). Immediates narrower than the destination are
// sign-extended before operating (spec.md §4.8). discard suppresses the
// destination write (CMP).
func (vm *VM) arithOp(dst, src ArgLocation, sub, useCarry, discard bool) error {
	dv, err := vm.GetArg(dst)
	if err != nil {
		return err
	}
	sv, err := vm.GetArg(src)
	if err != nil {
		return err
	}
	size := dst.Size
	svConv, err := sv.ConvertSizeSx(size)
	if err != nil {
		return err
	}

	a := dv.TruncQword()
	b := svConv.TruncQword()

	carry := uint64(0)
	if useCarry && vm.Flags.CF {
		carry = 1
	}

	var result uint64
	if sub {
		result = a - b - carry
	} else {
		result = a + b + carry
	}
	vm.Flags.setFlagsArith(size, result, a, b, sub)

	if discard {
		return nil
	}
	return vm.SetArg(dst, mkSized(size, result&maxUnsigned(size)))
}

func mkSized(size ValueSize, raw uint64) SizedValue {
	switch size {
	case SizeByte:
		return ByteValue(uint8(raw))
	case SizeWord:
		return WordValue(uint16(raw))
	case SizeDword:
		return DwordValue(uint32(raw))
	case SizeQword:
		return QwordValue(raw)
	default:
		return NoneValue
	}
}

func handleAdd(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.arithOp(slot.args[0], slot.args[1], false, false, false)
}
func handleAdc(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.arithOp(slot.args[0], slot.args[1], false, true, false)
}
func handleSub(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.arithOp(slot.args[0], slot.args[1], true, false, false)
}
func handleSbb(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.arithOp(slot.args[0], slot.args[1], true, true, false)
}
func handleCmp(vm *VM, slot *decodedInst, hv Hypervisor) error {
	return vm.arithOp(slot.args[0], slot.args[1], true, false, true)
}
