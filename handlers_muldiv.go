// handlers_muldiv.go - MUL/IMUL/DIV/IDIV
//
// Grounded on cpu_x86_grp.go's groupF6/groupF7 MUL/IMUL/DIV/IDIV cases
// and cpu_x86_ops.go's IMUL two/three-operand forms; qx86 keeps the
// teacher's split between the 1-operand (AX/DX:AX/EDX:EAX-implicit) forms
// and the 2/3-operand IMUL forms, generalized across width via ValueSize.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// handleMul1 implements the one-operand unsigned MUL: 8x8->AX, 16x16->DX:AX,
// 32x32->EDX:EAX. CF=OF=1 iff the upper half is non-zero (spec.md §4.8).
func handleMul1(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	src, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	a := vm.GetReg(RegEAX, size).TruncQword()
	b := src.TruncQword()
	product := a * b

	switch size {
	case SizeByte:
		vm.SetReg16(RegEAX, uint16(product))
		vm.Flags.CF = product>>8 != 0
	case SizeWord:
		vm.SetReg16(RegEAX, uint16(product))
		vm.SetReg16(RegEDX, uint16(product>>16))
		vm.Flags.CF = product>>16 != 0
	case SizeDword:
		vm.SetReg32(RegEAX, uint32(product))
		vm.SetReg32(RegEDX, uint32(product>>32))
		vm.Flags.CF = product>>32 != 0
	}
	vm.Flags.OF = vm.Flags.CF
	return nil
}

// handleImul1 implements the one-operand signed IMUL, same destination
// layout as MUL.
func handleImul1(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	src, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	a := signExtendToInt64(vm.GetReg(RegEAX, size).TruncQword(), size)
	b := signExtendToInt64(src.TruncQword(), size)
	product := a * b

	switch size {
	case SizeByte:
		vm.SetReg16(RegEAX, uint16(product))
		fits := product >= -128 && product <= 127
		vm.Flags.CF = !fits
	case SizeWord:
		vm.SetReg16(RegEAX, uint16(product))
		vm.SetReg16(RegEDX, uint16(product>>16))
		fits := product >= -32768 && product <= 32767
		vm.Flags.CF = !fits
	case SizeDword:
		vm.SetReg32(RegEAX, uint32(product))
		vm.SetReg32(RegEDX, uint32(product>>32))
		fits := product >= -2147483648 && product <= 2147483647
		vm.Flags.CF = !fits
	}
	vm.Flags.OF = vm.Flags.CF
	return nil
}

// handleImulN implements the 2- and 3-operand IMUL forms: destination
// register only, CF=OF=1 iff the full signed product overflows the
// destination width (spec.md §4.8).
func handleImulN(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	x, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	y, err := vm.GetArg(slot.args[2])
	if err != nil {
		return err
	}
	ySx, err := y.ConvertSizeSx(size)
	if err != nil {
		return err
	}
	a := signExtendToInt64(x.TruncQword(), size)
	b := signExtendToInt64(ySx.TruncQword(), size)
	product := a * b

	var fits bool
	switch size {
	case SizeByte:
		fits = product >= -128 && product <= 127
	case SizeWord:
		fits = product >= -32768 && product <= 32767
	case SizeDword:
		fits = product >= -2147483648 && product <= 2147483647
	}
	vm.Flags.CF = !fits
	vm.Flags.OF = !fits
	return vm.SetArg(slot.args[0], mkSized(size, uint64(product)&maxUnsigned(size)))
}

// handleDiv implements unsigned DIV: {AX|DX:AX|EDX:EAX} / operand, quotient
// to {AL|AX|EAX}, remainder to {AH|DX|EDX}. Flags are left unchanged
// (architecturally undefined), per spec.md §4.8.
func handleDiv(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	divisor, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	d := divisor.TruncQword()
	if d == 0 {
		return &DivideByZeroError{}
	}

	var dividend uint64
	switch size {
	case SizeByte:
		dividend = uint64(vm.GetReg16(RegEAX))
	case SizeWord:
		dividend = uint64(vm.GetReg16(RegEDX))<<16 | uint64(vm.GetReg16(RegEAX))
	case SizeDword:
		dividend = uint64(vm.GetReg32(RegEDX))<<32 | uint64(vm.GetReg32(RegEAX))
	}
	q := dividend / d
	r := dividend % d

	switch size {
	case SizeByte:
		if q > 0xFF {
			return &DivideByZeroError{}
		}
		vm.SetReg8(RegEAX, byte(q))
		vm.SetReg8(RegEAX|4, byte(r))
	case SizeWord:
		if q > 0xFFFF {
			return &DivideByZeroError{}
		}
		vm.SetReg16(RegEAX, uint16(q))
		vm.SetReg16(RegEDX, uint16(r))
	case SizeDword:
		if q > 0xFFFFFFFF {
			return &DivideByZeroError{}
		}
		vm.SetReg32(RegEAX, uint32(q))
		vm.SetReg32(RegEDX, uint32(r))
	}
	return nil
}

// handleIdiv implements signed IDIV with the Intel-documented quotient
// bound (spec.md §9 open question): the quotient must fit in the signed
// range of the destination width, not merely be below an unsigned max.
func handleIdiv(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := slot.args[0].Size
	divisor, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	d := signExtendToInt64(divisor.TruncQword(), size)
	if d == 0 {
		return &DivideByZeroError{}
	}

	var dividend int64
	switch size {
	case SizeByte:
		dividend = int64(int16(vm.GetReg16(RegEAX)))
	case SizeWord:
		dividend = int64(int32(uint32(vm.GetReg16(RegEDX))<<16 | uint32(vm.GetReg16(RegEAX))))
	case SizeDword:
		dividend = int64(int64(uint64(vm.GetReg32(RegEDX))<<32 | uint64(vm.GetReg32(RegEAX))))
	}
	q := dividend / d
	r := dividend % d

	switch size {
	case SizeByte:
		if q < -128 || q > 127 {
			return &DivideByZeroError{}
		}
		vm.SetReg8(RegEAX, byte(int8(q)))
		vm.SetReg8(RegEAX|4, byte(int8(r)))
	case SizeWord:
		if q < -32768 || q > 32767 {
			return &DivideByZeroError{}
		}
		vm.SetReg16(RegEAX, uint16(int16(q)))
		vm.SetReg16(RegEDX, uint16(int16(r)))
	case SizeDword:
		if q < -2147483648 || q > 2147483647 {
			return &DivideByZeroError{}
		}
		vm.SetReg32(RegEAX, uint32(int32(q)))
		vm.SetReg32(RegEDX, uint32(int32(r)))
	}
	return nil
}
