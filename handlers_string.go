// handlers_string.go - MOVS/CMPS/SCAS/LODS/STOS and the REP/REPE/REPNE wrapper
//
// Grounded on cpu_x86_ops.go's opCMPSB/opCMPSW-style REP loops (fixed-size
// direct register access, not ArgLocation-mediated, since these opcodes
// hardcode ESI/EDI/EAX rather than decoding a Mod R/M operand) and on
// original_source's documented open question that the REPE/REPNE wrapper
// must re-check ZF after every inner step rather than once up front.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// stringStepSize resolves the byte-vs-native-word form of a string
// opcode: A4/A6/AA/AC/AE are fixed Byte forms, A5/A7/AB/AD/AF are
// NativeWord forms (spec.md §4.8).
func stringStepSize(opcodeByte byte, sizeOverride bool) ValueSize {
	if opcodeByte&1 == 0 {
		return SizeByte
	}
	if sizeOverride {
		return SizeWord
	}
	return SizeDword
}

func ptrDelta(size ValueSize, df bool) uint32 {
	n := uint32(size.Bytes())
	if df {
		return ^n + 1 // -n, wrapping
	}
	return n
}

func handleMovsStep(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := stringStepSize(slot.opcodeByte, slot.sizeOverride)
	v, err := vm.Memory.GetSizedValue(vm.GetReg32(RegESI), size)
	if err != nil {
		return err
	}
	if err := vm.Memory.SetSizedValue(vm.GetReg32(RegEDI), v); err != nil {
		return err
	}
	d := ptrDelta(size, vm.Flags.DF)
	vm.SetReg32(RegESI, vm.GetReg32(RegESI)+d)
	vm.SetReg32(RegEDI, vm.GetReg32(RegEDI)+d)
	return nil
}

func handleCmpsStep(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := stringStepSize(slot.opcodeByte, slot.sizeOverride)
	a, err := vm.Memory.GetSizedValue(vm.GetReg32(RegESI), size)
	if err != nil {
		return err
	}
	b, err := vm.Memory.GetSizedValue(vm.GetReg32(RegEDI), size)
	if err != nil {
		return err
	}
	av, bv := a.TruncQword(), b.TruncQword()
	vm.Flags.setFlagsArith(size, av-bv, av, bv, true)
	d := ptrDelta(size, vm.Flags.DF)
	vm.SetReg32(RegESI, vm.GetReg32(RegESI)+d)
	vm.SetReg32(RegEDI, vm.GetReg32(RegEDI)+d)
	return nil
}

func handleScasStep(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := stringStepSize(slot.opcodeByte, slot.sizeOverride)
	av := vm.GetReg(RegEAX, size).TruncQword()
	b, err := vm.Memory.GetSizedValue(vm.GetReg32(RegEDI), size)
	if err != nil {
		return err
	}
	bv := b.TruncQword()
	vm.Flags.setFlagsArith(size, av-bv, av, bv, true)
	d := ptrDelta(size, vm.Flags.DF)
	vm.SetReg32(RegEDI, vm.GetReg32(RegEDI)+d)
	return nil
}

func handleLodsStep(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := stringStepSize(slot.opcodeByte, slot.sizeOverride)
	v, err := vm.Memory.GetSizedValue(vm.GetReg32(RegESI), size)
	if err != nil {
		return err
	}
	vm.SetReg(RegEAX, v)
	d := ptrDelta(size, vm.Flags.DF)
	vm.SetReg32(RegESI, vm.GetReg32(RegESI)+d)
	return nil
}

func handleStosStep(vm *VM, slot *decodedInst, hv Hypervisor) error {
	size := stringStepSize(slot.opcodeByte, slot.sizeOverride)
	v := vm.GetReg(RegEAX, size)
	if err := vm.Memory.SetSizedValue(vm.GetReg32(RegEDI), v); err != nil {
		return err
	}
	d := ptrDelta(size, vm.Flags.DF)
	vm.SetReg32(RegEDI, vm.GetReg32(RegEDI)+d)
	return nil
}

// wrapStringRep turns a single-step string handler into a REP/REPE/REPNE
// loop, per spec.md §4.8. The first iteration's cost is the slot's normal
// dispatch-time charge; each subsequent iteration charges its own gas and
// the loop stops cleanly (returning OutOfGas, with all completed
// iterations' effects retained) if that charge fails.
func wrapStringRep(slot decodedInst, rep repKind, op *Opcode) decodedInst {
	inner := slot.handler
	// 0xF3 before CMPS/SCAS means REPE/REPZ (stop on ZF=0 too); before
	// MOVS/LODS/STOS - which produce no comparison - it means plain REP
	// and ZF is never consulted, per spec.md §4.8.
	checksZF := slot.opcodeByte == 0xA6 || slot.opcodeByte == 0xA7 ||
		slot.opcodeByte == 0xAE || slot.opcodeByte == 0xAF
	if !checksZF && rep == repEqual {
		rep = repPlain
	}
	wrapped := slot
	wrapped.handler = func(vm *VM, s *decodedInst, hv Hypervisor) error {
		useWord := s.sizeOverride
		count := func() uint32 {
			if useWord {
				return uint32(vm.GetReg16(RegECX))
			}
			return vm.GetReg32(RegECX)
		}
		setCount := func(v uint32) {
			if useWord {
				vm.SetReg16(RegECX, uint16(v))
			} else {
				vm.SetReg32(RegECX, v)
			}
		}

		n := count()
		if n == 0 {
			return nil
		}
		first := true
		for {
			if !first {
				if err := vm.ChargeGas(s.gasCost); err != nil {
					return err
				}
			}
			first = false
			if err := inner(vm, s, hv); err != nil {
				return err
			}
			n--
			setCount(n)
			if n == 0 {
				return nil
			}
			if rep == repEqual && !vm.Flags.ZF {
				return nil
			}
			if rep == repNotEqual && vm.Flags.ZF {
				return nil
			}
		}
	}
	return wrapped
}
