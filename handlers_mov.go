// handlers_mov.go - MOV, MOVZX, MOVSX, XCHG, LEA, BSWAP
//
// Grounded on cpu_x86.go's opMOV_* family and opLEA/opBSWAP/opXCHG_*:
// the teacher has one handler per encoding (opMOV_Eb_Gb, opMOV_Gb_Eb, ...);
// qx86 collapses every MOV encoding into one width-agnostic handleMov since
// its ArgLocation/get_arg/set_arg layer already carries operand width and
// addressing mode, leaving only the copy itself to do.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

func handleMov(vm *VM, slot *decodedInst, hv Hypervisor) error {
	v, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	return vm.SetArg(slot.args[0], v)
}

func handleMovzx(vm *VM, slot *decodedInst, hv Hypervisor) error {
	src, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	zx, err := src.ConvertSizeZx(slot.args[0].Size)
	if err != nil {
		return err
	}
	return vm.SetArg(slot.args[0], zx)
}

func handleMovsx(vm *VM, slot *decodedInst, hv Hypervisor) error {
	src, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	sx, err := src.ConvertSizeSx(slot.args[0].Size)
	if err != nil {
		return err
	}
	return vm.SetArg(slot.args[0], sx)
}

func handleXchg(vm *VM, slot *decodedInst, hv Hypervisor) error {
	a, err := vm.GetArg(slot.args[0])
	if err != nil {
		return err
	}
	b, err := vm.GetArg(slot.args[1])
	if err != nil {
		return err
	}
	if err := vm.SetArg(slot.args[0], b); err != nil {
		return err
	}
	return vm.SetArg(slot.args[1], a)
}

// handleLea computes the memory-operand effective address of args[1]
// without touching memory, truncating to 16 bits if size_override (spec.md
// §4.8).
func handleLea(vm *VM, slot *decodedInst, hv Hypervisor) error {
	addr := vm.GetArgLEA(slot.args[1])
	v := DwordValue(addr)
	if slot.sizeOverride {
		v = WordValue(uint16(addr))
	}
	return vm.SetArg(slot.args[0], v)
}

func handleBswap(vm *VM, slot *decodedInst, hv Hypervisor) error {
	v := vm.GetReg32(slot.args[0].Reg)
	swapped := (v>>24)&0xFF | (v>>8)&0xFF00 | (v<<8)&0xFF0000 | (v<<24)&0xFF000000
	vm.SetReg32(slot.args[0].Reg, swapped)
	return nil
}
