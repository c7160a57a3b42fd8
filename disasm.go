// disasm.go - a minimal textual disassembler for debugging
//
// Grounded on debug_disasm_x86.go's register/condition name tables and
// its bracketed-effective-address formatting. Unlike the teacher's
// disassembler (which re-parses raw bytes on demand), qx86 already has a
// decoder that produces a fully resolved ArgLocation per operand, so this
// formats an already-decoded slot rather than re-walking the byte stream.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

import (
	"fmt"
	"strings"
)

var reg32Names = [8]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}
var reg16Names = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}
var reg8Names = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}

func regName(idx byte, size ValueSize) string {
	switch size {
	case SizeByte:
		return reg8Names[idx&7]
	case SizeWord:
		return reg16Names[idx&7]
	default:
		return reg32Names[idx&7]
	}
}

// formatArg renders one decoded ArgLocation the way a debugger would:
// registers by name, immediates as hex, memory forms bracketed.
func formatArg(loc ArgLocation) string {
	switch loc.Kind {
	case LocNone:
		return ""
	case LocImmediate:
		return fmt.Sprintf("0x%X", loc.Imm.TruncQword())
	case LocAddress:
		return fmt.Sprintf("[0x%08X]", loc.Addr)
	case LocRegisterValue:
		return regName(loc.Reg, loc.Size)
	case LocRegisterAddress:
		return fmt.Sprintf("[%s]", reg32Names[loc.Reg&7])
	case LocModRMAddress:
		if loc.Offset == 0 {
			return fmt.Sprintf("[%s]", reg32Names[loc.Reg&7])
		}
		return fmt.Sprintf("[%s+0x%X]", reg32Names[loc.Reg&7], loc.Offset)
	case LocSIBAddress:
		var parts []string
		if loc.HasBase {
			parts = append(parts, reg32Names[loc.Base&7])
		}
		if loc.HasIndex {
			parts = append(parts, fmt.Sprintf("%s*%d", reg32Names[loc.Index&7], loc.Scale))
		}
		if loc.Offset != 0 || len(parts) == 0 {
			parts = append(parts, fmt.Sprintf("0x%X", loc.Offset))
		}
		return "[" + strings.Join(parts, "+") + "]"
	default:
		return "???"
	}
}

// DisassembleSlot renders a decoded instruction as "mnemonic arg0, arg1,
// arg2" with empty argument slots omitted.
func DisassembleSlot(slot *decodedInst) string {
	if slot.empty {
		return "(empty slot)"
	}
	mnemonic := slot.mnemonic
	if mnemonic == "" {
		mnemonic = fmt.Sprintf("0x%02X", slot.opcodeByte)
	}
	var args []string
	for _, a := range slot.args {
		if a.Kind == LocNone {
			continue
		}
		args = append(args, formatArg(a))
	}
	if len(args) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(args, ", ")
}

// DisassembleAt decodes and renders one instruction at addr without
// mutating VM state, for use by debuggers and tests.
func (vm *VM) DisassembleAt(addr uint32) (string, int, error) {
	window, err := vm.Memory.GetSizedSlice(addr, fetchWindow)
	if err != nil {
		return "", 0, err
	}
	slot, err := decodeOne(vm.opcodeTable(), window)
	if err != nil {
		return "", 0, err
	}
	return DisassembleSlot(&slot), slot.length, nil
}
