package qx86

import (
	"strings"
	"testing"
)

func TestDisassembleSlotOmitsEmptyArgs(t *testing.T) {
	slot := &decodedInst{
		mnemonic: "mov Gv,Ev",
		args: [3]ArgLocation{
			{Kind: LocRegisterValue, Size: SizeDword, Reg: RegEAX},
			{Kind: LocImmediate, Size: SizeDword, Imm: DwordValue(0xDEADBEEF)},
		},
	}
	got := DisassembleSlot(slot)
	if got != "mov Gv,Ev EAX, 0xDEADBEEF" {
		t.Fatalf("got %q", got)
	}
}

func TestDisassembleSlotEmptySlot(t *testing.T) {
	slot := &decodedInst{empty: true}
	if got := DisassembleSlot(slot); got != "(empty slot)" {
		t.Fatalf("got %q", got)
	}
}

func TestDisassembleSlotFallsBackToOpcodeHex(t *testing.T) {
	slot := &decodedInst{opcodeByte: 0x90}
	if got := DisassembleSlot(slot); got != "0x90" {
		t.Fatalf("got %q", got)
	}
}

func TestDisassembleAtRendersDecodedInstruction(t *testing.T) {
	code := pad(0xB8, 0x44, 0x33, 0x22, 0x11) // MOV EAX, 0x11223344
	vm := newTestVM(t, 0x10000, code)
	text, length, err := vm.DisassembleAt(0x10000)
	if err != nil {
		t.Fatal(err)
	}
	if length != 5 {
		t.Fatalf("length = %d, want 5", length)
	}
	if !strings.Contains(text, "EAX") || !strings.Contains(text, "11223344") {
		t.Fatalf("got %q", text)
	}
}

func TestFormatArgSIBAddress(t *testing.T) {
	loc := ArgLocation{
		Kind: LocSIBAddress, Size: SizeDword,
		HasBase: true, Base: RegEAX,
		HasIndex: true, Index: RegECX, Scale: 4,
		Offset: 0x10,
	}
	got := formatArg(loc)
	if got != "[EAX+ECX*4+0x10]" {
		t.Fatalf("got %q", got)
	}
}
