package qx86

import "testing"

func TestReg8Aliasing(t *testing.T) {
	vm := NewVM(nil, nil)
	vm.SetReg32(RegEAX, 0x11223344)
	if vm.GetReg8(RegEAX) != 0x44 {
		t.Fatalf("AL = 0x%X, want 0x44", vm.GetReg8(RegEAX))
	}
	if vm.GetReg8(RegEAX|4) != 0x33 {
		t.Fatalf("AH = 0x%X, want 0x33", vm.GetReg8(RegEAX|4))
	}
	vm.SetReg8(RegEAX|4, 0xFF)
	if vm.GetReg32(RegEAX) != 0x1122FF44 {
		t.Fatalf("EAX after setting AH = 0x%X, want 0x1122FF44", vm.GetReg32(RegEAX))
	}
}

func TestReg16PreservesUpperBits(t *testing.T) {
	vm := NewVM(nil, nil)
	vm.SetReg32(RegEBX, 0xAABBCCDD)
	vm.SetReg16(RegEBX, 0x1234)
	if vm.GetReg32(RegEBX) != 0xAABB1234 {
		t.Fatalf("EBX = 0x%X, want 0xAABB1234", vm.GetReg32(RegEBX))
	}
}

func TestGetSetRegSized(t *testing.T) {
	vm := NewVM(nil, nil)
	vm.SetReg(RegECX, DwordValue(0xDEADBEEF))
	v := vm.GetReg(RegECX, SizeDword)
	if d, _ := v.ExactDword(); d != 0xDEADBEEF {
		t.Fatalf("got 0x%X, want 0xDEADBEEF", d)
	}
	vm.SetReg(RegECX, ByteValue(0x42))
	if vm.GetReg8(RegECX) != 0x42 {
		t.Fatal("SetReg at byte width should only touch CL")
	}
}

func TestVMReset(t *testing.T) {
	vm := NewVM(nil, nil)
	vm.SetReg32(RegEAX, 1)
	vm.EIP = 0x1000
	vm.Flags.ZF = true
	vm.GasRemaining = 500
	vm.Reset()
	if vm.GetReg32(RegEAX) != 0 || vm.EIP != 0 || vm.Flags.ZF {
		t.Fatal("Reset should zero registers, EIP and flags")
	}
	if vm.GasRemaining != 500 {
		t.Fatal("Reset must not touch GasRemaining")
	}
}
