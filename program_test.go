package qx86

import "testing"

// End-to-end scenarios assembled by hand and run through the full
// fetch/decode/execute loop.

func TestProgramNopTrainThenHalt(t *testing.T) {
	code := make([]byte, 101)
	for i := 0; i < 100; i++ {
		code[i] = 0x90
	}
	code[100] = 0xF4
	vm := newTestVM(t, 0x00000000, code)
	before := vm.GasRemaining

	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.EIP != 100 {
		t.Fatalf("EIP = %d, want 100", vm.EIP)
	}
	// NOP and HLT are tier None in the reference schedule (spec.md §8
	// scenario 1): a 100-NOP-then-HLT program spends no gas at all.
	spent := before - vm.GasRemaining
	if spent != 0 {
		t.Fatalf("gas spent = %d, want 0 (NOP/HLT are GasNone)", spent)
	}
}

func TestProgramMovCascade(t *testing.T) {
	// MOV EAX, 0x11111111; MOV EBX, EAX; MOV ECX, EBX; HLT
	code := []byte{
		0xB8, 0x11, 0x11, 0x11, 0x11, // mov eax, imm32
		0x89, 0xC3, // mov ebx, eax  (mod=11 reg=000(EAX) rm=011(EBX))
		0x89, 0xD9, // mov ecx, ebx  (mod=11 reg=011(EBX) rm=001(ECX))
		0xF4,
	}
	vm := newTestVM(t, 0x00000000, code)
	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.GetReg32(RegEAX) != 0x11111111 || vm.GetReg32(RegEBX) != 0x11111111 || vm.GetReg32(RegECX) != 0x11111111 {
		t.Fatalf("eax=0x%X ebx=0x%X ecx=0x%X, want all 0x11111111",
			vm.GetReg32(RegEAX), vm.GetReg32(RegEBX), vm.GetReg32(RegECX))
	}
}

// TestProgramSIBMovCascade implements spec.md §8 scenario 2: a cascade of
// SIB-addressed and direct-address MOVs exercising scaled-index addressing
// (edi*2, edi*4), a dword store/reload through a base register, a
// direct-address dword load into a non-accumulator register, and an
// AH-only byte load that must leave AL and the high 16 bits of EAX alone.
func TestProgramSIBMovCascade(t *testing.T) {
	code := []byte{
		0xB0, 0x11, // mov al, 0x11
		0xB9, 0x00, 0x00, 0x00, 0x80, // mov ecx, 0x80000000
		0xC7, 0x01, 0x44, 0x33, 0x22, 0x11, // mov dword [ecx], 0x11223344
		0xBF, 0x10, 0x00, 0x00, 0x00, // mov edi, 0x10
		0xC7, 0x04, 0x79, 0x55, 0x66, 0x77, 0x88, // mov dword [edi*2+ecx], 0x88776655
		0xC6, 0x04, 0xB9, 0xFF, // mov byte [edi*4+ecx], 0xFF
		0x8B, 0x25, 0x00, 0x00, 0x00, 0x80, // mov esp, [0x80000000]
		0x8A, 0x25, 0x20, 0x00, 0x00, 0x80, // mov ah, [0x80000020]
		0x8B, 0x2C, 0x79, // mov ebp, [edi*2+ecx]
		0xF4,
	}
	mem := NewMemory()
	if err := mem.AddRegion(0x00000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	loadCode(mem, 0, code)
	if err := mem.AddRegion(0x80000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	vm := NewVM(mem, DefaultGasCharger())
	vm.GasRemaining = 1_000_000

	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.GetReg32(RegEAX) != 0x00005511 {
		t.Fatalf("eax = 0x%X, want 0x00005511", vm.GetReg32(RegEAX))
	}
	if vm.GetReg32(RegECX) != 0x80000000 {
		t.Fatalf("ecx = 0x%X, want 0x80000000", vm.GetReg32(RegECX))
	}
	if vm.GetReg32(RegESP) != 0x11223344 {
		t.Fatalf("esp = 0x%X, want 0x11223344", vm.GetReg32(RegESP))
	}
	if vm.GetReg32(RegEBP) != 0x88776655 {
		t.Fatalf("ebp = 0x%X, want 0x88776655", vm.GetReg32(RegEBP))
	}
	wantMem := []byte{0x44, 0x33, 0x22, 0x11}
	for i, want := range wantMem {
		got, err := mem.GetU8(0x80000000 + uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("[0x80000000+%d] = 0x%X, want 0x%X", i, got, want)
		}
	}
	wantMem2 := []byte{0x55, 0x66, 0x77, 0x88}
	for i, want := range wantMem2 {
		got, err := mem.GetU8(0x80000020 + uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("[0x80000020+%d] = 0x%X, want 0x%X", i, got, want)
		}
	}
	got, err := mem.GetU8(0x80000040)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xFF {
		t.Fatalf("[0x80000040] = 0x%X, want 0xFF", got)
	}
}

func TestProgramPushPopRoundTrip(t *testing.T) {
	// MOV EAX, 0xCAFEBABE; PUSH EAX; POP EBX; HLT
	code := []byte{
		0xB8, 0xBE, 0xBA, 0xFE, 0xCA,
		0x50,       // push eax
		0x5B,       // pop ebx
		0xF4,
	}
	mem := NewMemory()
	if err := mem.AddRegion(0x00000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	loadCode(mem, 0, code)
	if err := mem.AddRegion(0x80000000, 0x10000); err != nil { // writable stack segment
		t.Fatal(err)
	}
	vm := NewVM(mem, DefaultGasCharger())
	vm.SetReg32(RegESP, 0x80001000)
	vm.GasRemaining = 1_000_000

	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.GetReg32(RegEBX) != 0xCAFEBABE {
		t.Fatalf("ebx = 0x%X, want 0xCAFEBABE", vm.GetReg32(RegEBX))
	}
	if vm.GetReg32(RegESP) != 0x80001000 {
		t.Fatalf("esp = 0x%X, want back to 0x80001000 after matched push/pop", vm.GetReg32(RegESP))
	}
}

func TestProgramSignedAddOverflow(t *testing.T) {
	// MOV EAX, 0x7FFFFFFF; ADD EAX, 1; HLT
	code := []byte{
		0xB8, 0xFF, 0xFF, 0xFF, 0x7F,
		0x83, 0xC0, 0x01, // add eax, 1 (group 83 /0)
		0xF4,
	}
	vm := newTestVM(t, 0x00000000, code)
	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.GetReg32(RegEAX) != 0x80000000 {
		t.Fatalf("eax = 0x%X, want 0x80000000", vm.GetReg32(RegEAX))
	}
	if !vm.Flags.OF {
		t.Fatal("signed overflow should set OF")
	}
	if !vm.Flags.SF {
		t.Fatal("result 0x80000000 should set SF")
	}
	if vm.Flags.CF {
		t.Fatal("unsigned add of 0x7FFFFFFF+1 should not set CF")
	}
}

func TestProgramDivideByZero(t *testing.T) {
	// MOV EAX, 10; XOR ECX, ECX; DIV ECX; HLT
	code := []byte{
		0xB8, 0x0A, 0x00, 0x00, 0x00,
		0x31, 0xC9, // xor ecx, ecx (mod=11 reg=001(ECX) rm=001(ECX))
		0xF7, 0xF1, // div ecx (group F7 /6: mod=11 reg=110 rm=001)
		0xF4,
	}
	vm := newTestVM(t, 0x00000000, code)
	err := vm.Execute(NopHypervisor{})
	if _, ok := err.(*DivideByZeroError); !ok {
		t.Fatalf("expected DivideByZeroError, got %v", err)
	}
	const divEIP = 7 // address of the div ecx instruction
	if vm.ErrorEIP != divEIP {
		t.Fatalf("ErrorEIP = %d, want %d (the div instruction's own start)", vm.ErrorEIP, divEIP)
	}
	if vm.EIP != divEIP {
		t.Fatalf("EIP = %d, want %d (left unadvanced at the faulting instruction)", vm.EIP, divEIP)
	}
	if vm.GetReg32(RegEAX) != 10 {
		t.Fatalf("eax = %d, want 10 (preserved across the failed division)", vm.GetReg32(RegEAX))
	}
}

// TestProgramConditionalBranchComposite implements spec.md §8 scenario 6:
// a composite of an unsigned comparison (CMP + JBE rel32, the "long" jump
// width) followed by a signed-equality comparison (CMP + JE rel8) and a
// signed-inequality comparison (CMP + JG rel8), landing on a single final
// HLT. Each branch in this program is taken; a "poison" instruction sits
// immediately after each jump so that a wrong jump-target computation
// (wrong rel8/rel32 arithmetic, or a wrongly-evaluated condition) would
// be caught by the final register values differing from the expected set.
func TestProgramConditionalBranchComposite(t *testing.T) {
	code := []byte{
		0xB8, 0x05, 0x00, 0x00, 0x00, // [0]  mov eax, 5
		0xBB, 0x0A, 0x00, 0x00, 0x00, // [5]  mov ebx, 10
		0x39, 0xD8, // [10] cmp eax, ebx        (unsigned 5 < 10: CF=1, ZF=0)
		0x0F, 0x86, 0x06, 0x00, 0x00, 0x00, // [12] jbe rel32 +6 -> 24 (BE: CF||ZF, taken)
		0xB8, 0xD1, 0xBA, 0x00, 0x00, // [18] mov eax, 0xBAD1 (poison, unreached)
		0xF4, // [23] hlt (poison landing pad)

		0xB9, 0x64, 0x00, 0x00, 0x00, // [24] mov ecx, 100
		0xBA, 0x64, 0x00, 0x00, 0x00, // [29] mov edx, 100
		0x39, 0xD1, // [34] cmp ecx, edx         (100 == 100: ZF=1)
		0x74, 0x06, // [36] je rel8 +6 -> 44      (E: ZF, taken)
		0xBE, 0xD2, 0xBA, 0x00, 0x00, // [38] mov esi, 0xBAD2 (poison, unreached)
		0xF4, // [43] hlt (poison landing pad)

		0xBE, 0x07, 0x00, 0x00, 0x00, // [44] mov esi, 7
		0xBF, 0x03, 0x00, 0x00, 0x00, // [49] mov edi, 3
		0x39, 0xFE, // [54] cmp esi, edi         (signed 7 > 3: SF=0,OF=0,ZF=0)
		0x7F, 0x06, // [56] jg rel8 +6 -> 64      (G: !ZF && SF==OF, taken)
		0xBD, 0xD3, 0xBA, 0x00, 0x00, // [58] mov ebp, 0xBAD3 (poison, unreached)
		0xF4, // [63] hlt (poison landing pad)

		0xBD, 0x2A, 0x00, 0x00, 0x00, // [64] mov ebp, 42
		0xF4, // [69] hlt
	}
	vm := newTestVM(t, 0x00000000, code)
	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	if vm.EIP != 69 {
		t.Fatalf("EIP = %d, want 69 (the address of the HLT that actually ran)", vm.EIP)
	}
	got := [6]uint32{
		vm.GetReg32(RegEAX), vm.GetReg32(RegEBX), vm.GetReg32(RegECX),
		vm.GetReg32(RegEDX), vm.GetReg32(RegESI), vm.GetReg32(RegEDI),
	}
	want := [6]uint32{5, 10, 100, 100, 7, 3}
	if got != want {
		t.Fatalf("eax,ebx,ecx,edx,esi,edi = %v, want %v (a poisoned register means a branch mis-jumped)", got, want)
	}
	if vm.GetReg32(RegEBP) != 42 {
		t.Fatalf("ebp = %d, want 42 (final straight-line mov before HLT)", vm.GetReg32(RegEBP))
	}
}

func TestProgramRepMovsbForward(t *testing.T) {
	mem := NewMemory()
	if err := mem.AddRegion(0x00000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	if err := mem.AddRegion(0x80000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	src := []byte("hello")
	for i, b := range src {
		if err := mem.SetU8(0x80000000+uint32(i), b); err != nil {
			t.Fatal(err)
		}
	}
	// (DF=0, as NewVM leaves it) MOV ESI, 0x80000000; MOV EDI, 0x80000100; MOV ECX, 5; REP MOVSB; HLT
	code := []byte{
		0xBE, 0x00, 0x00, 0x00, 0x80, // mov esi, 0x80000000
		0xBF, 0x00, 0x01, 0x00, 0x80, // mov edi, 0x80000100
		0xB9, 0x05, 0x00, 0x00, 0x00, // mov ecx, 5
		0xF3, 0xA4, // rep movsb
		0xF4,
	}
	loadCode(mem, 0, code)
	vm := NewVM(mem, DefaultGasCharger())
	vm.GasRemaining = 1_000_000

	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	for i, want := range src {
		got, err := mem.GetU8(0x80000100 + uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("byte %d = %q, want %q", i, got, want)
		}
	}
	if vm.GetReg32(RegECX) != 0 {
		t.Fatalf("ecx = %d, want 0 after REP MOVSB completes", vm.GetReg32(RegECX))
	}
}

func TestProgramRepMovsbBackward(t *testing.T) {
	mem := NewMemory()
	if err := mem.AddRegion(0x00000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	if err := mem.AddRegion(0x80000000, 0x10000); err != nil {
		t.Fatal(err)
	}
	src := []byte("world")
	for i, b := range src {
		if err := mem.SetU8(0x80000000+uint32(i), b); err != nil {
			t.Fatal(err)
		}
	}
	// STD; MOV ESI, 0x80000004; MOV EDI, 0x80000104; MOV ECX, 5; REP MOVSB; HLT
	// DF is set directly on the VM below, since qx86's subset defines no
	// STD/CLD opcodes of its own (spec.md scopes those out).
	code := []byte{
		0xBE, 0x04, 0x00, 0x00, 0x80, // mov esi, 0x80000004
		0xBF, 0x04, 0x01, 0x00, 0x80, // mov edi, 0x80000104
		0xB9, 0x05, 0x00, 0x00, 0x00, // mov ecx, 5
		0xF3, 0xA4, // rep movsb
		0xF4,
	}
	loadCode(mem, 0, code)
	vm := NewVM(mem, DefaultGasCharger())
	vm.Flags.DF = true
	vm.GasRemaining = 1_000_000

	if err := vm.Execute(NopHypervisor{}); err != nil {
		t.Fatal(err)
	}
	for i, want := range src {
		got, err := mem.GetU8(0x80000100 + uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("byte %d = %q, want %q (reversed copy should still land in forward order)", i, got, want)
		}
	}
}

// TestProgramIntDispatch implements spec.md §8 scenario 8: INT 0xAA; INT
// 0xBB; INT3; HLT must invoke the hypervisor three times, in order, with
// the non-EIP machine state preserved across each dispatch.
func TestProgramIntDispatch(t *testing.T) {
	code := []byte{
		0xCD, 0xAA, // int 0xAA
		0xCD, 0xBB, // int 0xBB
		0xCC, // int3
		0xF4,
	}
	vm := newTestVM(t, 0x00000000, code)
	vm.SetReg32(RegEAX, 0x12345678)
	hv := &countingHypervisor{}
	if err := vm.Execute(hv); err != nil {
		t.Fatal(err)
	}
	want := []uint8{0xAA, 0xBB, 3}
	if len(hv.seq) != len(want) {
		t.Fatalf("interrupt sequence = %v, want %v", hv.seq, want)
	}
	for i := range want {
		if hv.seq[i] != want[i] {
			t.Fatalf("interrupt sequence = %v, want %v", hv.seq, want)
		}
	}
	if vm.GetReg32(RegEAX) != 0x12345678 {
		t.Fatalf("eax = 0x%X, want 0x12345678 (INT must not disturb general-purpose registers)", vm.GetReg32(RegEAX))
	}
}
