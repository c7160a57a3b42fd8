// modrm.go - Mod R/M and SIB byte decoding
//
// Grounded on cpu_x86.go's fetchModRM/fetchSIB/calcEffectiveAddress32: the
// teacher decodes mod/reg/rm (and, when present, scale/index/base) inline
// during execution. qx86 splits this into a pure parse step returning a
// ParsedModRM, since the spec requires the decoder to run once per
// instruction ahead of dispatch rather than interleaved with it.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package qx86

// ParsedModRM is the result of decoding a Mod R/M byte (and, when rm==4 in
// 32-bit addressing, a following SIB byte) plus any displacement.
type ParsedModRM struct {
	Mod byte // bits 7:6
	Reg byte // bits 5:3 - the "reg" field (opcode extension or second operand)
	Rm  byte // bits 2:0

	IsRegister bool // mod == 3: Rm names a register directly, no memory

	HasSIB   bool
	Scale    byte // 1, 2, 4 or 8
	HasIndex bool
	Index    byte
	HasBase  bool
	Base     byte

	Disp    uint32
	HasDisp bool

	Length int // total bytes consumed: ModR/M (+SIB) (+disp)
}

// parseModRM decodes the Mod R/M byte (and SIB/displacement, 32-bit
// addressing only - the engine targets flat 32-bit addressing per
// spec.md §1) starting at code[0]. Returns an error if code is too short
// for the encoding it commits to.
func parseModRM(code []byte) (ParsedModRM, error) {
	if len(code) < 1 {
		return ParsedModRM{}, &DecodingOverrunError{}
	}
	b := code[0]
	p := ParsedModRM{
		Mod:    b >> 6,
		Reg:    (b >> 3) & 0x7,
		Rm:     b & 0x7,
		Length: 1,
	}
	if p.Mod == 3 {
		p.IsRegister = true
		return p, nil
	}

	if p.Rm == 4 {
		if len(code) < 2 {
			return ParsedModRM{}, &DecodingOverrunError{}
		}
		sib := code[1]
		p.HasSIB = true
		p.Scale = 1 << (sib >> 6)
		idx := (sib >> 3) & 0x7
		base := sib & 0x7
		if idx != 4 {
			p.HasIndex = true
			p.Index = idx
		}
		if !(base == 5 && p.Mod == 0) {
			p.HasBase = true
			p.Base = base
		}
		p.Length = 2
	}

	// mod==0, rm==5 (or SIB base field ==5 with mod==0): disp32, no base.
	if p.Mod == 0 && ((p.Rm == 5 && !p.HasSIB) || (p.HasSIB && !p.HasBase)) {
		d, err := readDisp32(code, p.Length)
		if err != nil {
			return ParsedModRM{}, err
		}
		p.Disp = d
		p.HasDisp = true
		p.Length += 4
		return p, nil
	}

	switch p.Mod {
	case 1:
		d, err := readDisp8(code, p.Length)
		if err != nil {
			return ParsedModRM{}, err
		}
		p.Disp = d
		p.HasDisp = true
		p.Length++
	case 2:
		d, err := readDisp32(code, p.Length)
		if err != nil {
			return ParsedModRM{}, err
		}
		p.Disp = d
		p.HasDisp = true
		p.Length += 4
	}
	return p, nil
}

func readDisp8(code []byte, at int) (uint32, error) {
	if at >= len(code) {
		return 0, &DecodingOverrunError{}
	}
	return uint32(int32(int8(code[at]))), nil
}

func readDisp32(code []byte, at int) (uint32, error) {
	if at+4 > len(code) {
		return 0, &DecodingOverrunError{}
	}
	return uint32(code[at]) | uint32(code[at+1])<<8 | uint32(code[at+2])<<16 | uint32(code[at+3])<<24, nil
}

// ToArgLocation turns a parsed Mod R/M byte into the memory- or register-form
// ArgLocation it designates, at the given operand size. For register form
// (mod==3) the caller's own register map applies (Rm is a raw register
// index 0-7); for memory forms this builds ModRMAddress/SIBAddress/Address
// per spec.md §4.8.
func (p ParsedModRM) ToArgLocation(size ValueSize) ArgLocation {
	if p.IsRegister {
		return ArgLocation{Kind: LocRegisterValue, Size: size, Reg: p.Rm}
	}
	if p.HasSIB {
		loc := ArgLocation{Kind: LocSIBAddress, Size: size, Offset: p.Disp, Scale: p.Scale}
		if p.HasBase {
			loc.HasBase = true
			loc.Base = p.Base
		}
		if p.HasIndex {
			loc.HasIndex = true
			loc.Index = p.Index
		}
		return loc
	}
	if p.Mod == 0 && p.Rm == 5 {
		return ArgLocation{Kind: LocAddress, Size: size, Addr: p.Disp}
	}
	if !p.HasDisp {
		return ArgLocation{Kind: LocRegisterAddress, Size: size, Reg: p.Rm}
	}
	return ArgLocation{Kind: LocModRMAddress, Size: size, Reg: p.Rm, Offset: p.Disp}
}
