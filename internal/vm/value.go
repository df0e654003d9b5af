package vm

import "math"

// RegValue is the bit pattern held by one register: raw 64 bits,
// reinterpreted by the consuming opcode as a signed/unsigned integer, a
// float, or a packed Pointer (slot in the high 32 bits, offset in the low
// 32 bits).
type RegValue uint64

func IntReg(v int64) RegValue   { return RegValue(uint64(v)) }
func UintReg(v uint64) RegValue { return RegValue(v) }
func FloatReg(f float64) RegValue {
	if isF32Range(f) {
		return RegValue(math.Float32bits(float32(f)))
	}
	return RegValue(math.Float64bits(f))
}
func Float32Reg(f float32) RegValue { return RegValue(math.Float32bits(f)) }
func Float64Reg(f float64) RegValue { return RegValue(math.Float64bits(f)) }

func PointerReg(p Pointer) RegValue {
	return RegValue(uint64(p.Slot)<<32 | uint64(p.Offset))
}

func (v RegValue) Int64() int64     { return int64(v) }
func (v RegValue) Uint64() uint64   { return uint64(v) }
func (v RegValue) Int32() int32     { return int32(int64(v)) }
func (v RegValue) Uint32() uint32   { return uint32(uint64(v)) }
func (v RegValue) Float32() float32 { return math.Float32frombits(uint32(v)) }
func (v RegValue) Float64() float64 { return math.Float64frombits(uint64(v)) }
func (v RegValue) Pointer() Pointer {
	return Pointer{Slot: uint32(uint64(v) >> 32), Offset: uint32(uint64(v))}
}

func isF32Range(f float64) bool { return float64(float32(f)) == f }
