package vm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/scatha-lang/scatha/internal/vm/ffi"
)

// Binary file format
// ==================
//
// Header (8 bytes):
//   - Magic number: "SCVM" (4 bytes)
//   - Version major/minor/patch: uint8 each (3 bytes)
//   - Reserved: uint8 (1 byte)
//
// Body:
//   - StartAddress: int64 (NoEntry sentinel if the binary defines no entry point)
//   - Data length: uint32, followed by that many raw bytes (code + constants)
//   - Foreign library count: uint32, followed by that many declarations:
//       - LibName: string (length-prefixed)
//       - LibPath: string (length-prefixed)
//       - Entry count: uint32, followed by that many entries:
//           - FFIName: string (length-prefixed)
//           - Signature: arg kind count (uint32) + that many uint8 kinds,
//             then a uint8 return kind and a uint8 variadic flag
//           - SlotIndex: int32

const (
	magicNumber = "SCVM"
	formatMajor = 1
	formatMinor = 0
	formatPatch = 0
)

// WriteBinary serializes bin to w in the format Load/ReadBinary expects.
func WriteBinary(w io.Writer, bin *Binary) error {
	var buf bytes.Buffer
	buf.WriteString(magicNumber)
	buf.Write([]byte{formatMajor, formatMinor, formatPatch, 0})

	writeInt64(&buf, int64(bin.StartAddress))
	writeBytes(&buf, bin.Data)

	writeUint32(&buf, uint32(len(bin.ForeignLibraries)))
	for _, lib := range bin.ForeignLibraries {
		writeString(&buf, lib.LibName)
		writeString(&buf, lib.LibPath)
		writeUint32(&buf, uint32(len(lib.Entries)))
		for _, e := range lib.Entries {
			writeString(&buf, e.FFIName)
			writeSignature(&buf, e.Signature)
			writeInt32(&buf, int32(e.SlotIndex))
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadBinary deserializes a Binary previously written by WriteBinary.
func ReadBinary(r io.Reader) (*Binary, error) {
	br := &byteReader{r: r}

	magic := br.readN(4)
	if br.err != nil {
		return nil, br.err
	}
	if string(magic) != magicNumber {
		return nil, fmt.Errorf("vm: not a scatha binary (bad magic %q)", magic)
	}
	version := br.readN(4) // major, minor, patch, reserved
	if br.err != nil {
		return nil, br.err
	}
	if version[0] != formatMajor {
		return nil, fmt.Errorf("vm: incompatible binary format version %d.%d.%d", version[0], version[1], version[2])
	}

	bin := &Binary{}
	bin.StartAddress = int(br.readInt64())
	bin.Data = br.readBytes()

	libCount := br.readUint32()
	bin.ForeignLibraries = make([]ForeignLibraryDecl, libCount)
	for i := range bin.ForeignLibraries {
		lib := &bin.ForeignLibraries[i]
		lib.LibName = br.readString()
		lib.LibPath = br.readString()
		entryCount := br.readUint32()
		lib.Entries = make([]ForeignEntry, entryCount)
		for j := range lib.Entries {
			e := &lib.Entries[j]
			e.FFIName = br.readString()
			e.Signature = br.readSignature()
			e.SlotIndex = int(br.readInt32())
		}
	}
	if br.err != nil {
		return nil, br.err
	}
	return bin, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeInt32(buf *bytes.Buffer, v int32)   { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeInt64(buf *bytes.Buffer, v int64)   { _ = binary.Write(buf, binary.LittleEndian, v) }

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func writeString(buf *bytes.Buffer, s string) { writeBytes(buf, []byte(s)) }

func writeSignature(buf *bytes.Buffer, sig ffi.Signature) {
	writeUint32(buf, uint32(len(sig.ArgKinds)))
	for _, k := range sig.ArgKinds {
		buf.WriteByte(byte(k))
	}
	buf.WriteByte(byte(sig.RetKind))
	if sig.Variadic {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

// byteReader is a small sequential binary reader that latches the first
// error it hits, so callers can chain reads without checking each one.
type byteReader struct {
	r   io.Reader
	err error
}

func (b *byteReader) readN(n int) []byte {
	if b.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		b.err = err
		return nil
	}
	return buf
}

func (b *byteReader) readUint32() uint32 {
	d := b.readN(4)
	if b.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d)
}

func (b *byteReader) readInt32() int32  { return int32(b.readUint32()) }
func (b *byteReader) readInt64() int64 {
	d := b.readN(8)
	if b.err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(d))
}

func (b *byteReader) readBytes() []byte {
	n := b.readUint32()
	return b.readN(int(n))
}

func (b *byteReader) readString() string { return string(b.readBytes()) }

func (b *byteReader) readByte() byte {
	d := b.readN(1)
	if b.err != nil {
		return 0
	}
	return d[0]
}

func (b *byteReader) readSignature() ffi.Signature {
	n := b.readUint32()
	kinds := make([]ffi.Kind, n)
	for i := range kinds {
		kinds[i] = ffi.Kind(b.readByte())
	}
	ret := ffi.Kind(b.readByte())
	variadic := b.readByte() != 0
	return ffi.Signature{ArgKinds: kinds, RetKind: ret, Variadic: variadic}
}
