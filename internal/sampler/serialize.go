package sampler

import (
	"encoding/binary"
	"math"

	"github.com/terravue/surveytiler/internal/decoder"
)

// Height grid persistence layout, little endian, versioned:
//
//	magic    [4]byte  "SHGT"
//	version  uint16   currently 1
//	reserved uint16
//	rows     uint32
//	cols     uint32
//	heights  rows * cols * float32
//	validity ceil(rows*cols/8) bytes, bit i set when cell i is covered
const (
	gridHeaderSize = 16
	gridVersion    = 1
)

var gridMagic = [4]byte{'S', 'H', 'G', 'T'}

var byteOrder = binary.LittleEndian

// ToBytes serializes the grid for the store boundary
func (g *HeightGrid) ToBytes() []byte {
	cells := g.Rows * g.Cols
	maskBytes := (cells + 7) / 8
	buf := make([]byte, gridHeaderSize+cells*4+maskBytes)
	copy(buf[0:4], gridMagic[:])
	byteOrder.PutUint16(buf[4:6], gridVersion)
	byteOrder.PutUint16(buf[6:8], 0)
	byteOrder.PutUint32(buf[8:12], uint32(g.Rows))
	byteOrder.PutUint32(buf[12:16], uint32(g.Cols))
	off := gridHeaderSize
	for _, h := range g.Heights {
		byteOrder.PutUint32(buf[off:off+4], math.Float32bits(h))
		off += 4
	}
	for i, v := range g.Valid {
		if v {
			buf[off+i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

// GridFromBytes deserializes a stored height grid
func GridFromBytes(buf []byte) (*HeightGrid, error) {
	if len(buf) < gridHeaderSize {
		return nil, &decoder.Error{Kind: decoder.KindTruncated, Msg: "height grid buffer smaller than header"}
	}
	if buf[0] != gridMagic[0] || buf[1] != gridMagic[1] ||
		buf[2] != gridMagic[2] || buf[3] != gridMagic[3] {
		return nil, &decoder.Error{Kind: decoder.KindMalformed, Msg: "bad height grid magic"}
	}
	if version := byteOrder.Uint16(buf[4:6]); version != gridVersion {
		return nil, &decoder.Error{Kind: decoder.KindUnsupportedVariant, Msg: "unsupported height grid version"}
	}
	rows := byteOrder.Uint32(buf[8:12])
	cols := byteOrder.Uint32(buf[12:16])
	declaredCells := uint64(rows) * uint64(cols)
	declared := uint64(gridHeaderSize) + declaredCells*4 + (declaredCells+7)/8
	if declared != uint64(len(buf)) {
		return nil, &decoder.Error{Kind: decoder.KindTruncated, Msg: "height grid payload does not match declared dimensions"}
	}

	cells := int(declaredCells)
	grid := &HeightGrid{
		Rows:    int(rows),
		Cols:    int(cols),
		Heights: make([]float32, cells),
		Valid:   make([]bool, cells),
	}
	off := gridHeaderSize
	for i := range grid.Heights {
		grid.Heights[i] = math.Float32frombits(byteOrder.Uint32(buf[off : off+4]))
		off += 4
	}
	for i := range grid.Valid {
		grid.Valid[i] = buf[off+i/8]&(1<<uint(i%8)) != 0
	}
	return grid, nil
}
