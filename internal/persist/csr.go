package persist

import (
	"encoding/binary"
	"fmt"
	"hash/crc64"
	"os"

	"github.com/happyhackingspace/cooc/sparse"
)

var csrMagic = [4]byte{'C', 'S', 'R', '1'}

const (
	csrVersion    = 1
	csrHeaderSize = 4 + 4 + 8 + 8 + 8
)

var crcTable = crc64.MakeTable(crc64.ECMA)

// writeCSR encodes m as
//
//	magic[4] version u32 rows u64 cols u64 nnz u64
//	indptr (rows+1) x u64, indices nnz x u32, data nnz x u32
//	crc64 u64 over everything before it
func writeCSR(path string, m *sparse.Matrix) error {
	rows, cols := m.Shape()
	nnz := m.Nnz()
	size := csrHeaderSize + (rows+1)*8 + nnz*8 + 8
	data := make([]byte, 0, size)

	data = append(data, csrMagic[:]...)
	data = binary.LittleEndian.AppendUint32(data, csrVersion)
	data = binary.LittleEndian.AppendUint64(data, uint64(rows))
	data = binary.LittleEndian.AppendUint64(data, uint64(cols))
	data = binary.LittleEndian.AppendUint64(data, uint64(nnz))
	for _, p := range m.Indptr() {
		data = binary.LittleEndian.AppendUint64(data, uint64(p))
	}
	for _, c := range m.Indices() {
		data = binary.LittleEndian.AppendUint32(data, uint32(c))
	}
	for _, v := range m.Data() {
		data = binary.LittleEndian.AppendUint32(data, uint32(v))
	}
	data = binary.LittleEndian.AppendUint64(data, crc64.Checksum(data, crcTable))

	return writeFileAtomic(path, data)
}

func readCSR(path string) (*sparse.Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < csrHeaderSize+8 {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrCorrupt, len(data))
	}
	if [4]byte(data[0:4]) != csrMagic {
		return nil, fmt.Errorf("%w: invalid magic", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != csrVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	rows := binary.LittleEndian.Uint64(data[8:16])
	cols := binary.LittleEndian.Uint64(data[16:24])
	nnz := binary.LittleEndian.Uint64(data[24:32])

	body := uint64(len(data) - csrHeaderSize - 8)
	if rows >= body/8 || nnz > body/8 || (rows+1)*8+nnz*8 != body {
		return nil, fmt.Errorf("%w: size mismatch for %dx%d nnz %d", ErrCorrupt, rows, cols, nnz)
	}

	checksumOffset := len(data) - 8
	stored := binary.LittleEndian.Uint64(data[checksumOffset:])
	if computed := crc64.Checksum(data[:checksumOffset], crcTable); stored != computed {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	off := csrHeaderSize
	indptr := make([]int, rows+1)
	for i := range indptr {
		indptr[i] = int(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}
	indices := make([]int32, nnz)
	for i := range indices {
		indices[i] = int32(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	values := make([]int32, nnz)
	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}

	m, err := sparse.NewCSR(int(rows), int(cols), indptr, indices, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return m, nil
}
