package artifact

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"nodosml-recsys/internal/sparse"
)

// Contenedor binario de matrices CSR, little-endian:
// magic "CSRB", versión uint32, rows/cols/nnz int64,
// indptr int64[rows+1], indices int32[nnz], data float64[nnz].
var csrMagic = [4]byte{'C', 'S', 'R', 'B'}

const csrVersion uint32 = 1

// SaveCSR escribe la matriz en formato binario.
func SaveCSR(path string, m *sparse.CSR) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(csrMagic[:]); err != nil {
		return err
	}
	header := []any{
		csrVersion,
		int64(m.Rows),
		int64(m.Cols),
		int64(m.NNZ()),
	}
	for _, v := range header {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	indptr := make([]int64, len(m.Indptr))
	for i, v := range m.Indptr {
		indptr[i] = int64(v)
	}
	indices := make([]int32, len(m.Indices))
	for i, v := range m.Indices {
		indices[i] = int32(v)
	}
	if err := binary.Write(f, binary.LittleEndian, indptr); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, indices); err != nil {
		return err
	}
	return binary.Write(f, binary.LittleEndian, m.Data)
}

// LoadCSR lee una matriz escrita por SaveCSR. Cualquier inconsistencia
// estructural se reporta como error (el arranque del servicio es
// fail-fast, no hay modo degradado).
func LoadCSR(path string) (*sparse.CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var magic [4]byte
	if _, err := f.Read(magic[:]); err != nil {
		return nil, fmt.Errorf("%s: header corto: %w", path, err)
	}
	if magic != csrMagic {
		return nil, fmt.Errorf("%s: magic inválido %q", path, magic[:])
	}

	var version uint32
	var rows, cols, nnz int64
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != csrVersion {
		return nil, fmt.Errorf("%s: versión %d no soportada", path, version)
	}
	if err := binary.Read(f, binary.LittleEndian, &rows); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &cols); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &nnz); err != nil {
		return nil, err
	}
	if rows < 0 || cols < 0 || nnz < 0 {
		return nil, fmt.Errorf("%s: dimensiones negativas", path)
	}

	indptr := make([]int64, rows+1)
	indices := make([]int32, nnz)
	data := make([]float64, nnz)
	if err := binary.Read(f, binary.LittleEndian, &indptr); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &indices); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &data); err != nil {
		return nil, err
	}
	if indptr[rows] != nnz {
		return nil, fmt.Errorf("%s: indptr[%d]=%d no coincide con nnz=%d", path, rows, indptr[rows], nnz)
	}

	m := &sparse.CSR{
		Rows:    int(rows),
		Cols:    int(cols),
		Indptr:  make([]int, rows+1),
		Indices: make([]int, nnz),
		Data:    data,
	}
	for i, v := range indptr {
		m.Indptr[i] = int(v)
	}
	for i, v := range indices {
		if v < 0 || int64(v) >= cols {
			return nil, fmt.Errorf("%s: columna %d fuera de rango", path, v)
		}
		m.Indices[i] = int(v)
	}
	return m, nil
}

// SaveJSON serializa cualquier valor a un archivo JSON.
func SaveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	return enc.Encode(v)
}

// LoadJSON deserializa un archivo JSON en dest.
func LoadJSON(path string, dest any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(dest); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
