package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"nodosml-recsys/internal/sparse"
)

func TestCSRRoundtrip(t *testing.T) {
	m := sparse.FromRows([][]sparse.Entry{
		{{Col: 0, Val: 0.5}, {Col: 2, Val: 0.25}},
		{},
		{{Col: 1, Val: 1.0}},
	}, 3)

	path := filepath.Join(t.TempDir(), "m.bin")
	if err := SaveCSR(path, m); err != nil {
		t.Fatalf("SaveCSR: %v", err)
	}

	got, err := LoadCSR(path)
	if err != nil {
		t.Fatalf("LoadCSR: %v", err)
	}
	if got.Rows != m.Rows || got.Cols != m.Cols {
		t.Fatalf("dimensiones %dx%d, esperaba %dx%d", got.Rows, got.Cols, m.Rows, m.Cols)
	}
	if !reflect.DeepEqual(got.Indptr, m.Indptr) ||
		!reflect.DeepEqual(got.Indices, m.Indices) ||
		!reflect.DeepEqual(got.Data, m.Data) {
		t.Errorf("matriz leída distinta:\n got %+v\nwant %+v", got, m)
	}
}

func TestLoadCSRRechazaBasura(t *testing.T) {
	t.Run("magic incorrecto", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.bin")
		if err := os.WriteFile(path, []byte("XXXX garbage"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCSR(path); err == nil {
			t.Error("esperaba error con magic incorrecto")
		}
	})

	t.Run("archivo truncado", func(t *testing.T) {
		m := sparse.FromRows([][]sparse.Entry{{{Col: 0, Val: 1}}}, 1)
		path := filepath.Join(t.TempDir(), "trunc.bin")
		if err := SaveCSR(path, m); err != nil {
			t.Fatal(err)
		}
		b, _ := os.ReadFile(path)
		if err := os.WriteFile(path, b[:len(b)-4], 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCSR(path); err == nil {
			t.Error("esperaba error con archivo truncado")
		}
	})

	t.Run("archivo ausente", func(t *testing.T) {
		if _, err := LoadCSR(filepath.Join(t.TempDir(), "no-existe.bin")); err == nil {
			t.Error("esperaba error con archivo ausente")
		}
	})
}

func TestIDIndexValidate(t *testing.T) {
	valid := IDIndex{
		MovieIndex: map[int]int{10: 0, 20: 1},
		IndexMovie: map[int]int{0: 10, 1: 20},
	}
	if err := valid.Validate(2); err != nil {
		t.Errorf("índice válido rechazado: %v", err)
	}

	t.Run("dimensión que no calza", func(t *testing.T) {
		if err := valid.Validate(3); err == nil {
			t.Error("esperaba error con dim=3")
		}
	})

	t.Run("mapeos inconsistentes", func(t *testing.T) {
		broken := IDIndex{
			MovieIndex: map[int]int{10: 0, 20: 1},
			IndexMovie: map[int]int{0: 10, 1: 99},
		}
		if err := broken.Validate(2); err == nil {
			t.Error("esperaba error con mapeo inverso roto")
		}
	})

	t.Run("índice fuera de rango", func(t *testing.T) {
		broken := IDIndex{
			MovieIndex: map[int]int{10: 0, 20: 5},
			IndexMovie: map[int]int{0: 10, 5: 20},
		}
		if err := broken.Validate(2); err == nil {
			t.Error("esperaba error con índice 5 en dim=2")
		}
	})
}
