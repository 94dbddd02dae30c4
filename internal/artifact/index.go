package artifact

import "fmt"

// IDIndex es la biyección movieId<->índice que acompaña a cada grafo de
// similitud. Se persiste como sidecar JSON con ambos sentidos del mapeo
// (claves enteras serializadas como string, igual que el resto de la
// plataforma).
type IDIndex struct {
	MovieIndex map[int]int `json:"movie_index"`
	IndexMovie map[int]int `json:"index_movie"`
}

// Validate verifica que el índice sea una biyección total sobre
// exactamente dim entradas: sin huecos, sin duplicados y con ambos
// sentidos consistentes entre sí.
func (ix *IDIndex) Validate(dim int) error {
	if len(ix.MovieIndex) != dim {
		return fmt.Errorf("movie_index tiene %d entradas, el grafo %d filas", len(ix.MovieIndex), dim)
	}
	if len(ix.IndexMovie) != dim {
		return fmt.Errorf("index_movie tiene %d entradas, el grafo %d filas", len(ix.IndexMovie), dim)
	}
	for movieID, idx := range ix.MovieIndex {
		if idx < 0 || idx >= dim {
			return fmt.Errorf("movieId=%d mapea a índice %d fuera de [0,%d)", movieID, idx, dim)
		}
		back, ok := ix.IndexMovie[idx]
		if !ok || back != movieID {
			return fmt.Errorf("índice %d no mapea de vuelta a movieId=%d", idx, movieID)
		}
	}
	return nil
}
