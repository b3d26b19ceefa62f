package concurrent

type Job[T any] struct {
	ID      int
	JobItem T
}

type JobFunc[T any, G any] func(job T) G

// MatrixCell. satu pasangan source-target di query many-to-many.
type MatrixCell struct {
	Row    int
	Col    int
	Source uint32
	Target uint32
}

func NewMatrixCell(row, col int, source, target uint32) MatrixCell {
	return MatrixCell{Row: row, Col: col, Source: source, Target: target}
}

// MatrixCellResult. Weight < 0 kalau target tidak bisa dicapai.
type MatrixCellResult struct {
	Row    int
	Col    int
	Weight float32
	Err    error
}
