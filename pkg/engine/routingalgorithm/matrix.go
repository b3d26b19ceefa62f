package routingalgorithm

import (
	"context"
	"runtime"

	"github.com/lintang-b-s/navigatorx-ch/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-ch/pkg/contracted"
)

// Unreachable. nilai cell matrix kalau target tidak bisa dicapai.
const Unreachable = float32(-1)

// PairQuery. shortest path satu pasangan source -> target.
type PairQuery func(source, target uint32) (Route, bool, error)

/*
QueryMatrix. weight shortest path node-based tiap pasangan sources x targets, dijalankan paralel di worker pool.
tiap query punya state sendiri, graph cuma dibaca.
*/
func QueryMatrix(ctx context.Context, db *contracted.ContractedDb, sources, targets []uint32,
	workers int) ([][]float32, error) {
	return QueryMatrixFunc(ctx, sources, targets, workers, func(source, target uint32) (Route, bool, error) {
		return Query(db, []uint32{source}, []uint32{target})
	})
}

// QueryMatrixFunc. seperti QueryMatrix dengan query per pasangan dari caller (misal edge-based).
func QueryMatrixFunc(ctx context.Context, sources, targets []uint32, workers int, query PairQuery) ([][]float32, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	matrix := make([][]float32, len(sources))
	for i := range matrix {
		matrix[i] = make([]float32, len(targets))
	}
	if len(sources) == 0 || len(targets) == 0 {
		return matrix, nil
	}

	wp := concurrent.NewWorkerPool[concurrent.MatrixCell, concurrent.MatrixCellResult](workers,
		len(sources)*len(targets))
	for i, s := range sources {
		for j, t := range targets {
			wp.AddJob(concurrent.NewMatrixCell(i, j, s, t))
		}
	}
	wp.Close()
	wp.Start(func(cell concurrent.MatrixCell) concurrent.MatrixCellResult {
		result := concurrent.MatrixCellResult{Row: cell.Row, Col: cell.Col, Weight: Unreachable}
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		route, ok, err := query(cell.Source, cell.Target)
		if err != nil {
			result.Err = err
			return result
		}
		if ok {
			result.Weight = route.Weight
		}
		return result
	})
	wp.Wait()

	var firstErr error
	for r := range wp.CollectResults() {
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
		}
		matrix[r.Row][r.Col] = r.Weight
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return matrix, nil
}
