package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 100)
	for i := 0; i < 100; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Start(func(job int) int {
		return job * job
	})
	wp.Wait()

	results := make([]int, 0, 100)
	for r := range wp.CollectResults() {
		results = append(results, r)
	}
	sort.Ints(results)
	assert.Len(t, results, 100)
	assert.Equal(t, 0, results[0])
	assert.Equal(t, 99*99, results[99])
}

func TestWorkerPoolMatrixCells(t *testing.T) {
	wp := NewWorkerPool[MatrixCell, MatrixCellResult](0, 4)
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			wp.AddJob(NewMatrixCell(row, col, uint32(row), uint32(col)))
		}
	}
	wp.Close()
	wp.Start(func(cell MatrixCell) MatrixCellResult {
		return MatrixCellResult{Row: cell.Row, Col: cell.Col, Weight: float32(cell.Source + cell.Target)}
	})
	wp.Wait()

	matrix := [2][2]float32{}
	for r := range wp.CollectResults() {
		matrix[r.Row][r.Col] = r.Weight
	}
	assert.Equal(t, [2][2]float32{{0, 1}, {1, 2}}, matrix)
}
