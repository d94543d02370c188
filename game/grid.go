package game

import "github.com/bellapacxx/squares-backend/models"

// WinningPosition maps a settled score onto the board: the home digit picks
// the column, the away digit picks the row. ok is false when the score is
// pending or cannot be placed on the grid.
func WinningPosition(grid *models.GridNumbers, score models.ScoreValue) (pos int, ok bool) {
	if !grid.Complete() || !score.Settled() {
		return 0, false
	}
	if *score.Home < 0 || *score.Away < 0 {
		return 0, false
	}

	colIdx := indexOf(grid.Col, *score.Home%10)
	rowIdx := indexOf(grid.Row, *score.Away%10)
	if colIdx < 0 || rowIdx < 0 {
		return 0, false
	}
	return rowIdx*models.GridSize + colIdx, true
}

func indexOf(seq []int, v int) int {
	for i, d := range seq {
		if d == v {
			return i
		}
	}
	return -1
}
