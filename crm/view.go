package crm

import (
	"strings"
)

const FilterAll = "all"

// DeriveView filters the lead list for display: a lead matches when the
// search term appears case-insensitively in any searchable field (empty term
// matches everything) and its source equals filterValue ("all" passes every
// source). Input order is preserved.
//
// Single linear pass over the leads. An earlier revision re-scanned the full
// list per filter criterion and went quadratic on big pipelines; keep it O(n).
func DeriveView(items []Lead, searchTerm, filterValue string) []Lead {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	filtered := make([]Lead, 0, len(items))

	for _, item := range items {
		if filterValue != FilterAll && filterValue != "" && item.Source != filterValue {
			continue
		}
		if term != "" && !matchesTerm(item, term) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesTerm(item Lead, lowerTerm string) bool {
	for _, field := range item.searchableFields() {
		if strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}

// GroupByStage buckets the leads by pipeline stage. Every known stage gets a
// bucket up front, leads with an unknown stage land in StageNew rather than
// disappearing from the board.
func GroupByStage(items []Lead) Board {
	board := make(Board, len(Stages))
	for _, stage := range Stages {
		board[stage] = []Lead{}
	}

	for _, item := range items {
		stage := item.Stage
		if _, known := board[stage]; !known {
			stage = StageNew
		}
		board[stage] = append(board[stage], item)
	}
	return board
}
