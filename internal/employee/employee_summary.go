package employee

import (
	"math"
	"sort"
	"time"
)

// ComputeSummary aggregates the dashboard numbers over the non-deleted
// records. Growth compares hires in the last 30 days against the 30 days
// before that; with an empty previous window the change is 100 when the
// current window has hires, else 0.
func ComputeSummary(collection []Employee, now time.Time) SummaryResponse {
	active := make([]Employee, 0, len(collection))
	for _, e := range collection {
		if !e.Deleted {
			active = append(active, e)
		}
	}

	total := len(active)

	activeCount := 0
	for _, e := range active {
		if e.EffectiveStatus() == StatusActive {
			activeCount++
		}
	}
	inactiveCount := total - activeCount

	activePct := 0
	if total > 0 {
		activePct = int(math.Round(float64(activeCount) / float64(total) * 100))
	}

	counts := make(map[string]int)
	for _, e := range active {
		pos := e.EffectivePosition()
		if pos == "" {
			pos = "Unknown"
		}
		counts[pos]++
	}
	top := make([]PositionCount, 0, len(counts))
	for pos, n := range counts {
		top = append(top, PositionCount{Position: pos, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Position < top[j].Position
	})
	if len(top) > 3 {
		top = top[:3]
	}

	avgTenure := 0.0
	if total > 0 {
		sum := 0.0
		for _, e := range active {
			if joined, ok := e.JoinedAt(); ok {
				sum += now.Sub(joined).Hours() / 24 / 365
			}
		}
		avgTenure = math.Round(sum/float64(total)*10) / 10
	}

	const window = 30 * 24 * time.Hour
	addedLast30 := 0
	addedPrev30 := 0
	for _, e := range active {
		joined, ok := e.JoinedAt()
		if !ok {
			continue
		}
		diff := now.Sub(joined)
		switch {
		// Future-dated hires count toward the current window.
		case diff <= window:
			addedLast30++
		case diff > window && diff <= 2*window:
			addedPrev30++
		}
	}

	pctChange := 0
	if addedPrev30 == 0 {
		if addedLast30 > 0 {
			pctChange = 100
		}
	} else {
		pctChange = int(math.Round(float64(addedLast30-addedPrev30) / float64(addedPrev30) * 100))
	}

	return SummaryResponse{
		Total:           total,
		ActiveCount:     activeCount,
		InactiveCount:   inactiveCount,
		ActivePct:       activePct,
		TopPositions:    top,
		AvgTenureYears:  avgTenure,
		AddedLast30Days: addedLast30,
		PctChange:       pctChange,
	}
}
