package eventstudy

import (
	"sort"
	"time"

	"macrostudy/pkg/series"
)

// CorrPair reports the pre/post co-movement shift for one unordered asset
// pair around one event. AssetA < AssetB lexicographically.
type CorrPair struct {
	EventType string
	EventDate time.Time
	AssetA    string
	AssetB    string
	PreCorr   float64
	PostCorr  float64
	CorrDelta float64
	PreN      int
	PostN     int
}

// CorrelationShift computes date-aligned Pearson correlations over the pre
// and post windows of every unordered asset pair present for one event.
// Pairs with fewer than minOverlap aligned observations on either side are
// omitted, not zero-filled. Output is sorted lexicographically by asset pair
// so downstream iteration is reproducible.
func CorrelationShift(windows map[string]*Window, minOverlap int) []CorrPair {
	if minOverlap < 2 {
		minOverlap = 2
	}
	symbols := make([]string, 0, len(windows))
	for sym, w := range windows {
		if w != nil {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	var pairs []CorrPair
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			wa, wb := windows[symbols[i]], windows[symbols[j]]
			preA, preB := alignByDate(wa.PreDates, wa.Pre, wb.PreDates, wb.Pre)
			postA, postB := alignByDate(wa.PostDates, wa.Post, wb.PostDates, wb.Post)
			if len(preA) < minOverlap || len(postA) < minOverlap {
				continue
			}
			preCorr := series.Pearson(preA, preB)
			postCorr := series.Pearson(postA, postB)
			pairs = append(pairs, CorrPair{
				EventDate: wa.EventDate,
				AssetA:    symbols[i],
				AssetB:    symbols[j],
				PreCorr:   preCorr,
				PostCorr:  postCorr,
				CorrDelta: postCorr - preCorr,
				PreN:      len(preA),
				PostN:     len(postA),
			})
		}
	}
	return pairs
}

// alignByDate intersects two date-keyed return slices. Both inputs are
// sorted ascending, so a two-pointer merge suffices.
func alignByDate(datesA []time.Time, valsA []float64, datesB []time.Time, valsB []float64) ([]float64, []float64) {
	var outA, outB []float64
	i, j := 0, 0
	for i < len(datesA) && j < len(datesB) {
		switch {
		case datesA[i].Before(datesB[j]):
			i++
		case datesB[j].Before(datesA[i]):
			j++
		default:
			outA = append(outA, valsA[i])
			outB = append(outB, valsB[j])
			i++
			j++
		}
	}
	return outA, outB
}
