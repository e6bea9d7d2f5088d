package calculator

import (
	"time"

	"StockOutlook/internal/model"
)

// AlignCloses joins two series on their shared trading dates. Dates present
// in only one series are dropped; both inputs are already ascending, so a
// single merge pass suffices.
func AlignCloses(left, right *model.PriceSeries) (*model.Comparison, error) {
	cmp := &model.Comparison{Left: left.Symbol(), Right: right.Symbol()}
	i, j := 0, 0
	for i < left.Len() && j < right.Len() {
		l, r := left.At(i), right.At(j)
		lk, rk := dateKey(l.Time), dateKey(r.Time)
		switch {
		case lk == rk:
			cmp.Points = append(cmp.Points, model.AlignedClose{Time: l.Date(), Left: l.Close, Right: r.Close})
			i++
			j++
		case lk < rk:
			i++
		default:
			j++
		}
	}
	if len(cmp.Points) == 0 {
		return nil, &model.InsufficientDataError{Field: "comparison overlap", Need: 1}
	}
	return cmp, nil
}

// dateKey encodes the calendar date as yyyymmdd.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
