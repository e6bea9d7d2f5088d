package strategy

import (
	"math"

	"StockOutlook/internal/model"
)

// nearBand is the relative distance within which a close counts as
// touching support or resistance.
const nearBand = 0.01

// DescribeTrend reads the moving-average alignment of the latest close.
// Up: close > MA20 > MA50. Down: close < MA20 < MA50.
func DescribeTrend(snap model.Snapshot, levels model.SupportResistance) model.Trend {
	tr := model.Trend{State: model.Unknown}
	if levels.Resistance > 0 {
		tr.NearResistance = math.Abs(snap.Close-levels.Resistance)/levels.Resistance < nearBand
	}
	if levels.Support > 0 {
		tr.NearSupport = math.Abs(snap.Close-levels.Support)/levels.Support < nearBand
	}
	if !snap.MA20.Valid || !snap.MA50.Valid {
		tr.Commentary = "moving averages not seated"
		return tr
	}

	ma20, ma50 := snap.MA20.Float64, snap.MA50.Float64
	bullish := snap.Close > ma20 && ma20 > ma50
	bearish := snap.Close < ma20 && ma20 < ma50

	switch {
	case bullish && tr.NearResistance:
		tr.State, tr.Commentary = model.Uptrend, "bullish alignment, testing resistance"
	case bullish:
		tr.State, tr.Commentary = model.Uptrend, "bullish alignment"
	case bearish && tr.NearSupport:
		tr.State, tr.Commentary = model.Downtrend, "bearish alignment, testing support"
	case bearish:
		tr.State, tr.Commentary = model.Downtrend, "bearish alignment"
	default:
		tr.State, tr.Commentary = model.Ranging, "mixed alignment"
	}
	return tr
}
