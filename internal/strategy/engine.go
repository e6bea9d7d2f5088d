package strategy

import (
	"fmt"

	"StockOutlook/internal/model"
)

// Rules holds the thresholds and return bands for one horizon.
// A bullish call needs RSI above BullishRSI with a positive MACD
// difference; a bearish call needs RSI below BearishRSI with a negative one.
type Rules struct {
	BullishRSI  float64 `yaml:"bullish_rsi"`
	BearishRSI  float64 `yaml:"bearish_rsi"`
	BullishBand string  `yaml:"bullish_band"`
	BearishBand string  `yaml:"bearish_band"`
	NeutralBand string  `yaml:"neutral_band"`
}

// DefaultRules maps each horizon to its decision table. The medium-horizon
// bearish threshold is deliberately lower than the short one.
var DefaultRules = map[model.Horizon]Rules{
	model.HorizonShort: {
		BullishRSI:  65,
		BearishRSI:  40,
		BullishBand: "+2% to +4%",
		BearishBand: "-2% to -4%",
		NeutralBand: "-1% to +1%",
	},
	model.HorizonMedium: {
		BullishRSI:  65,
		BearishRSI:  35,
		BullishBand: "+4% to +7%",
		BearishBand: "-4% to -7%",
		NeutralBand: "-2% to +2%",
	},
}

// Validate checks that the thresholds are ordered inside (0, 100) and that
// every band is set.
func (r Rules) Validate() error {
	if !(r.BearishRSI > 0 && r.BearishRSI <= r.BullishRSI && r.BullishRSI < 100) {
		return fmt.Errorf("need 0 < bearish_rsi <= bullish_rsi < 100, got %g and %g", r.BearishRSI, r.BullishRSI)
	}
	if r.BullishBand == "" || r.BearishBand == "" || r.NeutralBand == "" {
		return fmt.Errorf("bullish_band, bearish_band and neutral_band are required")
	}
	return nil
}

// Classifier maps an indicator snapshot to an Outlook.
type Classifier struct {
	rules map[model.Horizon]Rules
}

// NewClassifier returns a Classifier over the given rules. Horizons missing
// from rules fall back to DefaultRules.
func NewClassifier(rules map[model.Horizon]Rules) *Classifier {
	merged := make(map[model.Horizon]Rules, len(DefaultRules))
	for h, r := range DefaultRules {
		merged[h] = r
	}
	for h, r := range rules {
		merged[h] = r
	}
	return &Classifier{rules: merged}
}

var defaultClassifier = NewClassifier(nil)

// Classify evaluates snap with DefaultRules.
func Classify(snap model.Snapshot, horizon model.Horizon) (model.Outlook, error) {
	return defaultClassifier.Classify(snap, horizon)
}

// Classify evaluates the decision table for horizon; the first matching
// row wins. RSI, MACD and MACD signal must all be defined.
func (c *Classifier) Classify(snap model.Snapshot, horizon model.Horizon) (model.Outlook, error) {
	r, ok := c.rules[horizon]
	if !ok {
		return model.Outlook{}, &model.InvalidInputError{Index: -1, Reason: fmt.Sprintf("unknown horizon %q", horizon)}
	}
	for _, f := range []struct {
		name string
		v    model.NullFloat64
	}{
		{"rsi14", snap.RSI14},
		{"macd", snap.MACD},
		{"macd_signal", snap.MACDSignal},
	} {
		if !f.v.Valid {
			return model.Outlook{}, &model.InsufficientDataError{Field: f.name}
		}
	}

	rsi := snap.RSI14.Float64
	diff := snap.MACD.Float64 - snap.MACDSignal.Float64
	out := model.Outlook{Horizon: horizon, RSI: rsi, MACDDiff: diff}

	switch {
	case rsi > r.BullishRSI && diff > 0:
		out.Direction, out.ExpectedReturn = model.Bullish, r.BullishBand
	case rsi < r.BearishRSI && diff < 0:
		out.Direction, out.ExpectedReturn = model.Bearish, r.BearishBand
	default:
		out.Direction, out.ExpectedReturn = model.Neutral, r.NeutralBand
	}
	return out, nil
}
