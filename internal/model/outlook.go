package model

import (
	"fmt"
	"strings"
	"time"
)

// Horizon is the forecast time frame.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
)

// Horizons lists every supported horizon.
var Horizons = []Horizon{HorizonShort, HorizonMedium}

// ParseHorizon accepts short/medium and the weekly/monthly aliases.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "weekly", "week", "w":
		return HorizonShort, nil
	case "medium", "monthly", "month", "m":
		return HorizonMedium, nil
	default:
		return "", &InvalidInputError{Index: -1, Reason: fmt.Sprintf("unknown horizon %q", s)}
	}
}

// Label is the display name of the horizon.
func (h Horizon) Label() string {
	switch h {
	case HorizonShort:
		return "Weekly"
	case HorizonMedium:
		return "Monthly"
	default:
		return string(h)
	}
}

// Direction is the discrete outlook label.
type Direction string

const (
	Bullish Direction = "Bullish"
	Bearish Direction = "Bearish"
	Neutral Direction = "Sideways/Neutral"
)

// Outlook is the classifier's output.
type Outlook struct {
	Horizon        Horizon   `json:"horizon"`
	Direction      Direction `json:"direction"`
	ExpectedReturn string    `json:"expected_return"`
	RSI            float64   `json:"rsi"`
	MACDDiff       float64   `json:"macd_diff"`
}

// SupportResistance holds the trailing-window price bounds.
type SupportResistance struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Window     int     `json:"window"`
}

// Report bundles everything produced for one symbol request.
type Report struct {
	Symbol        string            `json:"symbol"`
	AsOf          time.Time         `json:"as_of"`
	Snapshot      Snapshot          `json:"snapshot"`
	Outlook       Outlook           `json:"outlook"`
	Levels        SupportResistance `json:"levels"`
	RangePosition float64           `json:"range_position"` // 0.0 at support, 1.0 at resistance
	Trend         Trend             `json:"trend"`
}

// AlignedClose pairs two symbols' closes on a shared trading date.
type AlignedClose struct {
	Time  time.Time `json:"time"`
	Left  float64   `json:"left"`
	Right float64   `json:"right"`
}

// Comparison is the date-aligned close history of two symbols.
type Comparison struct {
	Left   string         `json:"left"`
	Right  string         `json:"right"`
	Points []AlignedClose `json:"points"`
}

// TrendState describes moving-average alignment.
type TrendState string

const (
	Uptrend   TrendState = "uptrend"
	Downtrend TrendState = "downtrend"
	Ranging   TrendState = "ranging"
	Unknown   TrendState = "unknown"
)

// Trend is a descriptive read of the latest close against its moving
// averages and the support/resistance band. It does not affect the Outlook.
type Trend struct {
	State          TrendState `json:"state"`
	NearSupport    bool       `json:"near_support"`
	NearResistance bool       `json:"near_resistance"`
	Commentary     string     `json:"commentary"`
}
