package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"StockOutlook/internal/model"
)

// price renders v with two decimals, half away from zero.
func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optPrice(v model.NullFloat64) string {
	if !v.Valid {
		return "n/a"
	}
	return price(v.Float64)
}

// pctChange returns last/first-1 as a signed percentage string.
func pctChange(first, last float64) string {
	if first == 0 {
		return "n/a"
	}
	d := decimal.NewFromFloat(last).Div(decimal.NewFromFloat(first)).Sub(decimal.NewFromInt(1)).Shift(2)
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

func directionIcon(d model.Direction) string {
	switch d {
	case model.Bullish:
		return "🟢"
	case model.Bearish:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatReport formats an outlook report into a Telegram message.
func FormatReport(rep *model.Report) string {
	var b strings.Builder
	snap := rep.Snapshot

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s outlook | %s\n\n",
		html.EscapeString(rep.Symbol), rep.Outlook.Horizon.Label(), rep.AsOf.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("%s <b>%s</b>  expected %s\n\n",
		directionIcon(rep.Outlook.Direction), rep.Outlook.Direction, html.EscapeString(rep.Outlook.ExpectedReturn)))

	b.WriteString(fmt.Sprintf("Close: %s\n", price(snap.Close)))
	b.WriteString(fmt.Sprintf("RSI(14): %s\n", optPrice(snap.RSI14)))
	b.WriteString(fmt.Sprintf("MACD: %s | Signal: %s | Diff: %s\n",
		optPrice(snap.MACD), optPrice(snap.MACDSignal), price(rep.Outlook.MACDDiff)))
	b.WriteString(fmt.Sprintf("MA20: %s | MA50: %s\n\n", optPrice(snap.MA20), optPrice(snap.MA50)))

	b.WriteString(fmt.Sprintf("🧱 Support: %s | Resistance: %s (%d days)\n",
		price(rep.Levels.Support), price(rep.Levels.Resistance), rep.Levels.Window))
	b.WriteString(fmt.Sprintf("   Position in range: %.0f%%\n", rep.RangePosition*100))
	b.WriteString(fmt.Sprintf("📈 Trend: %s (%s)\n", rep.Trend.State, rep.Trend.Commentary))
	return b.String()
}

// FormatLevels formats a support/resistance estimate.
func FormatLevels(symbol string, lv model.SupportResistance) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧱 <b>%s</b> levels (last %d days)\n\n", html.EscapeString(symbol), lv.Window))
	b.WriteString(fmt.Sprintf("Support: %s\n", price(lv.Support)))
	b.WriteString(fmt.Sprintf("Resistance: %s\n", price(lv.Resistance)))
	return b.String()
}

// FormatComparison summarizes two aligned close histories: the return of
// each over the shared period and the most recent tail rows.
func FormatComparison(cmp *model.Comparison, tail int) string {
	var b strings.Builder
	left, right := html.EscapeString(cmp.Left), html.EscapeString(cmp.Right)
	b.WriteString(fmt.Sprintf("⚖️ <b>%s vs %s</b>\n\n", left, right))
	if len(cmp.Points) == 0 {
		b.WriteString("No shared trading days.\n")
		return b.String()
	}

	first, last := cmp.Points[0], cmp.Points[len(cmp.Points)-1]
	b.WriteString(fmt.Sprintf("Period: %s to %s (%d days)\n",
		first.Time.Format("2006-01-02"), last.Time.Format("2006-01-02"), len(cmp.Points)))
	b.WriteString(fmt.Sprintf("%s: %s → %s (%s)\n", left, price(first.Left), price(last.Left), pctChange(first.Left, last.Left)))
	b.WriteString(fmt.Sprintf("%s: %s → %s (%s)\n", right, price(first.Right), price(last.Right), pctChange(first.Right, last.Right)))

	if tail > 0 {
		start := len(cmp.Points) - tail
		if start < 0 {
			start = 0
		}
		b.WriteString("\n<pre>")
		for _, p := range cmp.Points[start:] {
			b.WriteString(fmt.Sprintf("%s %10s %10s\n", p.Time.Format("01-02"), price(p.Left), price(p.Right)))
		}
		b.WriteString("</pre>")
	}
	return b.String()
}

// FormatError renders a failed request for the chat.
func FormatError(symbol, reason string) string {
	return fmt.Sprintf("⚠️ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(reason))
}

// FormatHelp returns the list of supported commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>StockOutlook commands</b>\n\n")
	b.WriteString("/outlook SYMBOL [short|medium] - technical outlook\n")
	b.WriteString("/levels SYMBOL [window] - support and resistance\n")
	b.WriteString("/compare SYMBOL OTHER - compare closes\n")
	b.WriteString("/watchlist - push the watchlist outlook now\n")
	b.WriteString("/help - this message\n")
	return b.String()
}
