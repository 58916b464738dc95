package notifier

import (
	"fmt"
	"strings"

	"AlphaMind/internal/model"
	"AlphaMind/internal/recorder"
)

// FormatForecast formats a completed forecast into a Telegram message.
func FormatForecast(rep *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔮 <b>AlphaMind forecast</b> | %s\n\n", rep.Ticker()))
	b.WriteString(fmt.Sprintf("Current price: %.2f\n", rep.CurrentPrice()))

	if p, ok := rep.PredictedPrice(); ok {
		d, _ := rep.PredictionDate()
		change := 0.0
		if rep.CurrentPrice() != 0 {
			change = (p - rep.CurrentPrice()) / rep.CurrentPrice() * 100
		}
		b.WriteString(fmt.Sprintf("Predicted %s: %.2f (%+.1f%%)\n", d.Format(model.DateLayout), p, change))
	}
	b.WriteString(fmt.Sprintf("Test accuracy: %.1f%%\n", rep.Accuracy()))

	prices := rep.PredictedPrices()
	dates := rep.PredictionDates()
	if len(prices) > 1 {
		b.WriteString("\n📈 <b>Path:</b>\n")
		for _, i := range checkpoints(len(prices)) {
			b.WriteString(fmt.Sprintf("  %s  %.2f\n", dates[i].Format(model.DateLayout), prices[i]))
		}
	}

	if rsi := rep.Indicator(model.ColRSI); len(rsi) > 0 {
		b.WriteString(fmt.Sprintf("\nRSI(14): %.0f", rsi[len(rsi)-1]))
		if ma := rep.Indicator(model.ColMA200); len(ma) > 0 && ma[len(ma)-1] > 0 {
			dev := (rep.CurrentPrice() - ma[len(ma)-1]) / ma[len(ma)-1] * 100
			b.WriteString(fmt.Sprintf(" | MA200 %+.1f%%", dev))
		}
		b.WriteString("\n")
	}

	if top := rep.TopFeatures(); len(top) > 0 {
		names := make([]string, len(top))
		for i, f := range top {
			names[i] = f.Name
		}
		b.WriteString(fmt.Sprintf("Top features: %s\n", strings.Join(names, ", ")))
	}

	m := rep.Metrics()
	b.WriteString(fmt.Sprintf("Samples: %d train / %d test, %d features × %d days\n",
		m.TrainingSamples, m.TestSamples, m.FeaturesCount, m.SequenceLength))
	return b.String()
}

// checkpoints picks up to five evenly spaced indices, always including the last.
func checkpoints(n int) []int {
	if n <= 5 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 5)
	for k := 0; k < 4; k++ {
		out = append(out, k*(n-1)/4)
	}
	return append(out, n-1)
}

// FormatFailure formats a failed run.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>Forecast failed</b> | %s\n\n%s", symbol, escape(err.Error()))
}

// FormatHistory formats the stored runs of a symbol.
func FormatHistory(symbol string, runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return fmt.Sprintf("No recorded runs for %s", symbol)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Recent runs</b> | %s\n\n", symbol))
	for _, r := range runs {
		ts := r.Timestamp.Format("2006-01-02 15:04")
		if !r.Success {
			b.WriteString(fmt.Sprintf("%s  failed (%s)\n", ts, r.ErrorKind))
			continue
		}
		b.WriteString(fmt.Sprintf("%s  %.2f → %.2f on %s, acc %.1f%%\n",
			ts, r.CurrentPrice, r.PredictedPrice, r.PredictionDate, r.Accuracy))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp(symbols []string) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("• /forecast TICKER\n")
	b.WriteString("• /history TICKER\n")
	b.WriteString("• /symbols\n")
	if len(symbols) > 0 {
		b.WriteString(fmt.Sprintf("\nScheduled: %s", strings.Join(symbols, ", ")))
	}
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
