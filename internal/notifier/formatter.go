package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"TickerVault/internal/model"
	"TickerVault/internal/updater"
)

// FormatUpdateReport renders one update cycle as a Telegram HTML message:
// the per-ticker summary table followed by the cycle log.
func FormatUpdateReport(res *updater.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s update</b> | %s\n\n", res.Region, time.Now().Format(model.DateOnly)))

	if len(res.Summary) == 0 {
		b.WriteString("No tickers to summarize.\n")
	} else {
		tickers := make([]string, 0, len(res.Summary))
		for t := range res.Summary {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)

		for _, t := range tickers {
			row := res.Summary[t]
			b.WriteString(fmt.Sprintf("<b>%s</b> %s\n", t, orNA(row.Company)))
			b.WriteString(fmt.Sprintf("  price %s (%s) | cap %s\n",
				formatOptional(row.CurrentPrice, "%.2f"),
				formatOptional(row.PercentChange, "%+.2f%%"),
				formatCap(row.MarketCap)))
			b.WriteString(fmt.Sprintf("  off 1y high %s | off 90d high %s | rating %s\n",
				formatOptional(row.Decrease1Y, "%.1f%%"),
				formatOptional(row.Decrease90D, "%.1f%%"),
				orNA(row.AnalystRating)))
		}
	}

	if len(res.Log) > 0 {
		b.WriteString("\n<b>Log:</b>\n")
		for _, line := range res.Log {
			b.WriteString("• " + line + "\n")
		}
	}
	return b.String()
}

// FormatStatus renders the region list and cached ticker counts.
func FormatStatus(counts map[string]int) string {
	var b strings.Builder
	b.WriteString("📦 <b>Cache status</b>\n\n")
	regions := make([]string, 0, len(counts))
	for r := range counts {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	for _, r := range regions {
		b.WriteString(fmt.Sprintf("%s: %d tickers\n", r, counts[r]))
	}
	return b.String()
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *v)
}

func formatCap(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return humanize.SIWithDigits(*v, 2, "")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
