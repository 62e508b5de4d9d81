package analysis

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// WriteReport renders s as the plain-text analysis report.
func WriteReport(w io.Writer, s Summary, batchID int) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	p("== Analysis Summary (batch %d) ==\n", batchID)
	p("Total Battles: %s\n\n", humanize.Comma(int64(s.Battles)))

	p("Wins:\n")
	p("- Group: %s (%.1f%%)\n", humanize.Comma(int64(s.GroupWins)), s.GroupWinRate)
	p("- Solo: %s (%.1f%%)\n\n", humanize.Comma(int64(s.SoloWins)), s.SoloWinRate)

	p("Average Group Casualties: %s\n", humanize.CommafWithDigits(s.AvgCasualties, 1))
	p("Average Rounds: %s\n", humanize.CommafWithDigits(s.AvgRounds, 1))
	p("Solo Survival Rate: %.1f%%\n", s.SoloSurvivalRate)
	p("Average Critical Hits: %s\n", humanize.CommafWithDigits(s.AvgCriticalHits, 1))
	p("Average Group Damage per Agent: %s\n", humanize.CommafWithDigits(s.AvgGroupDamage, 2))
	p("Average Solo End HP: %s\n", humanize.CommafWithDigits(s.AvgSoloEndHP, 1))
	p("Solo Final Blow: %.1f%%\n", s.SoloFinalBlows)

	section := func(title string, shares []Share) {
		p("\n%s:\n", title)
		for _, sh := range shares {
			p("- %s: %.1f%%\n", sh.Name, sh.Percent)
		}
	}
	section("Termination", s.Terminations)
	section("Climate Breakdown", s.Climates)
	section("Weather Breakdown", s.Weather)

	p("\nDay/Night:\n")
	if s.Battles > 0 {
		p("- Day: %.1f%%\n", s.DayRate)
		p("- Night: %.1f%%\n", 100-s.DayRate)
	}
	return bw.Flush()
}
