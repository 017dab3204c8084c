package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"treasuregate/internal/catalog"
	"treasuregate/internal/state"
)

// FormatStats renders play history as plain text for the stats overlay and
// the stats command.
func FormatStats(summary state.Summary, progress map[string]state.PuzzleProgress, cat *catalog.Catalog, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Voyages: %s\n", humanize.Comma(int64(summary.Sessions))))
	b.WriteString(fmt.Sprintf("Gate attempts: %s (%s rejected)\n",
		humanize.Comma(int64(summary.GateAttempts)), humanize.Comma(int64(summary.GateRejections))))
	b.WriteString(fmt.Sprintf("Puzzles dealt: %s\n", humanize.Comma(int64(summary.PuzzleRuns))))
	b.WriteString(fmt.Sprintf("Solves: %s\n", humanize.Comma(int64(summary.Solves))))
	b.WriteString(fmt.Sprintf("Moves made: %s\n", humanize.Comma(int64(summary.TotalMoves))))
	b.WriteString("Last solved: " + relTime(summary.LastSolvedTS, now) + "\n")

	if len(progress) == 0 {
		return b.String()
	}
	ids := make([]string, 0, len(progress))
	for id := range progress {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b.WriteString("\nBest runs\n")
	for _, id := range ids {
		p := progress[id]
		name := id
		if cat != nil {
			if pz, err := cat.Find(id); err == nil {
				name = pz.Title
			}
		}
		if p.SolvedCount == 0 {
			b.WriteString(fmt.Sprintf("- %s: unsolved, last played %s\n", name, relTime(p.LastPlayedTS, now)))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: solved %s, best %d pts, %d moves, %s, last solved %s\n",
			name,
			english.Plural(p.SolvedCount, "time", "times"),
			p.BestScore,
			p.BestMoves,
			(time.Duration(p.BestTimeMS) * time.Millisecond).Truncate(time.Second),
			relTime(p.LastSolvedTS, now),
		))
	}
	return b.String()
}

// FormatCatalog lists the puzzles of cat with their solve counts.
func FormatCatalog(cat *catalog.Catalog, progress map[string]state.PuzzleProgress) string {
	var b strings.Builder
	for _, p := range cat.Puzzles {
		solved := "unsolved"
		if pr, ok := progress[p.PuzzleID]; ok && pr.SolvedCount > 0 {
			solved = "solved " + english.Plural(pr.SolvedCount, "time", "times")
		}
		b.WriteString(fmt.Sprintf("%-24s %-32s %dx%d  %s\n", p.PuzzleID, p.Title, p.Size, p.Size, solved))
	}
	return b.String()
}

func relTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "never"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
