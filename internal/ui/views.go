package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/pingtop/internal/replay"
	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

func renderList(screen tcell.Screen, targets []target.Target, statsList []*stats.TargetStats, selected int, header string) {
	screen.Clear()
	width, height := screen.Size()
	if width < 40 || height < 4 {
		screen.Show()
		return
	}

	drawText(screen, 0, 0, width, header, tcell.StyleDefault.Bold(true))

	columns := " TARGET          ADDRESS            LAST      AVG       P95       LOSS    JITTER   Q "
	drawText(screen, 0, 1, width, columns, tcell.StyleDefault.Foreground(tcell.ColorGray))

	for i, tgt := range targets {
		y := 2 + i
		if y >= height-1 {
			break
		}
		st := statsList[i]

		line := fmt.Sprintf(" %s %s %s %s %s %s %s ",
			padOrTrim(tgt.Name, 15),
			padOrTrim(tgt.Addr.String(), 18),
			padOrTrim(formatOpt(st.Current()), 9),
			padOrTrim(formatOpt(st.Average()), 9),
			padOrTrim(formatOpt(st.P95()), 9),
			padOrTrim(fmt.Sprintf("%.1f%%", st.PacketLoss()), 7),
			padOrTrim(formatOpt(st.Jitter()), 8))

		rowStyle := tcell.StyleDefault
		if i == selected {
			rowStyle = rowStyle.Reverse(true)
		}
		drawText(screen, 0, y, width, line, rowStyle)

		grade, _, ok := st.QualityGrade()
		if !ok {
			grade = "-"
		}
		gradeCol := len([]rune(line))
		drawText(screen, gradeCol, y, 2, grade, gradeStyle(grade))

		sparkCol := gradeCol + 3
		if sparkCol < width {
			drawText(screen, sparkCol, y, width-sparkCol, sparkline(st.SparklineData(), width-sparkCol), rowStyle)
		}
	}

	footer := " q quit  j/k move  enter detail  r reset "
	drawText(screen, 0, height-1, width, footer, tcell.StyleDefault.Foreground(tcell.ColorGray))
	screen.Show()
}

func renderDetail(screen tcell.Screen, tgt target.Target, st *stats.TargetStats) {
	screen.Clear()
	width, height := screen.Size()
	if width < 40 || height < 12 {
		screen.Show()
		return
	}

	title := fmt.Sprintf(" %s (%s)  tracked %s", tgt.Name, tgt.Addr, stats.FormatElapsed(st.Elapsed()))
	drawText(screen, 0, 0, width, title, tcell.StyleDefault.Bold(true))

	allTime := st.AllTime()
	lost, lossPct := st.AllTimePacketLoss()
	lines := []string{
		fmt.Sprintf(" sent %d  received %d  lost %d (%.1f%%)", st.Sent(), st.Received(), lost, lossPct),
		fmt.Sprintf(" streak %d (longest %d)  since last loss %s",
			st.CurrentStreak(), st.LongestStreak(), formatOpt(st.TimeSinceLastLoss())),
		fmt.Sprintf(" window   min %s  avg %s  p50 %s  p95 %s  max %s",
			formatOpt(st.Min()), formatOpt(st.Average()), formatOpt(st.P50()),
			formatOpt(st.P95()), formatOpt(st.Max())),
		fmt.Sprintf(" all-time min %s  avg %s  p50 %s  p95 %s  max %s",
			formatOpt(allTime.Min()), formatOpt(allTime.Average()), formatOpt(allTime.P50()),
			formatOpt(allTime.P95()), formatOpt(allTime.Max())),
		fmt.Sprintf(" jitter %s", formatOpt(st.Jitter())),
	}
	if mos, ok := st.MOSScore(); ok {
		grade, desc, _ := st.QualityGrade()
		lines = append(lines, fmt.Sprintf(" quality %.2f MOS, grade %s (%s)", mos, grade, desc))
	}

	y := 2
	for _, line := range lines {
		drawText(screen, 0, y, width, line, tcell.StyleDefault)
		y++
	}

	y++
	y = renderHistogram(screen, st, y, width, height)

	drawText(screen, 0, height-1, width, " esc back  r reset  q quit ",
		tcell.StyleDefault.Foreground(tcell.ColorGray))
	screen.Show()
}

func renderHistogram(screen tcell.Screen, st *stats.TargetStats, y, width, height int) int {
	boundaries, counts, ok := st.Histogram(8)
	if !ok {
		return y
	}

	var maxCount uint64
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	drawText(screen, 0, y, width, " latency distribution (window)", tcell.StyleDefault.Bold(true))
	y++
	barWidth := width - 22
	for i, boundary := range boundaries {
		if y >= height-2 {
			break
		}
		bar := 0
		if maxCount > 0 && barWidth > 0 {
			bar = int(float64(counts[i]) / float64(maxCount) * float64(barWidth))
		}
		line := fmt.Sprintf(" %8.1fms %5d %s", boundary, counts[i], barString(bar))
		drawText(screen, 0, y, width, line, tcell.StyleDefault)
		y++
	}
	return y
}

func renderReplay(screen tcell.Screen, st *replay.State, targets []target.Target, statsList []*stats.TargetStats, selected int) {
	status := "playing"
	if st.Paused {
		status = "paused"
	}
	if st.Finished {
		status = "finished"
	}
	logTime := "-"
	if t, ok := st.CurrentLogTime(); ok {
		logTime = t.Format("15:04:05")
	}
	header := fmt.Sprintf(" replay  %d/%d (%.1f%%)  %.1fx  %s  %s  (space pause, h/l seek, +/- speed)",
		st.CurrentEvent(), st.TotalEvents(), st.Progress(), st.Speed(), status, logTime)
	renderList(screen, targets, statsList, selected, header)
}

func barString(n int) string {
	if n <= 0 {
		return ""
	}
	bar := make([]rune, n)
	for i := range bar {
		bar[i] = '█'
	}
	return string(bar)
}

func formatOpt(d time.Duration, ok bool) string {
	return stats.FormatOptional(d, ok)
}
