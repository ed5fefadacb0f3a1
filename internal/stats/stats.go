// Package stats contains daily review statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/benkyo/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Day is one calendar day of review counters.
type Day struct {
	Date    string
	Total   int
	Correct int
}

// Accuracy returns the share of correct answers, or 0 for an idle day.
func (d Day) Accuracy() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Correct) / float64(d.Total)
}

// Window returns the last n days ending at today, oldest first. Days without
// answers are included with zero counters.
func Window(daily model.DailyStats, today time.Time, n int) []Day {
	if n <= 0 {
		return nil
	}
	today = today.UTC()
	days := make([]Day, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := model.DayKey(today.AddDate(0, 0, -i))
		counters := daily[key]
		days = append(days, Day{Date: key, Total: counters.Total, Correct: counters.Correct})
	}
	return days
}

// GoalPercent returns how far total is toward goal, capped at 100.
func GoalPercent(total, goal int) int {
	if goal <= 0 {
		return 100
	}
	pct := int(math.Round(float64(total) / float64(goal) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Streak counts consecutive days with at least one answer, ending today. A
// day not yet started does not break the streak.
func Streak(daily model.DailyStats, today time.Time) int {
	day := today.UTC()
	if daily[model.DayKey(day)].Total == 0 {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for daily[model.DayKey(day)].Total > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints today's progress toward goal and the streak.
func RenderSummary(w io.Writer, daily model.DailyStats, today time.Time, goal int) error {
	counters := daily[model.DayKey(today)]
	d := Day{Total: counters.Total, Correct: counters.Correct}
	if _, err := fmt.Fprintln(w, "Today"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Answers: %d/%d (%d%%)\n", d.Total, goal, GoalPercent(d.Total, goal)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Correct: %d (%.1f%%)\n", d.Correct, d.Accuracy()*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Streak: %d day(s)\n", Streak(daily, today)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderDays prints a per-day table followed by an accuracy sparkline.
func RenderDays(w io.Writer, days []Day) error {
	var active []Day
	for _, d := range days {
		if d.Total > 0 {
			active = append(active, d)
		}
	}
	if len(active) == 0 {
		_, err := fmt.Fprintln(w, "No reviews in this period.")
		return err
	}

	rows := make([][]string, 0, len(active))
	for _, d := range active {
		rows = append(rows, []string{
			d.Date,
			fmt.Sprintf("%d", d.Total),
			fmt.Sprintf("%d", d.Correct),
			fmt.Sprintf("%.1f%%", d.Accuracy()*100),
		})
	}
	for _, line := range FormatTable([]string{"Date", "Answers", "Correct", "Accuracy"}, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	accs := make([]float64, len(days))
	for i, d := range days {
		accs[i] = d.Accuracy() * 100
	}
	if _, err := fmt.Fprintf(w, "\nAccuracy [%s] %s .. %s\n", Sparkline(accs), days[0].Date, days[len(days)-1].Date); err != nil {
		return err
	}
	return nil
}
