package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/benkyo/internal/grade"
	"github.com/verte-zerg/benkyo/internal/importer"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/review"
)

// RunLines drives sess with one answer per input line, for use when stdin is
// not a terminal. End of input stops early and keeps the saved progress.
func RunLines(ctx context.Context, sess *review.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		item, ok := sess.Current()
		if !ok {
			_, err := fmt.Fprintln(out, "Session complete.")
			return err
		}
		index, total := sess.Position()
		if _, err := fmt.Fprintf(out, "[%d/%d] %s\n", index+1, total, item.Key()); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		res, err := sess.Grade(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, lineFeedback(item, res)); err != nil {
			return err
		}
		if err := sess.Advance(ctx); err != nil {
			return err
		}
	}
}

func lineFeedback(item model.Item, res grade.Result) string {
	msg := res.String()
	if res != grade.Exact {
		msg += ": " + item.Answer()
	}
	if f := extra(item.Record); f.value != "" {
		msg += " (" + f.value + ")"
	}
	return msg
}

// PromptDuplicates resolves rec by reading c, s, C or S per line. End of input
// skips whatever is left.
func PromptDuplicates[R model.Record](rec *importer.Reconciler[R], in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for !rec.Done() {
		cand, cur, _ := rec.Pending()
		if _, err := fmt.Fprintf(out, "Duplicate %q (%d left)\n%s\n[c]over [s]kip [C]over all [S]kip all: ", cand.Key(), rec.Remaining(), compareFields(cur, cand)); err != nil {
			return err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return rec.DecideAll(importer.SkipAll)
		}
		res, ok := resolutionKeys[strings.TrimSpace(scanner.Text())]
		if !ok {
			continue
		}
		if err := rec.Decide(res); err != nil {
			return err
		}
	}
	return nil
}
