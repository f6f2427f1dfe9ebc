// Package snapshot exports the books as plain CSV files so they can be
// diffed and kept in git.
//
// Layout:
//
//	accounts/chart-of-accounts.csv
//	journal/YYYY/MM/journal.csv   posted lines of the month
//	activity/activity-log.csv     every recorded mutation, oldest first
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/activitylog"
	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/gitops"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// ChartPath is the chart's location inside a snapshot.
const ChartPath = "accounts/chart-of-accounts.csv"

// ActivityPath is the activity log's location inside a snapshot. It is
// only written once something has been recorded.
const ActivityPath = "activity/activity-log.csv"

// JournalPath returns the location of a month's journal.
func JournalPath(year, month int) string {
	return filepath.Join("journal", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

// Options control committing.
type Options struct {
	Commit  bool
	Message string
	Author  gitops.Author
}

// Result describes a written snapshot.
type Result struct {
	Files  []string `json:"files"`
	Lines  int      `json:"lines"`
	Commit string   `json:"commit,omitempty"`
}

// Write exports the books into dir and, when opts.Commit is set and dir
// is a git repository with changes, commits them.
func Write(ctx context.Context, tables *store.Tables, dir string, opts Options, logger *zap.Logger) (Result, error) {
	l, err := books.LoadLedger(ctx, tables, journal.Filter{})
	if err != nil {
		return Result{}, err
	}

	var res Result
	var buf bytes.Buffer
	if err := accounts.WriteAccounts(&buf, l.Chart.All()); err != nil {
		return Result{}, err
	}
	if err := writeFile(dir, ChartPath, buf.Bytes()); err != nil {
		return Result{}, err
	}
	res.Files = append(res.Files, ChartPath)

	for _, month := range byMonth(l.Lines) {
		buf.Reset()
		if err := journal.WriteLines(&buf, month.lines); err != nil {
			return Result{}, err
		}
		path := JournalPath(month.year, month.month)
		if err := writeFile(dir, path, buf.Bytes()); err != nil {
			return Result{}, err
		}
		res.Files = append(res.Files, path)
		res.Lines += len(month.lines)
	}
	activity, err := tables.Activity.List(ctx, store.Query{Order: "at"})
	if err != nil {
		return Result{}, fmt.Errorf("loading activity log: %w", err)
	}
	if len(activity) > 0 {
		buf.Reset()
		if err := activitylog.Write(&buf, activity); err != nil {
			return Result{}, err
		}
		if err := writeFile(dir, ActivityPath, buf.Bytes()); err != nil {
			return Result{}, err
		}
		res.Files = append(res.Files, ActivityPath)
	}
	logger.Info("snapshot written", zap.String("dir", dir), zap.Int("files", len(res.Files)), zap.Int("lines", res.Lines))

	if !opts.Commit {
		return res, nil
	}
	if !gitops.IsRepo(dir) {
		logger.Warn("snapshot directory is not a git repository; not committing", zap.String("dir", dir))
		return res, nil
	}
	changed, err := gitops.HasChanges(ctx, dir)
	if err != nil {
		return res, err
	}
	if !changed {
		logger.Info("snapshot unchanged; nothing to commit")
		return res, nil
	}
	res.Commit, err = gitops.CommitAll(ctx, dir, opts.Message, opts.Author)
	if err != nil {
		return res, err
	}
	logger.Info("snapshot committed", zap.String("commit", res.Commit))
	return res, nil
}

type monthLines struct {
	year, month int
	lines       []ledger.Line
}

func byMonth(lines []ledger.Line) []monthLines {
	idx := make(map[[2]int]int)
	var out []monthLines
	for _, l := range ledger.SortLines(lines) {
		key := [2]int{l.Date.Year(), int(l.Date.Month())}
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, monthLines{year: key[0], month: key[1]})
		}
		out[i].lines = append(out[i].lines, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].month < out[j].month
	})
	return out
}

func writeFile(dir, rel string, data []byte) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}
