package artifact

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineChange is one line of a summary diff.
type LineChange struct {
	Op   diffmatchpatch.Operation
	Line string
}

// DiffSummaries compares two summary texts line by line.
func DiffSummaries(oldText, newText string) []LineChange {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var changes []LineChange

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			changes = append(changes, LineChange{Op: d.Type, Line: strings.TrimSuffix(line, "\n")})
		}
	}

	return changes
}

// DiffSummaryFiles reads two summary files and diffs them.
func DiffSummaryFiles(oldPath, newPath string) ([]LineChange, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", oldPath, err)
	}

	newData, err := os.ReadFile(newPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", newPath, err)
	}

	return DiffSummaries(string(oldData), string(newData)), nil
}

// HasChanges reports whether any line was inserted or deleted.
func HasChanges(changes []LineChange) bool {
	for _, c := range changes {
		if c.Op != diffmatchpatch.DiffEqual {
			return true
		}
	}

	return false
}

// WriteDiff prints changes in unified-diff style.
func WriteDiff(w io.Writer, changes []LineChange, opts TableOptions) error {
	added := newColor(opts.NoColor, color.FgGreen)
	removed := newColor(opts.NoColor, color.FgRed)

	for _, c := range changes {
		var err error

		switch c.Op {
		case diffmatchpatch.DiffInsert:
			_, err = added.Fprintln(w, "+ "+c.Line)
		case diffmatchpatch.DiffDelete:
			_, err = removed.Fprintln(w, "- "+c.Line)
		case diffmatchpatch.DiffEqual:
			_, err = fmt.Fprintln(w, "  "+c.Line)
		}

		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
