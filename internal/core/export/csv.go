// Package export serializes guide candidates to portable tabular text.
// This is part of the Functional Core - it writes to an io.Writer and nothing else.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/example/crispr/internal/core/session"
)

// FileName is the name results are saved under.
const FileName = "crispr_guides.csv"

// Header is the column header row, in field order.
var Header = []string{"ID", "Guide", "PAM", "GC%", "On-target", "Off-target", "Composite"}

// WriteCSV writes candidates in display order. Numeric fields use two
// decimals. The header is always followed by "\n"; candidate rows are
// separated by "\n" and the last row has no terminator.
func WriteCSV(w io.Writer, candidates []session.GuideCandidate) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range candidates {
		if err := cw.Write(Row(c)); err != nil {
			return fmt.Errorf("failed to write candidate %s: %w", c.CandidateID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	out := buf.Bytes()
	if len(candidates) > 0 {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Row formats one candidate as CSV fields.
func Row(c session.GuideCandidate) []string {
	return []string{
		c.CandidateID,
		c.GuideSequence,
		c.PAMSequence,
		fixed2(c.GCContent),
		fixed2(c.OnTargetScore),
		fixed2(c.OffTargetPenalty),
		fixed2(c.CompositeScore),
	}
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
