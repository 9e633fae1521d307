package stubservice

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadFASTA parses FASTA records from r into gene ID -> sequence.
// The gene ID is the first whitespace-separated token of the header;
// sequence lines are concatenated and upper-cased.
func ReadFASTA(r io.Reader) (map[string]string, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024 // single-line genomes
	sc.Buffer(make([]byte, 64*1024), maxLine)

	out := make(map[string]string)
	var (
		id  string
		seq strings.Builder
	)
	flush := func() {
		if id != "" {
			out[id] = seq.String()
		}
		seq.Reset()
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, ">"):
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("fasta header without identifier")
			}
			id = fields[0]
		default:
			if id == "" {
				return nil, fmt.Errorf("sequence data before first header")
			}
			seq.WriteString(strings.ToUpper(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}
	flush()
	return out, nil
}
