// Package report records the bias removed from each corrected file as a
// msgpack document.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ajroetker/go-grayworld/grayworld"
)

// Entry is the outcome for one input file.
type Entry struct {
	Input  string         `msgpack:"input"`
	Output string         `msgpack:"output,omitempty"`
	Width  int            `msgpack:"width"`
	Height int            `msgpack:"height"`
	Bias   grayworld.Bias `msgpack:"bias"`
	Error  string         `msgpack:"error,omitempty"`
}

// Report is one run of the correct command.
type Report struct {
	RunID   string         `msgpack:"run_id"`
	Created time.Time      `msgpack:"created"`
	Mode    grayworld.Mode `msgpack:"mode"`
	Tier    grayworld.Tier `msgpack:"tier"`
	Entries []Entry        `msgpack:"entries"`
}

// Failed returns the entries that carry an error.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Error != "" {
			out = append(out, e)
		}
	}
	return out
}

// Encode writes r to w.
func Encode(w io.Writer, r *Report) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to marshal msgpack report: %w", err)
	}
	return nil
}

// Decode reads a report written by Encode.
func Decode(rd io.Reader) (*Report, error) {
	var r Report
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal msgpack report: %w", err)
	}
	return &r, nil
}

// WriteFile encodes r to path.
func WriteFile(path string, r *Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, r); err != nil {
		return err
	}
	return w.Flush()
}

// ReadFile decodes the report stored at path.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
