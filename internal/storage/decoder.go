package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
)

// recordDecoder splits a task file into records. It accepts the same input
// as csv.Reader with default settings, except that bytes inside a quoted
// field are kept exactly, so a "\r\n" written by csv.Writer reads back as
// "\r\n" rather than "\n". Record terminators may be "\n" or "\r\n".
type recordDecoder struct {
	r    *bufio.Reader
	line int
}

func newRecordDecoder(r io.Reader) *recordDecoder {
	return &recordDecoder{r: bufio.NewReader(r)}
}

// Read returns the next non-blank record and the line it starts on. It
// returns io.EOF when the input is exhausted and a *csv.ParseError for
// quoting mistakes.
func (d *recordDecoder) Read() ([]string, int, error) {
	for {
		record, start, blank, err := d.readRecord()
		if err != nil {
			return nil, 0, err
		}
		if !blank {
			return record, start, nil
		}
	}
}

func (d *recordDecoder) readRecord() (record []string, start int, blank bool, err error) {
	start = d.line + 1
	var (
		field    []byte
		inQuotes bool
		closed   bool // the current field's closing quote has been read
		quoted   bool // some field of this record was quoted
		fresh    = true
		read     bool
		col      int
	)

	parseErr := func(e error) error {
		return &csv.ParseError{StartLine: start, Line: d.line + 1, Column: col, Err: e}
	}
	endField := func() {
		record = append(record, string(field))
		field = field[:0]
		closed = false
		fresh = true
	}

	for {
		b, rerr := d.r.ReadByte()
		if errors.Is(rerr, io.EOF) {
			if inQuotes {
				return nil, 0, false, parseErr(csv.ErrQuote)
			}
			if !read || (len(record) == 0 && len(field) == 0 && !quoted) {
				return nil, 0, false, io.EOF
			}
			d.line++
			endField()
			return record, start, false, nil
		}
		if rerr != nil {
			return nil, 0, false, rerr
		}
		read = true
		col++

		if inQuotes {
			switch b {
			case '"':
				if next, perr := d.r.Peek(1); perr == nil && next[0] == '"' {
					_, _ = d.r.ReadByte()
					col++
					field = append(field, '"')
					continue
				}
				inQuotes = false
				closed = true
			case '\n':
				d.line++
				col = 0
				field = append(field, b)
			default:
				field = append(field, b)
			}
			continue
		}

		switch {
		case b == ',':
			endField()
		case b == '\n':
			d.line++
			if len(record) == 0 && len(field) == 0 && !quoted {
				return nil, start, true, nil
			}
			endField()
			return record, start, false, nil
		case b == '\r' && d.atLineEnd():
			// Dropped: part of a "\r\n" terminator, or trailing at EOF.
		case closed:
			return nil, 0, false, parseErr(csv.ErrQuote)
		case b == '"' && fresh:
			inQuotes = true
			quoted = true
			fresh = false
		case b == '"':
			return nil, 0, false, parseErr(csv.ErrBareQuote)
		default:
			field = append(field, b)
			fresh = false
		}
	}
}

// atLineEnd reports whether the next byte ends the line.
func (d *recordDecoder) atLineEnd() bool {
	next, err := d.r.Peek(1)
	if err != nil {
		return true
	}
	return next[0] == '\n'
}
