// Package ingest reads uploaded match event exports into one unified table.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/rugbylens/internal/domain/model"
)

// ctxCheckEvery bounds how many rows are read between context checks.
const ctxCheckEvery = 4096

// maxParallel caps concurrently parsed files.
const maxParallel = 4

const utf8BOM = "\ufeff"

var (
	errNoFiles  = errors.New("no files uploaded")
	errNoHeader = errors.New("missing header row")
)

// Upload is one named tabular file.
type Upload struct {
	Name   string
	Reader io.Reader
}

// Read parses every upload as a CSV table, tags rows with their file name and
// concatenates them in upload order. Files are parsed concurrently; any
// malformed file aborts the whole load and the earliest failing upload is
// reported.
func Read(ctx context.Context, uploads []Upload) (*model.Table, error) {
	if len(uploads) == 0 {
		return nil, &IngestionError{Err: errNoFiles}
	}

	parsed := make([]parsedFile, len(uploads))
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, up := range uploads {
		g.Go(func() error {
			header, rows, err := readFile(ctx, up)
			parsed[i] = parsedFile{header: header, rows: rows, err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := &model.Table{Columns: []string{model.ColSourceFile}}
	seenCols := map[string]struct{}{model.ColSourceFile: {}}
	total := 0
	for i := range parsed {
		if parsed[i].err != nil {
			return nil, parsed[i].err
		}
		total += len(parsed[i].rows)
	}
	t.Rows = make([]model.Event, 0, total)
	for i, up := range uploads {
		for _, col := range parsed[i].header {
			if _, ok := seenCols[col]; ok {
				continue
			}
			seenCols[col] = struct{}{}
			t.Columns = append(t.Columns, col)
		}
		t.Files = append(t.Files, up.Name)
		t.Rows = append(t.Rows, parsed[i].rows...)
	}
	return t, nil
}

type parsedFile struct {
	header []string
	rows   []model.Event
	err    error
}

func readFile(ctx context.Context, up Upload) ([]string, []model.Event, error) {
	r := csv.NewReader(up.Reader)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &IngestionError{File: up.Name, Err: errNoHeader}
		}
		return nil, nil, parseFailure(up.Name, err)
	}
	header = normalizeHeader(header)

	var rows []model.Event
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, parseFailure(up.Name, err)
		}
		rows = append(rows, decodeRow(up.Name, header, rec))
	}
	return header, rows, nil
}

func parseFailure(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &IngestionError{File: name, Line: pe.Line, Err: pe.Err}
	}
	return &IngestionError{File: name, Err: err}
}

// normalizeHeader strips a leading BOM; later duplicate names are dropped
// from the lookup by decodeRow keeping the first occurrence.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	copy(out, header)
	if len(out) > 0 {
		out[0] = strings.TrimPrefix(out[0], utf8BOM)
	}
	return out
}

func decodeRow(file string, header, rec []string) model.Event {
	e := model.Event{SourceFile: file}
	var assigned model.Field
	for i, col := range header {
		if col == "" || col == model.ColSourceFile {
			continue
		}
		val := rec[i]
		f, known := model.FieldForColumn(col)
		if !known {
			if e.Extra == nil {
				e.Extra = make(map[string]string)
			}
			if _, dup := e.Extra[col]; !dup {
				e.Extra[col] = val
			}
			continue
		}
		if assigned&f != 0 {
			continue
		}
		assigned |= f
		if setField(&e, f, val) {
			e.Present |= f
		}
	}
	return e
}

// setField stores val into the field and reports whether it is a usable value.
// Empty cells and failed numeric coercions count as missing.
func setField(e *model.Event, f model.Field, val string) bool {
	if val == "" {
		return false
	}
	switch f {
	case model.FieldActionName:
		e.ActionName = val
	case model.FieldActionResultName:
		e.ActionResultName = val
	case model.FieldActionTypeName:
		e.ActionTypeName = val
	case model.FieldTeamName:
		e.TeamName = val
	case model.FieldPlayerName:
		e.PlayerName = val
	case model.FieldPlayerShirtNumber:
		n, ok := parseInt(val)
		if !ok {
			return false
		}
		e.PlayerShirtNumber = n
	case model.FieldMatchTime:
		return parseFloat(val, &e.MatchTime)
	case model.FieldXCoord:
		return parseFloat(val, &e.XCoord)
	case model.FieldYCoord:
		return parseFloat(val, &e.YCoord)
	case model.FieldXCoordEnd:
		return parseFloat(val, &e.XCoordEnd)
	case model.FieldYCoordEnd:
		return parseFloat(val, &e.YCoordEnd)
	default:
		return false
	}
	return true
}

func parseFloat(s string, dst *float64) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	*dst = v
	return true
}

// parseInt accepts integers and integral floats such as "7.0".
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	var v float64
	if !parseFloat(s, &v) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}
