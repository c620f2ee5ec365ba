package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Text tables are whitespace-separated numbers, one matrix row per line,
// preceded by "# " header lines.

func writeHeader(w *bufio.Writer, header []string) error {
	for _, line := range header {
		if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w *bufio.Writer, values []float64) error {
	for i, v := range values {
		if i > 0 {
			if err := w.WriteByte(' '); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(strconv.FormatFloat(v, 'e', 18, 64)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// WriteTable writes m after the header lines.
func WriteTable(w io.Writer, header []string, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, header); err != nil {
		return err
	}
	r, c := m.Dims()
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteAxes writes each axis as a commented label followed by one flat row.
func WriteAxes(w io.Writer, header []string, labels []string, axes [][]float64) error {
	if len(labels) != len(axes) {
		return fmt.Errorf("storage: %d labels for %d axes", len(labels), len(axes))
	}
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, header); err != nil {
		return err
	}
	for i, axis := range axes {
		if err := writeHeader(bw, labels[i:i+1]); err != nil {
			return err
		}
		if err := writeRow(bw, axis); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadRows parses every non-comment line. Comment lines are returned with
// the "# " prefix removed.
func ReadRows(r io.Reader) ([][]float64, []string, error) {
	var (
		rows    [][]float64
		comment []string
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			comment = append(comment, strings.TrimSpace(strings.TrimPrefix(text, "#")))
			continue
		}
		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return rows, comment, nil
}

// ReadTable reads a table written by WriteTable.
func ReadTable(r io.Reader) (*mat.Dense, []string, error) {
	rows, header, err := ReadRows(r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("storage: table has no rows")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, nil, fmt.Errorf("storage: row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), header, nil
}
