package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// atomicWriteCSV writes header and the rows produced by fill into a fresh
// temp file under dir, then renames it onto filename, so a reader never
// observes a partial artifact. A single failed attempt is retried once
// with a new temp file; a second failure is fatal and returned wrapped
// in ErrIO.
func atomicWriteCSV(dir, filename string, header []string, fill func(w csvWriter) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating output dir: %v", ErrIO, err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if lastErr = tryWriteCSV(dir, filename, header, fill); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrIO, filename, lastErr)
}

func tryWriteCSV(dir, filename string, header []string, fill func(w csvWriter) error) error {
	tmp, err := os.CreateTemp(dir, ".tmp-"+filename+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := fill(w); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, filepath.Join(dir, filename))
}

func i64(n int64) string   { return strconv.FormatInt(n, 10) }
func i32(n int32) string   { return strconv.FormatInt(int64(n), 10) }
func iInt(n int) string    { return strconv.Itoa(n) }
func f64(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
