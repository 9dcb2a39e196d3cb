package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVPageSource adapts a pages table serialized as CSV
// (page_id,title,namespace,is_redirect) into a PageSource. The header row,
// if present, is skipped automatically by SkipHeader.
type CSVPageSource struct {
	r          *csv.Reader
	skipHeader bool
}

// NewCSVPageSource wraps r as a PageSource. Call SkipHeader(true) before
// the first Next if the CSV carries a header row.
func NewCSVPageSource(r io.Reader) *CSVPageSource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	return &CSVPageSource{r: cr}
}

// SkipHeader marks the next row read as a header to discard.
func (s *CSVPageSource) SkipHeader(skip bool) {
	s.skipHeader = skip
}

func (s *CSVPageSource) Next() (Page, bool, error) {
	if s.skipHeader {
		s.skipHeader = false
		if _, err := s.r.Read(); err != nil {
			if err == io.EOF {
				return Page{}, false, nil
			}
			return Page{}, false, fmt.Errorf("loader: reading pages header: %w", err)
		}
	}

	rec, err := s.r.Read()
	if err == io.EOF {
		return Page{}, false, nil
	}
	if err != nil {
		return Page{}, false, fmt.Errorf("loader: reading pages row: %w", err)
	}

	pageID, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return Page{}, false, fmt.Errorf("loader: parsing page_id %q: %w", rec[0], err)
	}
	namespace, err := strconv.ParseInt(rec[2], 10, 32)
	if err != nil {
		return Page{}, false, fmt.Errorf("loader: parsing namespace %q: %w", rec[2], err)
	}
	isRedirect, err := strconv.ParseBool(rec[3])
	if err != nil {
		return Page{}, false, fmt.Errorf("loader: parsing is_redirect %q: %w", rec[3], err)
	}

	return Page{
		PageID:     pageID,
		Title:      rec[1],
		Namespace:  int32(namespace),
		IsRedirect: isRedirect,
	}, true, nil
}

// CSVLinkSource adapts an nlink_sequences table serialized as CSV
// (from_page_id,position,to_page_id) into a LinkSource.
type CSVLinkSource struct {
	r          *csv.Reader
	skipHeader bool
}

// NewCSVLinkSource wraps r as a LinkSource. Call SkipHeader(true) before
// the first Next if the CSV carries a header row.
func NewCSVLinkSource(r io.Reader) *CSVLinkSource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	return &CSVLinkSource{r: cr}
}

// SkipHeader marks the next row read as a header to discard.
func (s *CSVLinkSource) SkipHeader(skip bool) {
	s.skipHeader = skip
}

func (s *CSVLinkSource) Next() (Link, bool, error) {
	if s.skipHeader {
		s.skipHeader = false
		if _, err := s.r.Read(); err != nil {
			if err == io.EOF {
				return Link{}, false, nil
			}
			return Link{}, false, fmt.Errorf("loader: reading links header: %w", err)
		}
	}

	rec, err := s.r.Read()
	if err == io.EOF {
		return Link{}, false, nil
	}
	if err != nil {
		return Link{}, false, fmt.Errorf("loader: reading links row: %w", err)
	}

	fromPageID, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return Link{}, false, fmt.Errorf("loader: parsing from_page_id %q: %w", rec[0], err)
	}
	position, err := strconv.ParseInt(rec[1], 10, 32)
	if err != nil {
		return Link{}, false, fmt.Errorf("loader: parsing position %q: %w", rec[1], err)
	}
	toPageID, err := strconv.ParseInt(rec[2], 10, 64)
	if err != nil {
		return Link{}, false, fmt.Errorf("loader: parsing to_page_id %q: %w", rec[2], err)
	}

	return Link{
		FromPageID: fromPageID,
		Position:   int32(position),
		ToPageID:   toPageID,
	}, true, nil
}

// NewCSVLinkSourceFactory returns a LinkSourceFactory that invokes open
// to obtain a fresh io.Reader each time it's called — typically
// re-opening the same file path — and wraps it as a CSVLinkSource with
// the given header-skipping behavior.
func NewCSVLinkSourceFactory(open func() (io.Reader, error), hasHeader bool) LinkSourceFactory {
	return func() (LinkSource, error) {
		r, err := open()
		if err != nil {
			return nil, fmt.Errorf("loader: opening links source: %w", err)
		}
		s := NewCSVLinkSource(r)
		s.SkipHeader(hasHeader)
		return s, nil
	}
}
