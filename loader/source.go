package loader

// Page is one row of the pages table.
type Page struct {
	PageID     int64
	Title      string
	Namespace  int32
	IsRedirect bool
}

// Link is one row of the nlink_sequences table.
type Link struct {
	FromPageID int64
	Position   int32
	ToPageID   int64
}

// PageSource streams the pages table in ascending page_id order. Next
// returns (Page{}, false, nil) once exhausted.
type PageSource interface {
	Next() (Page, bool, error)
}

// LinkSource streams the nlink_sequences table sorted ascending by
// (from_page_id, position). Next returns (Link{}, false, nil) once
// exhausted.
type LinkSource interface {
	Next() (Link, bool, error)
}

// LinkSourceFactory opens a fresh LinkSource positioned at the start of
// nlink_sequences. Load calls it twice — once to count each node's
// out-degree, once to place resolved targets — since links may point
// forward to a page_id not yet assigned a NodeId on a first pass, ruling
// out a single append-as-you-go scan. A factory backed by a file or
// table cursor can simply reopen/rewind; it must yield the same rows in
// the same order both times.
type LinkSourceFactory func() (LinkSource, error)
