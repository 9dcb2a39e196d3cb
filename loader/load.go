package loader

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/internal/obslog"
)

// Load builds the immutable graph.Snapshot from pages and the links
// produced by newLinks. pages must be pre-sorted ascending by page_id;
// each invocation of newLinks must yield rows pre-sorted ascending by
// (from_page_id, position), with dense 1-based positions per
// from_page_id, in the same order every time it's called.
//
// NodeIds are assigned to namespace-0, non-redirect pages in the order
// they're read from pages. Building the CSR then takes two passes over
// links — count each kept node's valid out-degree, then scatter
// resolved targets into the reserved rows — because a link's target may
// be a page_id not yet seen when its own row is read — outlink lists
// are arbitrary prose order, not restricted to already-assigned ids.
// Links whose target resolves to a filtered-out or unknown page are
// dropped in both passes; the remaining positions re-pack
// implicitly since PlaceLink scatters by reserved-slot order, not by
// input position.
//
// Fails with ErrBadSnapshot if pages or links are out of order, a
// position is non-positive or not dense from 1, or a link's
// from_page_id never matches an actual pages row.
func Load(pages PageSource, newLinks LinkSourceFactory, opts ...Option) (*graph.Snapshot, error) {
	return LoadWithLogger(pages, newLinks, obslog.Nop(), opts...)
}

// LoadWithLogger is Load with an explicit logger for warnings (dropped
// links); pass obslog.Nop() to silence these.
func LoadWithLogger(pages PageSource, newLinks LinkSourceFactory, log *slog.Logger, opts ...Option) (*graph.Snapshot, error) {
	cfg := newConfig(opts)
	b := graph.NewBuilder(cfg.nodeHint, cfg.edgeHint)

	allPageIDs, err := readPages(pages, b)
	if err != nil {
		return nil, err
	}
	pageExists := func(pageID int64) bool {
		i := sort.Search(len(allPageIDs), func(i int) bool { return allPageIDs[i] >= pageID })
		return i < len(allPageIDs) && allPageIDs[i] == pageID
	}

	countLinks, err := newLinks()
	if err != nil {
		return nil, err
	}
	if _, err := walkLinks(countLinks, b, pageExists, func(from, to graph.NodeId) {
		b.CountLink(from)
	}); err != nil {
		return nil, err
	}

	b.Finalize()

	scatterLinks, err := newLinks()
	if err != nil {
		return nil, err
	}
	dropped, err := walkLinks(scatterLinks, b, pageExists, func(from, to graph.NodeId) {
		b.PlaceLink(from, to)
	})
	if err != nil {
		return nil, err
	}

	if dropped > 0 {
		log.Warn("loader: dropped links to filtered or dangling targets", "count", dropped)
	}

	return b.Build(), nil
}

// readPages streams pages in order, validating ascending page_id,
// calling b.AddNode for every namespace-0, non-redirect page, and
// returning every page_id seen (kept or not) for from_page_id
// membership checks during the link passes.
func readPages(pages PageSource, b *graph.Builder) ([]int64, error) {
	var lastPageID int64
	havePageID := false
	var allPageIDs []int64
	for {
		p, ok, err := pages.Next()
		if err != nil {
			return nil, fmt.Errorf("loader: reading pages: %w", err)
		}
		if !ok {
			return allPageIDs, nil
		}
		if havePageID && p.PageID <= lastPageID {
			return nil, fmt.Errorf("%w: pages not sorted ascending by page_id at %d", ErrBadSnapshot, p.PageID)
		}
		lastPageID = p.PageID
		havePageID = true
		allPageIDs = append(allPageIDs, p.PageID)

		if p.Namespace == 0 && !p.IsRedirect {
			b.AddNode(p.PageID)
		}
	}
}

// walkLinks streams links in order, validating sortedness, position
// density, and from_page_id membership in pages, and invokes
// onResolved(from, to) for every link whose from_page_id and to_page_id
// both resolve to a kept node. It reports the number of links dropped
// (from or to filtered out or otherwise unresolvable).
func walkLinks(links LinkSource, b *graph.Builder, pageExists func(int64) bool, onResolved func(from, to graph.NodeId)) (int, error) {
	var (
		lastFrom  int64
		haveFrom  bool
		expectPos int32
		dropped   int
	)

	for {
		l, ok, err := links.Next()
		if err != nil {
			return dropped, fmt.Errorf("loader: reading links: %w", err)
		}
		if !ok {
			return dropped, nil
		}
		if l.Position <= 0 {
			return dropped, fmt.Errorf("%w: non-positive position %d for from_page_id %d", ErrBadSnapshot, l.Position, l.FromPageID)
		}
		if !pageExists(l.FromPageID) {
			return dropped, fmt.Errorf("%w: from_page_id %d not in pages", ErrBadSnapshot, l.FromPageID)
		}
		if !haveFrom || l.FromPageID != lastFrom {
			if haveFrom && l.FromPageID < lastFrom {
				return dropped, fmt.Errorf("%w: nlink_sequences not sorted ascending by from_page_id at %d", ErrBadSnapshot, l.FromPageID)
			}
			if l.Position != 1 {
				return dropped, fmt.Errorf("%w: link sequence for from_page_id %d does not start at position 1", ErrBadSnapshot, l.FromPageID)
			}
		} else if l.Position != expectPos {
			return dropped, fmt.Errorf("%w: non-dense or unsorted position %d for from_page_id %d", ErrBadSnapshot, l.Position, l.FromPageID)
		}
		lastFrom = l.FromPageID
		haveFrom = true
		expectPos = l.Position + 1

		fromNode, ok := b.NodeByPageID(l.FromPageID)
		if !ok {
			dropped++
			continue
		}
		toNode, ok := b.NodeByPageID(l.ToPageID)
		if !ok {
			dropped++
			continue
		}
		onResolved(fromNode, toNode)
	}
}
