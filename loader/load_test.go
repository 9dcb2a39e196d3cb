package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgscsystems/nlinkbasin/loader"
)

// slicePages adapts a slice of loader.Page into a loader.PageSource.
type slicePages struct {
	rows []loader.Page
	pos  int
}

func (s *slicePages) Next() (loader.Page, bool, error) {
	if s.pos >= len(s.rows) {
		return loader.Page{}, false, nil
	}
	p := s.rows[s.pos]
	s.pos++
	return p, true, nil
}

// sliceLinks adapts a slice of loader.Link into a loader.LinkSource.
type sliceLinks struct {
	rows []loader.Link
	pos  int
}

func (s *sliceLinks) Next() (loader.Link, bool, error) {
	if s.pos >= len(s.rows) {
		return loader.Link{}, false, nil
	}
	l := s.rows[s.pos]
	s.pos++
	return l, true, nil
}

func linksFactory(rows []loader.Link) loader.LinkSourceFactory {
	return func() (loader.LinkSource, error) {
		return &sliceLinks{rows: rows}, nil
	}
}

// TestLoad_ForwardReference exercises the case a single-pass append-as-
// you-go scan cannot handle: page 0 links to page 2 before page 2 has
// been read from the pages stream.
func TestLoad_ForwardReference(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{
		{PageID: 0, Namespace: 0},
		{PageID: 1, Namespace: 0},
		{PageID: 2, Namespace: 0},
	}}
	links := linksFactory([]loader.Link{
		{FromPageID: 0, Position: 1, ToPageID: 2},
		{FromPageID: 1, Position: 1, ToPageID: 0},
	})

	g, err := loader.Load(pages, links)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())

	n0, _ := g.NodeByPageID(0)
	n2, _ := g.NodeByPageID(2)
	target, ok := g.NthLink(n0, 1)
	require.True(t, ok)
	assert.Equal(t, n2, target)
}

// TestLoad_FiltersRedirectsAndOtherNamespaces verifies that redirect and
// non-zero-namespace pages get neither a NodeId nor a row in the CSR,
// and that links naming them as a target are dropped rather than erroring.
func TestLoad_FiltersRedirectsAndOtherNamespaces(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{
		{PageID: 0, Namespace: 0},
		{PageID: 1, Namespace: 0, IsRedirect: true},
		{PageID: 2, Namespace: 1},
		{PageID: 3, Namespace: 0},
	}}
	links := linksFactory([]loader.Link{
		{FromPageID: 0, Position: 1, ToPageID: 1},
		{FromPageID: 0, Position: 2, ToPageID: 3},
	})

	g, err := loader.Load(pages, links)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumNodes())

	n0, _ := g.NodeByPageID(0)
	assert.Equal(t, 1, g.OutDegree(n0))
	n3, _ := g.NodeByPageID(3)
	target, ok := g.NthLink(n0, 1)
	require.True(t, ok)
	assert.Equal(t, n3, target)

	_, ok = g.NodeByPageID(1)
	assert.False(t, ok)
}

func TestLoad_RejectsUnsortedPages(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{
		{PageID: 5, Namespace: 0},
		{PageID: 2, Namespace: 0},
	}}
	_, err := loader.Load(pages, linksFactory(nil))
	assert.ErrorIs(t, err, loader.ErrBadSnapshot)
}

func TestLoad_RejectsNonPositivePosition(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{{PageID: 0, Namespace: 0}}}
	links := linksFactory([]loader.Link{{FromPageID: 0, Position: 0, ToPageID: 0}})
	_, err := loader.Load(pages, links)
	assert.ErrorIs(t, err, loader.ErrBadSnapshot)
}

func TestLoad_RejectsFromPageNotInPages(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{{PageID: 0, Namespace: 0}}}
	links := linksFactory([]loader.Link{{FromPageID: 99, Position: 1, ToPageID: 0}})
	_, err := loader.Load(pages, links)
	assert.ErrorIs(t, err, loader.ErrBadSnapshot)
}

func TestLoad_RejectsNonDensePositions(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{{PageID: 0, Namespace: 0}}}
	links := linksFactory([]loader.Link{
		{FromPageID: 0, Position: 1, ToPageID: 0},
		{FromPageID: 0, Position: 3, ToPageID: 0},
	})
	_, err := loader.Load(pages, links)
	assert.ErrorIs(t, err, loader.ErrBadSnapshot)
}

func TestLoad_SelfLoopSurvives(t *testing.T) {
	pages := &slicePages{rows: []loader.Page{{PageID: 0, Namespace: 0}}}
	links := linksFactory([]loader.Link{{FromPageID: 0, Position: 1, ToPageID: 0}})
	g, err := loader.Load(pages, links)
	require.NoError(t, err)
	n0, _ := g.NodeByPageID(0)
	target, ok := g.NthLink(n0, 1)
	require.True(t, ok)
	assert.Equal(t, n0, target)
}
