package search

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/streamix/streamix/internal/catalog"
)

// Result is a scored hit from the watch-history index.
type Result struct {
	Video catalog.Video
	Score float64
}

// Index is a local full-text index over watched videos. It holds just
// enough stored fields to rebuild a card without touching the network.
type Index struct {
	idx bleve.Index
}

// Open creates or opens a Bleve index at indexPath. An empty path gives
// a memory-only index, used by tests and one-shot CLI invocations.
func Open(indexPath string) (*Index, error) {
	if indexPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, err
		}
		return &Index{idx: idx}, nil
	}

	if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
		// Open/Create below will surface the real problem
		_ = mkErr
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	channel := bleve.NewTextFieldMapping()
	channel.Analyzer = standard.Name
	channel.Store = true

	thumb := bleve.NewTextFieldMapping()
	thumb.Index = false
	thumb.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("channel", channel)
	dm.AddFieldMappingsAt("thumbnail", thumb)

	im.DefaultMapping = dm
	return im
}

// Add indexes one watched video, replacing any previous doc for its id.
func (x *Index) Add(v catalog.Video) error {
	return x.idx.Index(v.ID, videoDoc(v))
}

// Remove deletes the doc for a video id. Absent ids are not an error.
func (x *Index) Remove(id string) error {
	return x.idx.Delete(id)
}

// Rebuild replaces the whole index content with the given videos. Used
// after a history clear and on startup to reconcile with the store.
func (x *Index) Rebuild(videos []catalog.Video) error {
	if err := x.deleteAll(); err != nil {
		return err
	}
	batch := x.idx.NewBatch()
	for _, v := range videos {
		if err := batch.Index(v.ID, videoDoc(v)); err != nil {
			return err
		}
	}
	return x.idx.Batch(batch)
}

// Search runs a boosted match+prefix disjunction over title and channel.
func (x *Index) Search(query string, limit int) ([]Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []Result{}, nil
	}
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qc := bleve.NewMatchQuery(tok)
		qc.SetField("channel")
		qc.SetBoost(2.0)
		qs = append(qs, qc)
		qcp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qcp.SetField("channel")
		qcp.SetBoost(1.8)
		qs = append(qs, qcp)
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"title", "channel", "thumbnail"}
	res, err := x.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := Result{Score: h.Score}
		r.Video.ID = h.ID
		if t, ok := h.Fields["title"].(string); ok {
			r.Video.Title = t
		}
		if ch, ok := h.Fields["channel"].(string); ok {
			r.Video.ChannelTitle = ch
		}
		if th, ok := h.Fields["thumbnail"].(string); ok {
			r.Video.ThumbnailURL = th
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (x *Index) DocCount() (int, error) {
	n, err := x.idx.DocCount()
	return int(n), err
}

func (x *Index) Close() error {
	return x.idx.Close()
}

func (x *Index) deleteAll() error {
	q := bleve.NewMatchAllQuery()
	for {
		req := bleve.NewSearchRequestOptions(q, 1000, 0, false)
		res, err := x.idx.Search(req)
		if err != nil {
			return err
		}
		if len(res.Hits) == 0 {
			return nil
		}
		batch := x.idx.NewBatch()
		for _, h := range res.Hits {
			batch.Delete(h.ID)
		}
		if err := x.idx.Batch(batch); err != nil {
			return err
		}
	}
}

func videoDoc(v catalog.Video) map[string]any {
	return map[string]any{
		"title":     v.Title,
		"channel":   v.ChannelTitle,
		"thumbnail": v.ThumbnailURL,
	}
}

// tokenize splits a query into lowercase word tokens.
func tokenize(s string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
