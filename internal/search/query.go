package search

import (
	"context"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query
	Genre string // Optional exact genre filter

	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{Limit: 20}
}

// Result holds search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single search result.
type Hit struct {
	ISBN   string  `json:"isbn"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  string  `json:"genre,omitempty"`
}

// Search runs a query against the book index.
// An empty query matches everything (useful with a genre filter).
func (i *Index) Search(ctx context.Context, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var clauses []query.Query
	if params.Query != "" {
		match := bleve.NewMatchQuery(params.Query)
		match.SetFuzziness(1)
		clauses = append(clauses, match)
	} else {
		clauses = append(clauses, bleve.NewMatchAllQuery())
	}
	if params.Genre != "" {
		genreQuery := bleve.NewTermQuery(params.Genre)
		genreQuery.SetField("genre")
		clauses = append(clauses, genreQuery)
	}

	req := bleve.NewSearchRequestOptions(
		bleve.NewConjunctionQuery(clauses...),
		params.Limit,
		params.Offset,
		false,
	)
	req.Fields = []string{"title", "author", "genre"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{ISBN: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["genre"].(string); ok {
			h.Genre = v
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}
