package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"

	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
)

var searchFields = []string{"title^3", "excerpt^2", "content"}

// maxResultWindow is the index.max_result_window default. Pages past it
// only report the total.
const maxResultWindow = 10_000

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Searcher{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Search runs a best-fields multi_match over title, excerpt and content,
// restricted to published posts. page is 1-based.
func (r *Searcher) Search(ctx context.Context, query string, page, size int) (*storage.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	from, pageSize := pageWindow(page, size)
	slog.Info("Executing es post search", "query", query, "page", page, "size", size)

	or := operator.Or
	bestFields := textquerytype.Bestfields
	fuzziness := types.Fuzziness("AUTO")

	q := &types.Query{
		Bool: &types.BoolQuery{
			Must: []types.Query{
				{
					MultiMatch: &types.MultiMatchQuery{
						Query:     query,
						Fields:    searchFields,
						Operator:  &or,
						Type:      &bestFields,
						Fuzziness: fuzziness,
					},
				},
			},
			Filter: []types.Query{
				{
					Term: map[string]types.TermQuery{
						"status": {Value: string(domain.StatusPublish)},
					},
				},
			},
		},
	}

	desc := sortorder.Desc
	res, err := r.client.Search().
		Index(r.indexName).
		Query(q).
		From(from).
		Size(pageSize).
		Sort(
			&types.SortOptions{SortOptions: map[string]types.FieldSort{"_score": {Order: &desc}}},
			&types.SortOptions{SortOptions: map[string]types.FieldSort{"published_at": {Order: &desc}}},
		).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	hits := make([]domain.Post, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc PostDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		hits = append(hits, doc.toPost())
	}

	result := &storage.SearchResult{Hits: hits}
	if res.Hits.Total != nil {
		result.Total = res.Hits.Total.Value
	}
	if res.Hits.MaxScore != nil {
		result.MaxScore = float64(*res.Hits.MaxScore)
	}

	slog.Info("Es search results fetched", "total_matches", result.Total, "returned_count", len(hits))
	return result, nil
}

// pageWindow returns the from/size pair of a 1-based page, or a zero sized
// window when the page starts past maxResultWindow.
func pageWindow(page, size int) (int, int) {
	if size <= 0 || page-1 >= maxResultWindow/size {
		return 0, 0
	}
	from := (page - 1) * size
	return from, min(size, maxResultWindow-from)
}
