package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
}

// Ping checks that the cluster answers.
func Ping(ctx context.Context, client *elasticsearch.Client) error {
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch: %s: %s", res.Status(), body)
	}
	return nil
}

// Elastic searches an Elasticsearch index. When the cluster fails and a
// Fallback is set, the query is answered by the fallback instead.
type Elastic struct {
	Client    *elasticsearch.Client
	IndexName string
	Fallback  Engine
}

func (e *Elastic) Search(ctx context.Context, rawQ string, offset, limit int) (Results, error) {
	q, offset, limit := normalize(rawQ, offset, limit)
	if q == "" {
		return Results{Items: []models.Product{}}, nil
	}

	res, err := e.search(ctx, q, offset, limit)
	if err != nil && e.Fallback != nil {
		logging.FromContext(ctx).Warn("search_fallback", "engine", "elasticsearch", "error", err)
		return e.Fallback.Search(ctx, q, offset, limit)
	}
	return res, err
}

func (e *Elastic) search(ctx context.Context, q string, from, size int) (Results, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"available": true},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, fmt.Errorf("encode query: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.IndexName),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("decode response: %w", err)
	}

	items := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Items: items}, nil
}

func (e *Elastic) Index(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := e.Client.Index(
		e.IndexName,
		bytes.NewReader(data),
		e.Client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		e.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (e *Elastic) Remove(ctx context.Context, id uint) error {
	res, err := e.Client.Delete(
		e.IndexName,
		strconv.FormatUint(uint64(id), 10),
		e.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove product %d: %s", id, res.Status())
	}
	return nil
}

// Reindex pushes every product into the index. Failures are counted, not fatal.
func (e *Elastic) Reindex(ctx context.Context, products []models.Product) (indexed int, err error) {
	var firstErr error
	for _, p := range products {
		if ierr := e.Index(ctx, p); ierr != nil {
			if firstErr == nil {
				firstErr = ierr
			}
			continue
		}
		indexed++
	}
	return indexed, firstErr
}
