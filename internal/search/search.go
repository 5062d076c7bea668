// Package search keeps an optional Elasticsearch index of menu item titles
// and answers title prefix lookups from it.
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
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

const maxHits = 1000

type MenuIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
}

func NewMenuIndex(es *elasticsearch.Client, index string) *MenuIndex {
	return &MenuIndex{es: es, index: index}
}

type menuDoc struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Featured bool            `json:"featured"`
	Category uint            `json:"category"`
}

func (m *MenuIndex) Index(ctx context.Context, item models.MenuItem) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(menuDoc{
		Title:    item.Title,
		Price:    item.Price,
		Featured: item.Featured,
		Category: item.CategoryID,
	}); err != nil {
		return fmt.Errorf("search: encode doc: %w", err)
	}

	res, err := m.es.Index(
		m.index,
		&buf,
		m.es.Index.WithContext(ctx),
		m.es.Index.WithDocumentID(docID(item.ID)),
		m.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: index %d: %w", item.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.StatusCode, res.Body)
	}
	return nil
}

// Delete treats a missing document as already deleted.
func (m *MenuIndex) Delete(ctx context.Context, id uint) error {
	res, err := m.es.Delete(
		m.index,
		docID(id),
		m.es.Delete.WithContext(ctx),
		m.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("search: delete %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res.StatusCode, res.Body)
	}
	return nil
}

// PrefixIDs returns the ids of items whose title starts with prefix,
// ignoring case. The result is never nil on success.
func (m *MenuIndex) PrefixIDs(ctx context.Context, prefix string) ([]uint, error) {
	body := map[string]any{
		"_source": false,
		"size":    maxHits,
		"query": map[string]any{
			"prefix": map[string]any{
				"title.keyword": map[string]any{
					"value":            prefix,
					"case_insensitive": true,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := m.es.Search(
		m.es.Search.WithContext(ctx),
		m.es.Search.WithIndex(m.index),
		m.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("search: %s: status %d: %s", op, status, bytes.TrimSpace(msg))
}
