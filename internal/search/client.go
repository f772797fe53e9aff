package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/restaurant/internal/models"
)

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type MenuIndex struct {
	es    *elasticsearch.Client
	index string
}

type menuDoc struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsAvailable bool   `json:"is_available"`
}

func NewMenuIndex(ctx context.Context, cfg Config) (*MenuIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info %s: %s", res.Status(), body)
	}

	return &MenuIndex{es: client, index: cfg.Index}, nil
}

func (m *MenuIndex) IndexMenuItem(ctx context.Context, item models.MenuItem) error {
	doc := menuDoc{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		IsAvailable: item.IsAvailable,
	}
	if item.Description != nil {
		doc.Description = *item.Description
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("elasticsearch: encode doc: %w", err)
	}

	res, err := m.es.Index(
		m.index,
		&buf,
		m.es.Index.WithContext(ctx),
		m.es.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index: %s", res.Status())
	}
	return nil
}

func (m *MenuIndex) DeleteMenuItem(ctx context.Context, id uint) error {
	res, err := m.es.Delete(
		m.index,
		strconv.FormatUint(uint64(id), 10),
		m.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch: delete: %s", res.Status())
	}
	return nil
}

func buildQuery(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}
}

// SearchMenuItems returns the total hit count and the matching menu item
// ids in relevance order.
func (m *MenuIndex) SearchMenuItems(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := m.es.Search(
		m.es.Search.WithContext(ctx),
		m.es.Search.WithIndex(m.index),
		m.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("elasticsearch: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source menuDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("elasticsearch: decode: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}
