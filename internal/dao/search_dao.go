package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

type elasticsearchDAO struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// NewSearchDAO creates the Elasticsearch-backed search DAO.
func NewSearchDAO(client *elasticsearch.Client, index string, log logger.Logger) SearchDAO {
	return &elasticsearchDAO{
		client: client,
		index:  index,
		logger: log,
	}
}

type articleDocument struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

// IndexArticle writes the article document, replacing any prior one.
func (d *elasticsearchDAO) IndexArticle(ctx context.Context, article *model.Article) error {
	doc := articleDocument{
		ID:       article.ID,
		Title:    article.Title,
		Content:  article.Content,
		Summary:  article.Summary,
		Category: article.Category,
		Region:   article.Region,
		Language: article.Language,
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal article document: %v", err)
	}

	req := esapi.IndexRequest{
		Index:      d.index,
		DocumentID: strconv.FormatInt(article.ID, 10),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to index article",
			logger.F("articleID", article.ID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to index article: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index article: %s", res.String())
	}

	return nil
}

// RemoveArticle deletes the article document, tolerating absence.
func (d *elasticsearchDAO) RemoveArticle(ctx context.Context, articleID int64) error {
	req := esapi.DeleteRequest{
		Index:      d.index,
		DocumentID: strconv.FormatInt(articleID, 10),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return fmt.Errorf("failed to remove article from index: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to remove article from index: %s", res.String())
	}

	return nil
}

// SearchArticles runs a multi-field full-text query with optional
// region and language filters, returning matching article ids.
func (d *elasticsearchDAO) SearchArticles(ctx context.Context, query string, region, language string, from, size int) ([]int64, int64, error) {
	if size <= 0 {
		size = 20
	}

	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "summary^2", "content"},
			},
		},
	}
	filter := make([]map[string]interface{}, 0, 2)
	if region != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"region": region},
		})
	}
	if language != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"language": language},
		})
	}

	body := map[string]interface{}{
		"from": from,
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal search query: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  bytes.NewReader(bodyJSON),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search articles: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("failed to search articles: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source articleDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %v", err)
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, parsed.Hits.Total.Value, nil
}
