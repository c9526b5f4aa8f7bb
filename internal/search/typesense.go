package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
)

const collectionName = "suppliers"

const maxHits = 250

type TypesenseIndex struct {
	client *typesense.Client
}

func NewTypesenseIndex(url, apiKey string) *TypesenseIndex {
	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &TypesenseIndex{client: client}
}

// EnsureSchema creates the suppliers collection when it does not exist.
func (t *TypesenseIndex) EnsureSchema(ctx context.Context) error {
	if _, err := t.client.Collection(collectionName).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "tags", Type: "string[]", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
	if _, err := t.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("create typesense collection: %w", err)
	}
	return nil
}

func (t *TypesenseIndex) Upsert(ctx context.Context, s models.Supplier) error {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	document := map[string]interface{}{
		"id":          s.ID,
		"name":        s.Name,
		"description": s.Description,
		"category":    s.Category,
		"tags":        tags,
		"status":      string(s.Status),
		"created_at":  s.CreatedAt.Unix(),
	}
	if _, err := t.client.Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("index supplier %s: %w", s.ID, err)
	}
	return nil
}

func (t *TypesenseIndex) Delete(ctx context.Context, id string) error {
	if _, err := t.client.Collection(collectionName).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete supplier %s from index: %w", id, err)
	}
	return nil
}

func (t *TypesenseIndex) Search(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		query = "*"
	}
	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,description,tags"),
		PerPage: pointer.Int(maxHits),
	}
	result, err := t.client.Collection(collectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search suppliers: %w", err)
	}

	var out []string
	if result.Hits == nil {
		return out, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := (*hit.Document)["id"].(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
