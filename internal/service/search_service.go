package service

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/meilisearch/meilisearch-go"
	"github.com/mintygd/demonlist/internal/model"
)

const demonIndex = "demons"

type SearchService interface {
	IndexDemon(demon *model.Demon) error
	DeleteDemon(id string) error
	Search(query, listType string, limit int64) ([]DemonDocument, error)
}

// DemonDocument is the searchable projection of a demon.
type DemonDocument struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Creator    string  `json:"creator"`
	Verifier   *string `json:"verifier,omitempty"`
	Difficulty string  `json:"difficulty"`
	ListType   string  `json:"list_type"`
	Position   int     `json:"position"`
	Points     int     `json:"points"`
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndex()
	return s
}

func (s *meiliSearchService) initIndex() {
	filterableAttrs := []string{"list_type", "difficulty"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(demonIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("failed to update demons filterable attributes: %v", err)
	}

	sortableAttrs := []string{"position"}
	if _, err := s.client.Index(demonIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("failed to update demons sortable attributes: %v", err)
	}
}

func (s *meiliSearchService) IndexDemon(demon *model.Demon) error {
	doc := DemonDocument{
		ID:         demon.ID.String(),
		Name:       demon.Name,
		Creator:    demon.Creator,
		Verifier:   demon.Verifier,
		Difficulty: demon.Difficulty,
		ListType:   demon.ListType,
		Position:   demon.Position,
		Points:     demon.Points,
	}

	_, err := s.client.Index(demonIndex).AddDocuments([]DemonDocument{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeleteDemon(id string) error {
	_, err := s.client.Index(demonIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) Search(query, listType string, limit int64) ([]DemonDocument, error) {
	req := &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"position:asc"},
	}
	if listType != "" {
		req.Filter = fmt.Sprintf("list_type = %q", listType)
	}

	resp, err := s.client.Index(demonIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	docs := make([]DemonDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc DemonDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
