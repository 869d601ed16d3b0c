package appbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Query is one filter/ordering clause for ListDocuments, sent to the API
// as a JSON-encoded query parameter.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals value.
func Equal(attribute string, value any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []any{value}}
}

// OrderAsc sorts ascending by attribute.
func OrderAsc(attribute string) Query {
	return Query{Method: "orderAsc", Attribute: attribute}
}

// DocumentList is a page of raw documents. Callers unmarshal each entry
// into their own document type.
type DocumentList struct {
	Total     int               `json:"total"`
	Documents []json.RawMessage `json:"documents"`
}

func (c *Client) collectionPath(databaseID, collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(databaseID), url.PathEscape(collectionID))
}

// CreateDocument creates a document with the given id and unmarshals the
// stored document into out (may be nil).
func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any, out any) error {
	body := map[string]any{
		"documentId": documentID,
		"data":       data,
	}

	path := c.collectionPath(databaseID, collectionID)
	if err := c.do(ctx, http.MethodPost, path, body, out); err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument fetches one document by id into out.
func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string, out any) error {
	path := c.collectionPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// ListDocuments fetches documents matching the given queries.
func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries []Query) (*DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		encoded, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}
		params.Add("queries[]", string(encoded))
	}

	path := c.collectionPath(databaseID, collectionID)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list DocumentList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return &list, nil
}
