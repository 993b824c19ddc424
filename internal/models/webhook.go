// internal/models/webhook.go
package models

// WebhookRequest mirrors the conversational-agent fulfillment payload: a raw
// query string plus a typed parameter map (numbers, strings, or objects with
// amount/unit for budget and duration).
type WebhookRequest struct {
	ResponseID  string      `json:"responseId,omitempty"`
	Session     string      `json:"session,omitempty"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText  string                 `json:"queryText"`
	Parameters map[string]interface{} `json:"parameters"`
	Intent     Intent                 `json:"intent,omitempty"`
}

type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// WebhookResponse carries the rendered reply back to the agent platform.
type WebhookResponse struct {
	FulfillmentText string          `json:"fulfillmentText"`
	RequestID       string          `json:"requestId,omitempty"`
	Pagination      *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta supports "show more" semantics: the filtered plan list is
// stable under repeated calls with the same query context, so slicing by
// offset is safe.
type PaginationMeta struct {
	Offset int `json:"offset"`
	Total  int `json:"total"`
}
