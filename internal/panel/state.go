// ABOUTME: Page state owned by the loop: page number, search, status filter, editing ids
// ABOUTME: Also issues the sequence numbers used to drop stale product list responses

package panel

import (
	"fmt"

	"github.com/2389/catalog-panel/internal/api"
)

// Status filter values. StatusAll sends no is_active parameter.
const (
	StatusAll      = ""
	StatusActive   = "true"
	StatusInactive = "false"
)

// State is the panel's mutable UI state. It is not safe for concurrent use;
// only the loop goroutine touches it.
type State struct {
	Page   int
	Search string
	Status string

	EditingProductID *int64
	EditingWebhookID *int64

	listSeq uint64
}

// NewState returns the defaults: page 1, no search, all statuses.
func NewState() *State {
	return &State{Page: 1}
}

// SetSearch stores term and returns to page 1.
func (s *State) SetSearch(term string) {
	s.Search = term
	s.Page = 1
}

// SetStatus stores the status filter and returns to page 1.
func (s *State) SetStatus(status string) error {
	switch status {
	case StatusAll, StatusActive, StatusInactive:
	default:
		return fmt.Errorf("unknown status filter %q", status)
	}
	s.Status = status
	s.Page = 1
	return nil
}

// SetPage moves to page n. Pages below 1 are ignored.
func (s *State) SetPage(n int) {
	if n < 1 {
		return
	}
	s.Page = n
}

// Query builds the product list query for the current state.
func (s *State) Query(perPage int) api.ProductQuery {
	return api.ProductQuery{
		Page:    s.Page,
		PerPage: perPage,
		Search:  s.Search,
		Status:  s.Status,
	}
}

// EditProduct records id as the product being edited. Nil means create.
func (s *State) EditProduct(id *int64) {
	s.EditingProductID = id
}

// EditWebhook records id as the webhook being edited. Nil means create.
func (s *State) EditWebhook(id *int64) {
	s.EditingWebhookID = id
}

// nextListSeq returns the sequence number for a new product list request.
func (s *State) nextListSeq() uint64 {
	s.listSeq++
	return s.listSeq
}

// latestList reports whether seq belongs to the most recent list request.
func (s *State) latestList(seq uint64) bool {
	return seq == s.listSeq
}
