package feed

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPeriod is returned when from is after to.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrUnsupportedFormat is returned when the document is neither Atom nor RSS 2.0,
	// or could not be read far enough to tell.
	ErrUnsupportedFormat = errors.New("unsupported or unrecognized feed format")
	// ErrFetch wraps failures to load or parse a recognized document.
	ErrFetch = errors.New("fetch failed")
	// ErrFeedInvalid marks a *ValidationError.
	ErrFeedInvalid = errors.New("feed validation failed")
	// ErrItemsInvalid marks an *ItemsError.
	ErrItemsInvalid = errors.New("feed items invalid")
)

// ValidationError reports every broken feed-level rule.
type ValidationError struct {
	FeedURL  string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for feed %s: %s", e.FeedURL, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrFeedInvalid
}

// ItemError describes why a single item was rejected. Exactly one of
// Messages (validation) or Err (mapping) is set.
type ItemError struct {
	ItemID   string
	Messages []string
	Err      error
}

func (e *ItemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid feed item [%s]: %v", e.ItemID, e.Err)
	}
	return fmt.Sprintf("validation failed for feed item [%s]: %s", e.ItemID, strings.Join(e.Messages, "; "))
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ItemsError aggregates the per-item failures of one FetchPosts call.
type ItemsError struct {
	FeedURL string
	Items   []*ItemError
}

func (e *ItemsError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, item.Error())
	}
	return fmt.Sprintf("%d invalid item(s) in feed %s: %s", len(e.Items), e.FeedURL, strings.Join(parts, "; "))
}

func (e *ItemsError) Is(target error) bool {
	return target == ErrItemsInvalid
}

func (e *ItemsError) Unwrap() []error {
	out := make([]error, 0, len(e.Items))
	for _, item := range e.Items {
		out = append(out, item)
	}
	return out
}

// ItemIDs lists the ids of the rejected items, in document order.
func (e *ItemsError) ItemIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ItemID)
	}
	return ids
}
