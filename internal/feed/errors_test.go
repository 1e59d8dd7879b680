package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{FeedURL: "https://example.com/rss", Messages: []string{"a", "b"}}
	assert.Equal(t, "validation failed for feed https://example.com/rss: a; b", err.Error())
	assert.ErrorIs(t, err, ErrFeedInvalid)
	assert.NotErrorIs(t, err, ErrItemsInvalid)
}

func TestItemsErrorReachesEveryItem(t *testing.T) {
	cause := errors.New("has invalid URLs []")
	err := &ItemsError{
		FeedURL: "https://example.com/rss",
		Items: []*ItemError{
			{ItemID: "one", Messages: []string{"Feed item must have at least one alternate link"}},
			{ItemID: "two", Err: cause},
		},
	}

	assert.ErrorIs(t, err, ErrItemsInvalid)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"one", "two"}, err.ItemIDs())

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, "validation failed for feed item [one]: Feed item must have at least one alternate link", itemErr.Error())
	assert.Equal(t, "invalid feed item [two]: has invalid URLs []", err.Items[1].Error())
}
