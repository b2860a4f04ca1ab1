package hotels

import (
	"context"
	"errors"
	"fmt"
)

// Mode selects the sort strategy of a property search. Values double as the
// search_type label stored in history.
type Mode string

const (
	ModeLowPrice    Mode = "lowprice"
	ModeGuestRating Mode = "guest_rating"
	ModeBestDeal    Mode = "bestdeal"
)

// City is a region candidate resolved from a free-text query. ID is the
// opaque region id the search API expects.
type City struct {
	ID   string
	Name string
}

// Hotel is a single property entry with display-ready fields.
// ReviewScore and ReviewCount are "N/A" when the API omits them; ImageURL is
// empty when no photo is available.
type Hotel struct {
	Name        string
	Price       string
	ReviewScore string
	ReviewCount string
	ImageURL    string
}

// Client abstracts the external lodging search API.
type Client interface {
	ResolveCity(ctx context.Context, query string) ([]City, error)
	Search(ctx context.Context, mode Mode, cityID, checkIn, checkOut string) ([]Hotel, error)
}

// ErrMalformedResponse marks a location response whose entries are missing
// expected keys.
var ErrMalformedResponse = errors.New("malformed location response")

// RequestError reports a non-success HTTP status from the search API.
type RequestError struct {
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("hotels api: unexpected status %d", e.StatusCode)
}
