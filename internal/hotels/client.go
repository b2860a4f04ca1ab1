package hotels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	apiLocale    = "ru_RU"
	apiCurrency  = "USD"
	apiEAPID     = 1
	apiSiteID    = 300000001
	resultsSize  = 10
	notAvailable = "N/A"

	regionResultType = "gaiaRegionResult"
)

// HTTPClient talks to the RapidAPI hotel search endpoints. Resolved city
// candidates are cached per query for a fixed TTL.
type HTTPClient struct {
	baseURL string
	apiKey  string
	apiHost string
	httpc   *http.Client
	cities  *cache.Cache
}

func New(baseURL, apiKey, apiHost string, timeout, cityTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		apiHost: apiHost,
		httpc:   &http.Client{Timeout: timeout},
		cities:  cache.New(cityTTL, 2*cityTTL),
	}
}

type locationResponse struct {
	SR []struct {
		Type        string `json:"@type"`
		GaiaID      string `json:"gaiaId"`
		RegionNames struct {
			FullName string `json:"fullName"`
		} `json:"regionNames"`
	} `json:"sr"`
}

// ResolveCity looks up region candidates matching a free-text query.
// It returns an empty slice when nothing qualifies and ErrMalformedResponse
// when a qualifying entry misses expected keys.
func (c *HTTPClient) ResolveCity(ctx context.Context, query string) ([]City, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if v, ok := c.cities.Get(key); ok {
		return v.([]City), nil
	}

	q := url.Values{"q": {query}, "locale": {apiLocale}}
	u := c.baseURL + "/locations/v3/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build location request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("location search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	var lr locationResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode location response: %w", err)
	}

	entries := lr.SR
	if len(entries) > resultsSize {
		entries = entries[:resultsSize]
	}
	out := make([]City, 0, len(entries))
	for _, e := range entries {
		if e.Type != regionResultType {
			continue
		}
		if e.GaiaID == "" || e.RegionNames.FullName == "" {
			return nil, ErrMalformedResponse
		}
		out = append(out, City{ID: e.GaiaID, Name: e.RegionNames.FullName})
	}

	c.cities.Set(key, out, cache.DefaultExpiration)
	return out, nil
}

type datePayload struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// splitDate decomposes a YYYY-MM-DD string into the integer fields the
// search API requires on the wire.
func splitDate(s string) (datePayload, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return datePayload{}, fmt.Errorf("bad date %q", s)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return datePayload{}, fmt.Errorf("bad date %q", s)
	}
	return datePayload{Day: day, Month: month, Year: year}, nil
}

type searchPayload struct {
	Currency             string            `json:"currency"`
	EAPID                int               `json:"eapid"`
	Locale               string            `json:"locale"`
	SiteID               int               `json:"siteId"`
	Destination          destination       `json:"destination"`
	CheckInDate          datePayload       `json:"checkInDate"`
	CheckOutDate         datePayload       `json:"checkOutDate"`
	Rooms                []room            `json:"rooms"`
	ResultsStartingIndex int               `json:"resultsStartingIndex"`
	ResultsSize          int               `json:"resultsSize"`
	Sort                 string            `json:"sort"`
	Filters              map[string]string `json:"filters"`
}

type destination struct {
	RegionID string `json:"regionId"`
}

type room struct {
	Adults int `json:"adults"`
}

func (m Mode) sortKey() string {
	switch m {
	case ModeGuestRating:
		return "REVIEW"
	case ModeBestDeal:
		return "DISTANCE"
	default:
		return "PRICE_LOW_TO_HIGH"
	}
}

func buildPayload(mode Mode, cityID, checkIn, checkOut string) (searchPayload, error) {
	in, err := splitDate(checkIn)
	if err != nil {
		return searchPayload{}, err
	}
	out, err := splitDate(checkOut)
	if err != nil {
		return searchPayload{}, err
	}
	filters := map[string]string{"availableFilter": "SHOW_AVAILABLE_ONLY"}
	if mode == ModeBestDeal {
		// minimum guest rating on the API's 0..100 scale
		filters["guestRating"] = "40"
	}
	return searchPayload{
		Currency:             apiCurrency,
		EAPID:                apiEAPID,
		Locale:               apiLocale,
		SiteID:               apiSiteID,
		Destination:          destination{RegionID: cityID},
		CheckInDate:          in,
		CheckOutDate:         out,
		Rooms:                []room{{Adults: 1}},
		ResultsStartingIndex: 0,
		ResultsSize:          resultsSize,
		Sort:                 mode.sortKey(),
		Filters:              filters,
	}, nil
}

type propertiesResponse struct {
	Data struct {
		PropertySearch struct {
			Properties []property `json:"properties"`
		} `json:"propertySearch"`
	} `json:"data"`
}

type property struct {
	Name  string `json:"name"`
	Price struct {
		Lead struct {
			Formatted string `json:"formatted"`
		} `json:"lead"`
	} `json:"price"`
	Reviews *struct {
		Score *float64 `json:"score"`
		Total *int     `json:"total"`
	} `json:"reviews"`
	PropertyImage *struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"propertyImage"`
}

// Search runs a property search in the given mode and returns the result
// window as display-ready entries.
func (c *HTTPClient) Search(ctx context.Context, mode Mode, cityID, checkIn, checkOut string) ([]Hotel, error) {
	payload, err := buildPayload(mode, cityID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode search payload: %w", err)
	}

	u := c.baseURL + "/properties/v2/list"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode}
	}

	var pr propertiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	props := pr.Data.PropertySearch.Properties
	out := make([]Hotel, 0, len(props))
	for _, p := range props {
		h := Hotel{
			Name:        p.Name,
			Price:       p.Price.Lead.Formatted,
			ReviewScore: notAvailable,
			ReviewCount: notAvailable,
		}
		if p.Reviews != nil {
			if p.Reviews.Score != nil {
				h.ReviewScore = strconv.FormatFloat(*p.Reviews.Score, 'f', -1, 64)
			}
			if p.Reviews.Total != nil {
				h.ReviewCount = strconv.Itoa(*p.Reviews.Total)
			}
		}
		if p.PropertyImage != nil {
			h.ImageURL = p.PropertyImage.Image.URL
		}
		out = append(out, h)
	}
	return out, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}
