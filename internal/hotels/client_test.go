package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, "test-key", "test-host", 5*time.Second, time.Minute)
	return c, srv
}

func TestResolveCityFiltersRegions(t *testing.T) {
	var gotPath, gotKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-RapidAPI-Key")
		if q := r.URL.Query().Get("q"); q != "Paris" {
			t.Errorf("unexpected query %q", q)
		}
		_, _ = io.WriteString(w, `{"sr": [
			{"@type": "gaiaRegionResult", "gaiaId": "123", "regionNames": {"fullName": "Paris, France"}},
			{"@type": "HOTEL", "gaiaId": "999", "regionNames": {"fullName": "Some Hotel"}},
			{"@type": "gaiaRegionResult", "gaiaId": "456", "regionNames": {"fullName": "Paris, Texas"}}
		]}`)
	}))

	cities, err := c.ResolveCity(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if gotPath != "/locations/v3/search" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header missing, got %q", gotKey)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %+v", cities)
	}
	if cities[0] != (City{ID: "123", Name: "Paris, France"}) {
		t.Fatalf("unexpected first city: %+v", cities[0])
	}
	if cities[1] != (City{ID: "456", Name: "Paris, Texas"}) {
		t.Fatalf("unexpected second city: %+v", cities[1])
	}
}

func TestResolveCityCapsAtTenEntries(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Type        string `json:"@type"`
			GaiaID      string `json:"gaiaId"`
			RegionNames struct {
				FullName string `json:"fullName"`
			} `json:"regionNames"`
		}
		var sr []entry
		for i := 0; i < 15; i++ {
			e := entry{Type: "gaiaRegionResult", GaiaID: "id"}
			e.RegionNames.FullName = "name"
			sr = append(sr, e)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sr": sr})
	}))

	cities, err := c.ResolveCity(context.Background(), "big")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(cities) != 10 {
		t.Fatalf("expected 10 cities, got %d", len(cities))
	}
}

func TestResolveCityEmptyResult(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"sr": []}`)
	}))

	cities, err := c.ResolveCity(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(cities) != 0 {
		t.Fatalf("expected no cities, got %+v", cities)
	}
}

func TestResolveCityMalformedEntry(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"sr": [{"@type": "gaiaRegionResult", "regionNames": {"fullName": "No ID"}}]}`)
	}))

	_, err := c.ResolveCity(context.Background(), "broken")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestResolveCityCachesResults(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, `{"sr": [{"@type": "gaiaRegionResult", "gaiaId": "1", "regionNames": {"fullName": "Sochi"}}]}`)
	}))

	for i := 0; i < 3; i++ {
		cities, err := c.ResolveCity(context.Background(), "Sochi")
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if len(cities) != 1 {
			t.Fatalf("resolve %d: unexpected cities %+v", i, cities)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}

func TestResolveCityRequestError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.ResolveCity(context.Background(), "Paris")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected RequestError 403, got %v", err)
	}
}

func decodePayload(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return payload
}

func TestSearchPayloadLowPrice(t *testing.T) {
	var payload map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/properties/v2/list" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Host") != "test-host" {
			t.Errorf("api host header missing")
		}
		payload = decodePayload(t, r)
		_, _ = io.WriteString(w, `{"data": {"propertySearch": {"properties": []}}}`)
	}))

	if _, err := c.Search(context.Background(), ModeLowPrice, "123", "2024-06-01", "2024-06-05"); err != nil {
		t.Fatalf("search: %v", err)
	}

	if payload["sort"] != "PRICE_LOW_TO_HIGH" {
		t.Fatalf("unexpected sort: %v", payload["sort"])
	}
	if payload["currency"] != "USD" || payload["locale"] != "ru_RU" {
		t.Fatalf("unexpected constants: %v %v", payload["currency"], payload["locale"])
	}
	if payload["siteId"] != float64(300000001) || payload["eapid"] != float64(1) {
		t.Fatalf("unexpected site constants: %v %v", payload["siteId"], payload["eapid"])
	}
	dest := payload["destination"].(map[string]any)
	if dest["regionId"] != "123" {
		t.Fatalf("unexpected destination: %v", dest)
	}
	in := payload["checkInDate"].(map[string]any)
	if in["day"] != float64(1) || in["month"] != float64(6) || in["year"] != float64(2024) {
		t.Fatalf("unexpected check-in decomposition: %v", in)
	}
	out := payload["checkOutDate"].(map[string]any)
	if out["day"] != float64(5) || out["month"] != float64(6) || out["year"] != float64(2024) {
		t.Fatalf("unexpected check-out decomposition: %v", out)
	}
	rooms := payload["rooms"].([]any)
	if len(rooms) != 1 || rooms[0].(map[string]any)["adults"] != float64(1) {
		t.Fatalf("unexpected rooms: %v", rooms)
	}
	if payload["resultsSize"] != float64(10) || payload["resultsStartingIndex"] != float64(0) {
		t.Fatalf("unexpected result window: %v %v", payload["resultsSize"], payload["resultsStartingIndex"])
	}
	filters := payload["filters"].(map[string]any)
	if filters["availableFilter"] != "SHOW_AVAILABLE_ONLY" {
		t.Fatalf("unexpected filters: %v", filters)
	}
	if _, ok := filters["guestRating"]; ok {
		t.Fatalf("guestRating filter must not be set for lowprice: %v", filters)
	}
}

func TestSearchPayloadSortKeys(t *testing.T) {
	var payload map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = decodePayload(t, r)
		_, _ = io.WriteString(w, `{"data": {"propertySearch": {"properties": []}}}`)
	}))

	if _, err := c.Search(context.Background(), ModeGuestRating, "1", "2024-01-02", "2024-01-03"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if payload["sort"] != "REVIEW" {
		t.Fatalf("unexpected guest rating sort: %v", payload["sort"])
	}

	if _, err := c.Search(context.Background(), ModeBestDeal, "1", "2024-01-02", "2024-01-03"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if payload["sort"] != "DISTANCE" {
		t.Fatalf("unexpected bestdeal sort: %v", payload["sort"])
	}
	filters := payload["filters"].(map[string]any)
	if filters["guestRating"] != "40" {
		t.Fatalf("expected literal guestRating filter 40, got %v", filters["guestRating"])
	}
}

func TestSearchParsesProperties(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data": {"propertySearch": {"properties": [
			{
				"name": "Grand Hotel",
				"price": {"lead": {"formatted": "$120"}},
				"reviews": {"score": 8.6, "total": 1200},
				"propertyImage": {"image": {"url": "https://img.example/1.jpg"}}
			},
			{
				"name": "No Frills Inn",
				"price": {"lead": {"formatted": "$40"}}
			}
		]}}}`)
	}))

	found, err := c.Search(context.Background(), ModeLowPrice, "1", "2024-06-01", "2024-06-05")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(found))
	}
	first := found[0]
	if first.Name != "Grand Hotel" || first.Price != "$120" {
		t.Fatalf("unexpected first hotel: %+v", first)
	}
	if first.ReviewScore != "8.6" || first.ReviewCount != "1200" {
		t.Fatalf("unexpected reviews: %+v", first)
	}
	if first.ImageURL != "https://img.example/1.jpg" {
		t.Fatalf("unexpected image: %+v", first)
	}
	second := found[1]
	if second.ReviewScore != "N/A" || second.ReviewCount != "N/A" {
		t.Fatalf("expected N/A sentinels, got %+v", second)
	}
	if second.ImageURL != "" {
		t.Fatalf("expected empty image url, got %q", second.ImageURL)
	}
}

func TestSearchRequestErrorPropagates(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Search(context.Background(), ModeLowPrice, "1", "2024-06-01", "2024-06-05")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected RequestError 500, got %v", err)
	}
}

func TestSearchRejectsBadDate(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a bad date")
	}))

	if _, err := c.Search(context.Background(), ModeLowPrice, "1", "june 1st", "2024-06-05"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
