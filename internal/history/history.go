package history

// Record is one completed hotel search. Records are immutable once written
// and are appended in chronological order, newest last.
type Record struct {
	CityID       string `json:"city_id"`
	CityName     string `json:"city_name"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	SearchType   string `json:"search_type"`
}

// Repository abstracts persistence of per-user search history.
// Implementations can be file-based, database, etc.
// Load must degrade to an empty sequence on any read failure so callers
// never have to handle storage errors.
type Repository interface {
	Append(userID int64, rec Record) error
	Load(userID int64) []Record
}
