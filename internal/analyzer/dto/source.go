package dto

// RawPost is one row of the labeled community post table, exactly as the
// upstream scraper wrote it.
type RawPost struct {
	Date           string `json:"date"`
	Code           string `json:"code"`
	Stock          string `json:"stock"`
	Type           string `json:"type"`
	SentimentLabel string `json:"sentiment_label"`
}

// RawTick is one row of the price tick table, exactly as the upstream
// scraper wrote it.
type RawTick struct {
	Date   string `json:"date"`
	Code   string `json:"code"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// DropStats reports how many rows a parsing stage kept and why the rest were dropped.
type DropStats struct {
	Total    int `json:"total"`
	Kept     int `json:"kept"`
	BadDate  int `json:"bad_date"`
	BadCode  int `json:"bad_code"`
	BadPrice int `json:"bad_price"`
}

// Dropped is the number of rows removed by the stage.
func (s DropStats) Dropped() int {
	return s.Total - s.Kept
}
