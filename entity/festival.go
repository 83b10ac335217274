package entity

type Festival struct {
	ID        string `json:"festival_id"`
	Name      string `json:"name"`
	Venue     string `json:"venue"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Price     int64  `json:"price"`
}
