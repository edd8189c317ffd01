package domain

// Listing is a static catalog entry for an event or service offering.
type Listing struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Cost        string `json:"cost"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Duration    string `json:"duration"`
	Category    string `json:"category,omitempty"`
}
