package location

import "time"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Location is a user's single saved location.
type Location struct {
	ID          string       `json:"_id"`
	UserID      string       `json:"userId"`
	ZipCode     string       `json:"zipCode"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// HasCoordinates reports whether the location can be used for forecasts.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Coordinates != nil
}
