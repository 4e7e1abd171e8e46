package domain

type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyStudio    PropertyType = "Studio"
	PropertyHouse     PropertyType = "House"
)

// Amenity categories are a fixed set used by the dashboard grouping.
const (
	AmenityLivingRoom     = "Living room"
	AmenityInternetOffice = "Internet & office"
	AmenityBedroomLaundry = "Bedroom & laundry"
	AmenityKitchenDining  = "Kitchen & dining"
	AmenityGeneral        = "General"
)

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Amenity struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
}

type Policies struct {
	CheckIn            string   `json:"checkIn"`
	CheckOut           string   `json:"checkOut"`
	HouseRules         []string `json:"houseRules"`
	CancellationPolicy string   `json:"cancellationPolicy"`
}

// Property is a listing shown on the public page. Price is nil when the
// listing has no configured nightly price; display falls back to a
// rating-derived estimate (see app.EstimatePrice).
type Property struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Address     string       `json:"address"`
	Coordinates Coords       `json:"coordinates"`
	Type        PropertyType `json:"type"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   int          `json:"bathrooms"`
	Guests      int          `json:"guests"`
	Price       *float64     `json:"price"`
	Description string       `json:"description"`
	Images      []string     `json:"images"`
	Amenities   []Amenity    `json:"amenities"`
	Policies    Policies     `json:"policies"`
}
