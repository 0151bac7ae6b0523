package model

// PriceUnknown is the price sentinel used when no amount could be extracted
const PriceUnknown = "0.00"

// VehicleDetails represents the attributes extracted from one detail page.
// Every field is always present when serialized; absence is an empty value.
type VehicleDetails struct {
	Price        string   `json:"price"`        // Decimal string, "0.00" when unknown
	Year         string   `json:"year"`         // "YYYY" or "YYYY/YYYY"
	Mileage      string   `json:"mileage"`      // Digits only
	Color        string   `json:"color"`        // Capitalized color name
	Transmission string   `json:"transmission"` // "Manual", "Automático" or raw text
	Fuel         string   `json:"fuel"`         // Upper-case fuel label
	DoorCount    string   `json:"doorCount"`    // Single digit
	Options      []string `json:"options"`      // Option list in page order
}

// DefaultDetails returns a record with every field at its empty/sentinel value
func DefaultDetails() VehicleDetails {
	return VehicleDetails{
		Price:   PriceUnknown,
		Options: []string{},
	}
}

// ListingCard holds the fields read from one card on a listing page
type ListingCard struct {
	Name         string `json:"name"`
	LinkDetails  string `json:"link_details"`
	MainImageURL string `json:"main_image_url"`
	Price        string `json:"price"`
	Year         string `json:"year"`
	Mileage      string `json:"mileage"`
}

// Listing is the final record: card fields, extracted details and page extras
type Listing struct {
	Name         string `json:"name"`
	LinkDetails  string `json:"link_details"`
	MainImageURL string `json:"main_image_url"`

	VehicleDetails

	Description string   `json:"description"`
	Photos      []string `json:"photos"`
}

// NewListing merges a card with the details extracted from its detail page.
// Detail values win over card values unless they are empty or the sentinel.
func NewListing(card ListingCard, details VehicleDetails, description string, photos []string) Listing {
	merged := details
	if merged.Price == "" || merged.Price == PriceUnknown {
		merged.Price = card.Price
		if merged.Price == "" {
			merged.Price = PriceUnknown
		}
	}
	if merged.Year == "" {
		merged.Year = card.Year
	}
	if merged.Mileage == "" {
		merged.Mileage = card.Mileage
	}
	if merged.Options == nil {
		merged.Options = []string{}
	}
	if photos == nil {
		photos = []string{}
	}

	return Listing{
		Name:           card.Name,
		LinkDetails:    card.LinkDetails,
		MainImageURL:   card.MainImageURL,
		VehicleDetails: merged,
		Description:    description,
		Photos:         photos,
	}
}
