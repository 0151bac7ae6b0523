package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDetails_SerializesEveryField(t *testing.T) {
	data, err := json.Marshal(DefaultDetails())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{"price", "year", "mileage", "color", "transmission", "fuel", "doorCount", "options"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "0.00", fields["price"])
	assert.Equal(t, []interface{}{}, fields["options"])
}

func TestNewListing_DetailsWinOverCard(t *testing.T) {
	card := ListingCard{
		Name:        "Onix LT 1.0",
		LinkDetails: "https://example.com/carro/onix",
		Price:       "50000.00",
		Year:        "2019",
		Mileage:     "10000",
	}
	details := DefaultDetails()
	details.Price = "48900.00"
	details.Year = "2019/2020"

	listing := NewListing(card, details, "", nil)

	assert.Equal(t, "Onix LT 1.0", listing.Name)
	assert.Equal(t, "48900.00", listing.Price)
	assert.Equal(t, "2019/2020", listing.Year)
	assert.Equal(t, "10000", listing.Mileage, "card mileage kept when details have none")
	assert.Equal(t, []string{}, listing.Photos)
}

func TestNewListing_CardPriceUsedWhenDetailsUnknown(t *testing.T) {
	card := ListingCard{Name: "Gol", Price: "32000.00"}
	listing := NewListing(card, DefaultDetails(), "desc", []string{"a.jpg"})

	assert.Equal(t, "32000.00", listing.Price)
	assert.Equal(t, "desc", listing.Description)

	empty := NewListing(ListingCard{Name: "Uno"}, VehicleDetails{}, "", nil)
	assert.Equal(t, PriceUnknown, empty.Price)
	assert.NotNil(t, empty.Options)
}

func TestListing_FlatJSON(t *testing.T) {
	listing := NewListing(ListingCard{Name: "Ka"}, DefaultDetails(), "", nil)
	data, err := json.Marshal(listing)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"name", "link_details", "main_image_url", "price", "doorCount", "options", "description", "photos"} {
		assert.Contains(t, fields, key)
	}
}
