package domain

// Hotel is a listing as the backend returns it. The front end only reads
// hotels; the seed operation is the single writer (see NewHotel).
type Hotel struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	PricePerNight float64  `json:"price_per_night"`
	Rating        *float64 `json:"rating"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
}

// NewHotel is the create payload; ids are assigned server-side.
type NewHotel struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	PricePerNight float64  `json:"price_per_night"`
	Rating        float64  `json:"rating"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
}

// SamplePresets returns the fixed records submitted by "Load sample hotels",
// in submission order. A fresh slice is returned on every call.
func SamplePresets() []NewHotel {
	return []NewHotel{
		{
			Name: "Grand Aurora Palace", City: "Paris", Country: "France",
			PricePerNight: 420, Rating: 4.8,
			Description: "Iconic luxury near the Seine with Michelin dining.",
			Amenities:   []string{"Spa", "Pool", "Butler"},
			Phone:       "+33 1 23 45 67 89", Email: "paris@aurora.com",
		},
		{
			Name: "Celestial Bay Resort", City: "Maldives", Country: "Maldives",
			PricePerNight: 680, Rating: 4.9,
			Description: "Overwater villas with private decks and turquoise lagoons.",
			Amenities:   []string{"Private Villa", "Snorkeling", "Sunset Cruise"},
			Phone:       "+960 123-4567", Email: "stay@celestialbay.mv",
		},
		{
			Name: "Imperial Crown Hotel", City: "Tokyo", Country: "Japan",
			PricePerNight: 390, Rating: 4.7,
			Description: "Skyline views in the heart of Marunouchi.",
			Amenities:   []string{"Onsen", "Sky Bar", "Tea Ceremony"},
			Phone:       "+81 3-0000-0000", Email: "hello@imperialcrown.jp",
		},
		{
			Name: "Elysium Heights", City: "New York", Country: "USA",
			PricePerNight: 450, Rating: 4.8,
			Description: "Steps from Central Park with a world-class spa.",
			Amenities:   []string{"Spa", "Gym", "Concierge"},
			Phone:       "+1 (212) 555-0189", Email: "book@elysiumheights.com",
		},
		{
			Name: "Azure Dunes Retreat", City: "Dubai", Country: "UAE",
			PricePerNight: 520, Rating: 4.9,
			Description: "Beachfront opulence with desert excursions.",
			Amenities:   []string{"Private Beach", "Desert Safari", "Infinity Pool"},
			Phone:       "+971 4 123 4567", Email: "stay@azuredunes.ae",
		},
	}
}
