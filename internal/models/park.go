package models

// Park is the top-level entity a live-data document describes.
type Park struct {
	ID         string `json:"id"` // upstream UUID, primary key
	Name       string `json:"name"`
	EntityType string `json:"entity_type"` // e.g. "PARK"
	Timezone   string `json:"timezone"`    // IANA name, e.g. "Europe/Paris"
}

// Attraction belongs to a park; upserted on every poll that mentions it.
type Attraction struct {
	ID         string  `json:"id"` // upstream UUID, primary key
	ParkID     string  `json:"park_id"`
	Name       string  `json:"name"`
	EntityType string  `json:"entity_type"`
	ExternalID *string `json:"external_id,omitempty"` // upstream secondary reference
}

// Show belongs to a park; same identity rules as Attraction.
type Show struct {
	ID         string  `json:"id"`
	ParkID     string  `json:"park_id"`
	Name       string  `json:"name"`
	EntityType string  `json:"entity_type"`
	ExternalID *string `json:"external_id,omitempty"`
}
