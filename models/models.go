package models

// RawEvent is an event row exactly as the database hands it over. The data
// originates from user submissions and several imports, so the geo and tag
// fields do not have a reliable shape: coordinates may be numbers or strings,
// type may be an array or missing, age_group may be an array or a
// comma-delimited string. Normalize turns a RawEvent into an Event.
type RawEvent struct {
	ID          interface{} `bson:"id" json:"id"`
	Title       string      `bson:"title,omitempty" json:"title,omitempty"`
	Address     string      `bson:"address,omitempty" json:"address,omitempty"`
	Website     string      `bson:"website,omitempty" json:"website,omitempty"`
	Contact     string      `bson:"contact,omitempty" json:"contact,omitempty"`
	ContactName string      `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	Lat         interface{} `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng         interface{} `bson:"lng,omitempty" json:"lng,omitempty"`
	StartDate   string      `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     string      `bson:"end_date,omitempty" json:"end_date,omitempty"`
	StartTime   string      `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string      `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Type        interface{} `bson:"type,omitempty" json:"type,omitempty"`
	Format      string      `bson:"format,omitempty" json:"format,omitempty"`
	AgeGroup    interface{} `bson:"age_group,omitempty" json:"age_group,omitempty"`
	Price       interface{} `bson:"price,omitempty" json:"price,omitempty"`
	Status      string      `bson:"status,omitempty" json:"status,omitempty"`

	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	DescriptionEN string `bson:"description_en,omitempty" json:"description_en,omitempty"`
	DescriptionDE string `bson:"description_de,omitempty" json:"description_de,omitempty"`
	DescriptionFR string `bson:"description_fr,omitempty" json:"description_fr,omitempty"`
	DescriptionIT string `bson:"description_it,omitempty" json:"description_it,omitempty"`
	DescriptionRU string `bson:"description_ru,omitempty" json:"description_ru,omitempty"`

	// legacy column names still present on older rows
	EventDescription   string `bson:"event_description,omitempty" json:"event_description,omitempty"`
	EventDescriptionEN string `bson:"event_description_en,omitempty" json:"event_description_en,omitempty"`
	EventDescriptionDE string `bson:"event_description_de,omitempty" json:"event_description_de,omitempty"`
	EventDescriptionFR string `bson:"event_description_fr,omitempty" json:"event_description_fr,omitempty"`
	EventDescriptionIT string `bson:"event_description_it,omitempty" json:"event_description_it,omitempty"`
	EventDescriptionRU string `bson:"event_description_ru,omitempty" json:"event_description_ru,omitempty"`
}

// Event is the normalized, fully typed representation the rest of the service
// operates on. Lat/Lng are nil for unpositioned events (bad or missing
// coordinates) until the geocoder resolves the address.
type Event struct {
	ID          string   `bson:"id" json:"id"`
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Address     string   `bson:"address,omitempty" json:"address,omitempty"`
	Website     string   `bson:"website,omitempty" json:"website,omitempty"`
	Contact     string   `bson:"contact,omitempty" json:"contact,omitempty"`
	ContactName string   `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	Lat         *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng         *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
	StartDate   string   `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     string   `bson:"end_date,omitempty" json:"end_date,omitempty"`
	StartTime   string   `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string   `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Types       []string `bson:"type,omitempty" json:"type,omitempty"`
	Format      string   `bson:"format,omitempty" json:"format,omitempty"`
	AgeGroups   []string `bson:"age_group,omitempty" json:"age_group,omitempty"`
	Price       *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Status      string   `bson:"status,omitempty" json:"status,omitempty"`

	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	DescriptionEN string `bson:"description_en,omitempty" json:"description_en,omitempty"`
	DescriptionDE string `bson:"description_de,omitempty" json:"description_de,omitempty"`
	DescriptionFR string `bson:"description_fr,omitempty" json:"description_fr,omitempty"`
	DescriptionIT string `bson:"description_it,omitempty" json:"description_it,omitempty"`
	DescriptionRU string `bson:"description_ru,omitempty" json:"description_ru,omitempty"`
}

// Positioned reports whether the event has valid coordinates and can be
// rendered on the map.
func (e *Event) Positioned() bool {
	return e.Lat != nil && e.Lng != nil
}

// DescriptionIn returns the best description for the requested language,
// falling back through english, german and russian before the generic field.
func (e *Event) DescriptionIn(lang string) string {
	byLang := map[string]string{
		"en": e.DescriptionEN,
		"de": e.DescriptionDE,
		"fr": e.DescriptionFR,
		"it": e.DescriptionIT,
		"ru": e.DescriptionRU,
	}
	for _, candidate := range []string{byLang[lang], byLang["en"], byLang["de"], byLang["ru"], e.Description} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// EventSubmission is the payload of the public add-event flow. Submissions
// always enter the database with status "pending" until a moderator approves
// them.
type EventSubmission struct {
	Title       string   `bson:"title" json:"title" validate:"required" example:"Open Air Cinema"`
	Address     string   `bson:"address" json:"address" validate:"required" example:"Bahnhofstrasse 1, Zürich"`
	Website     string   `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url" example:"https://example.com"`
	Contact     string   `bson:"contact,omitempty" json:"contact,omitempty" example:"+41 00 000 00 00"`
	ContactName string   `bson:"contact_name,omitempty" json:"contact_name,omitempty" example:"Jane"`
	StartDate   string   `bson:"start_date" json:"start_date" validate:"required" example:"2024-06-01"`
	EndDate     string   `bson:"end_date,omitempty" json:"end_date,omitempty" example:"2024-06-03"`
	StartTime   string   `bson:"start_time,omitempty" json:"start_time,omitempty" example:"19:00"`
	EndTime     string   `bson:"end_time,omitempty" json:"end_time,omitempty" example:"23:00"`
	Types       []string `bson:"type,omitempty" json:"type,omitempty" example:"музыка"`
	Format      string   `bson:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=any children adults" example:"any"`
	AgeGroups   []string `bson:"age_group,omitempty" json:"age_group,omitempty" example:"6+"`
	Description string   `bson:"description,omitempty" json:"description,omitempty" example:"A lovely evening."`
}

// Bounds is the rectangle currently visible on the map, as reported by the
// map widget: south-west and north-east corners.
type Bounds struct {
	SWLat float64 `json:"sw_lat" validate:"min=-90,max=90"`
	SWLng float64 `json:"sw_lng" validate:"min=-180,max=180"`
	NELat float64 `json:"ne_lat" validate:"min=-90,max=90"`
	NELng float64 `json:"ne_lng" validate:"min=-180,max=180"`
}

// Rect is the min/max form of Bounds used as a server-side range filter.
type Rect struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Bounds) Rect() Rect {
	r := Rect{MinLat: b.SWLat, MaxLat: b.NELat, MinLng: b.SWLng, MaxLng: b.NELng}
	if r.MinLat > r.MaxLat {
		r.MinLat, r.MaxLat = r.MaxLat, r.MinLat
	}
	if r.MinLng > r.MaxLng {
		r.MinLng, r.MaxLng = r.MaxLng, r.MinLng
	}
	return r
}

// Viewport is the soft-reload state: center and zoom survive a full client
// reload so the map comes back where the user left it.
type Viewport struct {
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Zoom      int     `json:"zoom"`
}

// Profile is the per-user document holding the favorites set.
type Profile struct {
	ID        string   `bson:"id" json:"id"`
	Favorites []string `bson:"favorites,omitempty" json:"favorites,omitempty"`
}

// NominatimPlace is the subset of a Nominatim search result the geocoder
// needs.
type NominatimPlace struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	AddressType string  `json:"addresstype"`
	Importance  float64 `json:"importance"`
}
