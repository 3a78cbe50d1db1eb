package model

// Session is a bookable photo shoot published by the admin.  Capacity
// and occupancy are tracked on the record itself; occupancy only ever
// grows through a successful claim because no cancellation path exists.
//
// Fields:
//  ID              – unique identifier derived from the creation timestamp
//                    (Unix milliseconds).
//  Title           – theme of the shoot, shown on the agenda.
//  Description     – free-form description.
//  Tag             – short badge label ("NUEVO", "URBAN", ...).
//  ScheduledDate   – display date such as "SÁB 21 FEB" (Spanish weekday and
//                    month abbreviations, current calendar year).
//  ScheduledTime   – "HH:MM" or a day-part keyword (mañana/tarde/noche).
//  Location        – meeting point, defaults to Madrid.
//  MapsLink        – optional Google Maps URL for the meeting point.
//  Capacity        – total slots available.
//  Occupied        – slots already claimed; invariant 0 <= Occupied <= Capacity.
//  PriceEUR        – price per slot in euros.
//  CoverImage      – URL of the cover photo.
//  MoodboardImages – style-reference images; defaults to the cover image.
type Session struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tag             string   `json:"tag"`
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledTime   string   `json:"scheduled_time"`
	Location        string   `json:"location"`
	MapsLink        string   `json:"maps_link,omitempty"`
	Capacity        int      `json:"capacity"`
	Occupied        int      `json:"occupied"`
	PriceEUR        int      `json:"price_eur"`
	CoverImage      string   `json:"cover_image"`
	MoodboardImages []string `json:"moodboard_images"`
}

// SessionDraft carries the admin-supplied fields for a new session.
// Zero values are filled with registry defaults on creation; only the
// title is mandatory.
type SessionDraft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tag             string   `json:"tag"`
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledTime   string   `json:"scheduled_time"`
	Location        string   `json:"location"`
	MapsLink        string   `json:"maps_link"`
	Capacity        int      `json:"capacity"`
	PriceEUR        int      `json:"price_eur"`
	CoverImage      string   `json:"cover_image"`
	MoodboardImages []string `json:"moodboard_images"`
}

// SlotsLeft returns the number of unclaimed slots.
func (s Session) SlotsLeft() int {
	left := s.Capacity - s.Occupied
	if left < 0 {
		return 0
	}
	return left
}
