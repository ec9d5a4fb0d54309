package entity

import "time"

// SeatMap is the authored chart: a venue image plus the seats placed on it.
// Positions are stored normalized against the intrinsic image size captured
// at upload time, so the chart renders at any resolution.
type SeatMap struct {
	Base
	VenueImageRef string     `db:"venue_image_ref"`
	ImageWidth    int        `db:"image_width"`
	ImageHeight   int        `db:"image_height"`
	PublishedAt   *time.Time `db:"published_at"`
}

// Frozen reports whether the chart has been published. A frozen chart
// rejects every authoring mutation except seat blocking.
func (m *SeatMap) Frozen() bool {
	return m.PublishedAt != nil
}
