package request

import "github.com/shopspring/decimal"

type CreateCategoryRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	ColorHint   string          `json:"color_hint" validate:"omitempty,hexcolor"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

// PlaceSeatRequest carries a pixel click. DisplayWidth/DisplayHeight are the
// resolution the organizer is rendering at; zero means pixel coordinates are
// already in the image's intrinsic space.
type PlaceSeatRequest struct {
	PixelX        float64 `json:"pixel_x" validate:"min=0"`
	PixelY        float64 `json:"pixel_y" validate:"min=0"`
	DisplayWidth  int     `json:"display_width" validate:"min=0"`
	DisplayHeight int     `json:"display_height" validate:"min=0"`
	Label         string  `json:"label" validate:"required,max=50"`
	Row           *string `json:"row,omitempty" validate:"omitempty,max=20"`
	Section       *string `json:"section,omitempty" validate:"omitempty,max=50"`
	IsAccessible  bool    `json:"is_accessible"`
}

// UpdateSeatRequest is a partial edit; absent fields are left untouched.
// X and Y must be sent together.
type UpdateSeatRequest struct {
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
	CategoryID   *string  `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Label        *string  `json:"label,omitempty" validate:"omitempty,max=50"`
	Row          *string  `json:"row,omitempty" validate:"omitempty,max=20"`
	Section      *string  `json:"section,omitempty" validate:"omitempty,max=50"`
	IsAccessible *bool    `json:"is_accessible,omitempty"`
}

type BlockSeatRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

type BeginPlacementRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid4"`
}
