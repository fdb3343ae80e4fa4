package models

import "strconv"

// CurrencySymbol is prepended to every submitted coffee price.
const CurrencySymbol = "£"

type Cafe struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:250;uniqueIndex;not null"`
	MapURL       string `json:"map_url" gorm:"size:500;not null"`
	ImgURL       string `json:"img_url" gorm:"size:500;not null"`
	Location     string `json:"location" gorm:"size:250;not null"`
	HasSockets   bool   `json:"has_sockets" gorm:"not null"`
	HasToilet    bool   `json:"has_toilet" gorm:"not null"`
	HasWifi      bool   `json:"has_wifi" gorm:"not null"`
	CanTakeCalls bool   `json:"can_take_calls" gorm:"not null"`
	Seats        string `json:"seats" gorm:"size:250;not null"`
	CoffeePrice  string `json:"coffee_price" gorm:"size:250"`
	AuthorID     *uint  `json:"author_id"`
	Author       *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Cafe) TableName() string {
	return "cafe"
}

// CafeFields is the user-editable part of a Cafe. CoffeePrice holds the raw
// submitted value, before the currency prefix is applied.
type CafeFields struct {
	Name         string
	Location     string
	MapURL       string
	ImgURL       string
	HasSockets   bool
	HasToilet    bool
	HasWifi      bool
	CanTakeCalls bool
	Seats        string
	CoffeePrice  string
}

// FormatPrice applies the currency prefix to a submitted price. It does not
// look at what it is given, so an already prefixed value gains a second symbol.
func FormatPrice(raw string) string {
	return CurrencySymbol + raw
}

// Apply copies f onto c, formatting the price.
func (f CafeFields) Apply(c *Cafe) {
	c.Name = f.Name
	c.Location = f.Location
	c.MapURL = f.MapURL
	c.ImgURL = f.ImgURL
	c.HasSockets = f.HasSockets
	c.HasToilet = f.HasToilet
	c.HasWifi = f.HasWifi
	c.CanTakeCalls = f.CanTakeCalls
	c.Seats = f.Seats
	c.CoffeePrice = FormatPrice(f.CoffeePrice)
}

// Column is one displayable cafe attribute in a listing table.
type Column struct {
	Header string
	// Link marks values that are URLs and render as anchors.
	Link  bool
	Value func(c *Cafe) string
}

// CafeColumns is the ordered list of attributes shown by the listing pages.
var CafeColumns = []Column{
	{Header: "id", Value: func(c *Cafe) string { return strconv.FormatUint(uint64(c.ID), 10) }},
	{Header: "name", Value: func(c *Cafe) string { return c.Name }},
	{Header: "map_url", Link: true, Value: func(c *Cafe) string { return c.MapURL }},
	{Header: "img_url", Link: true, Value: func(c *Cafe) string { return c.ImgURL }},
	{Header: "location", Value: func(c *Cafe) string { return c.Location }},
	{Header: "has_sockets", Value: func(c *Cafe) string { return yesNo(c.HasSockets) }},
	{Header: "has_toilet", Value: func(c *Cafe) string { return yesNo(c.HasToilet) }},
	{Header: "has_wifi", Value: func(c *Cafe) string { return yesNo(c.HasWifi) }},
	{Header: "can_take_calls", Value: func(c *Cafe) string { return yesNo(c.CanTakeCalls) }},
	{Header: "seats", Value: func(c *Cafe) string { return c.Seats }},
	{Header: "coffee_price", Value: func(c *Cafe) string { return c.CoffeePrice }},
}

func yesNo(b bool) string {
	if b {
		return "✔"
	}
	return "✘"
}
