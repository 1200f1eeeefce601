// Package models defines the ramen visit record shared by the client and the
// server. Field names on the wire follow the original collection schema.
package models

import (
	"fmt"
	"strings"
	"time"
)

// MenuItem is one ordered menu entry. Price is optional.
type MenuItem struct {
	Name  string `json:"name"`
	Price *int   `json:"price"`
}

// Record is one logged ramen visit as persisted in the remote collection.
// ID, CreatedAt and UpdatedAt are assigned by the server and immutable on the
// client.
type Record struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Prefecture    string     `json:"prefecture"`
	City          string     `json:"city"`
	ShopName      string     `json:"shopName"`
	RamenType     string     `json:"ramenType"`
	Menus         []MenuItem `json:"menus"`
	BusinessHours string     `json:"businessHours"`
	Holidays      string     `json:"holidays"`
	Links         string     `json:"links"`
	Notes         string     `json:"notes"`
	Rating        int        `json:"rating"`
	WantToReturn  bool       `json:"wantToReturn"`
	PhotoDataURL  *string    `json:"photoDataUrl"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// RecordPayload is the editable subset of a Record that travels in create and
// update requests.
type RecordPayload struct {
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Prefecture    string     `json:"prefecture"`
	City          string     `json:"city"`
	ShopName      string     `json:"shopName"`
	RamenType     string     `json:"ramenType"`
	Menus         []MenuItem `json:"menus"`
	BusinessHours string     `json:"businessHours"`
	Holidays      string     `json:"holidays"`
	Links         string     `json:"links"`
	Notes         string     `json:"notes"`
	Rating        int        `json:"rating"`
	WantToReturn  bool       `json:"wantToReturn"`
	PhotoDataURL  *string    `json:"photoDataUrl"`
}

const defaultRating = 3

// ValidationError reports the first violated form rule. Exactly one is
// surfaced at a time.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Normalize trims text fields, drops menu entries without a name and forces
// an out-of-range rating back to the default. It returns the receiver's
// normalized copy so callers can chain it before Validate or persistence.
func (p RecordPayload) Normalize() RecordPayload {
	p.City = strings.TrimSpace(p.City)
	p.ShopName = strings.TrimSpace(p.ShopName)
	p.BusinessHours = strings.TrimSpace(p.BusinessHours)
	p.Holidays = strings.TrimSpace(p.Holidays)
	p.Links = strings.TrimSpace(p.Links)
	p.Notes = strings.TrimSpace(p.Notes)

	menus := make([]MenuItem, 0, len(p.Menus))
	for _, m := range p.Menus {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		menus = append(menus, m)
	}
	p.Menus = menus

	if p.Rating < 1 || p.Rating > 5 {
		p.Rating = defaultRating
	}

	return p
}

// Validate checks the required fields in fixed order and returns the first
// violation: date, prefecture, city, shop name. Call on a normalized payload.
func (p RecordPayload) Validate() error {
	if p.Date == "" {
		return &ValidationError{Field: "date", Message: "日付を入力してください"}
	}
	if !IsPrefecture(p.Prefecture) {
		return &ValidationError{Field: "prefecture", Message: "都道府県を選択してください"}
	}
	if strings.TrimSpace(p.City) == "" {
		return &ValidationError{Field: "city", Message: "市町村を入力してください"}
	}
	if strings.TrimSpace(p.ShopName) == "" {
		return &ValidationError{Field: "shopName", Message: "店名を入力してください"}
	}
	return nil
}
