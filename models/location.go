package models

import (
	"time"

	"gorm.io/gorm"
)

// LocationLevel names one level of the location tree in URLs and errors
type LocationLevel string

const (
	LevelCountry      LocationLevel = "countries"
	LevelCity         LocationLevel = "cities"
	LevelDistrict     LocationLevel = "districts"
	LevelNeighborhood LocationLevel = "neighborhoods"
)

// ParseLocationLevel accepts the plural URL segment of a level.
func ParseLocationLevel(s string) (LocationLevel, bool) {
	switch l := LocationLevel(s); l {
	case LevelCountry, LevelCity, LevelDistrict, LevelNeighborhood:
		return l, true
	}
	return "", false
}

// Entity returns the singular display name of the level.
func (l LocationLevel) Entity() string {
	switch l {
	case LevelCountry:
		return "country"
	case LevelCity:
		return "city"
	case LevelDistrict:
		return "district"
	case LevelNeighborhood:
		return "neighborhood"
	}
	return "location"
}

// Country is the root of the location tree
type Country struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Cities []City `json:"cities,omitempty" gorm:"foreignKey:CountryID;constraint:OnDelete:RESTRICT"`
}

func (c *Country) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// City carries a copy of its country's name
type City struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex:idx_cities_country_slug"`
	CountryID   string    `json:"countryId" gorm:"size:36;not null;uniqueIndex:idx_cities_country_slug"`
	CountryName string    `json:"countryName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Districts []District `json:"districts,omitempty" gorm:"foreignKey:CityID;constraint:OnDelete:RESTRICT"`
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// District carries copies of its city and country names
type District struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"not null;uniqueIndex:idx_districts_city_slug"`
	CityID      string    `json:"cityId" gorm:"size:36;not null;uniqueIndex:idx_districts_city_slug"`
	CityName    string    `json:"cityName"`
	CountryID   string    `json:"countryId" gorm:"size:36;index"`
	CountryName string    `json:"countryName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Neighborhoods []Neighborhood `json:"neighborhoods,omitempty" gorm:"foreignKey:DistrictID;constraint:OnDelete:RESTRICT"`
}

func (d *District) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// Neighborhood is the leaf of the location tree
type Neighborhood struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"not null;uniqueIndex:idx_neighborhoods_district_slug"`
	DistrictID   string    `json:"districtId" gorm:"size:36;not null;uniqueIndex:idx_neighborhoods_district_slug"`
	DistrictName string    `json:"districtName"`
	CityID       string    `json:"cityId" gorm:"size:36;index"`
	CityName     string    `json:"cityName"`
	CountryID    string    `json:"countryId" gorm:"size:36;index"`
	CountryName  string    `json:"countryName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (n *Neighborhood) BeforeCreate(tx *gorm.DB) error {
	assignID(&n.ID)
	return nil
}

// LocationSnapshot is an address copied onto a listing at write time.
// It holds no foreign keys; later renames in the registry do not touch it.
type LocationSnapshot struct {
	CountryID        string   `json:"countryId" gorm:"size:36"`
	CountryName      string   `json:"countryName"`
	CityID           string   `json:"cityId" gorm:"size:36;index"`
	CityName         string   `json:"cityName"`
	DistrictID       string   `json:"districtId" gorm:"size:36;index"`
	DistrictName     string   `json:"districtName"`
	NeighborhoodID   string   `json:"neighborhoodId" gorm:"size:36"`
	NeighborhoodName string   `json:"neighborhoodName"`
	Address          string   `json:"address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Geohash          string   `json:"geohash" gorm:"size:12;index"`
}
