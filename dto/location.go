package dto

// LocationRequest creates or updates any level of the location tree.
// Only the parent id matching the level is read.
type LocationRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Slug       string `json:"slug" binding:"omitempty,max=200"`
	CountryID  string `json:"countryId"`
	CityID     string `json:"cityId"`
	DistrictID string `json:"districtId"`
}

// LocationOption is the dropdown shape served under /api/data
type LocationOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
