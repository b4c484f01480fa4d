package services

import (
	"context"
	"sort"
	"strings"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/utils"
)

// snapshotLocation copies the neighborhood's ancestry onto a listing
// address. Problems are recorded in fields under "location.*".
func snapshotLocation(ctx context.Context, locations *repositories.LocationRepository, fields apperr.FieldErrors, in *dto.LocationInput) (models.LocationSnapshot, error) {
	if in == nil {
		fields.Add("location", "is required")
		return models.LocationSnapshot{}, nil
	}
	if fields.Has("location.neighborhoodId") {
		return models.LocationSnapshot{}, nil
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		fields.Add("location.latitude", "latitude and longitude must be set together")
	}

	neighborhood, err := locations.FindNeighborhood(ctx, in.NeighborhoodID)
	if apperr.Is(err, apperr.KindNotFound) {
		fields.Add("location.neighborhoodId", "does not exist")
		return models.LocationSnapshot{}, nil
	}
	if err != nil {
		return models.LocationSnapshot{}, err
	}

	return models.LocationSnapshot{
		CountryID:        neighborhood.CountryID,
		CountryName:      neighborhood.CountryName,
		CityID:           neighborhood.CityID,
		CityName:         neighborhood.CityName,
		DistrictID:       neighborhood.DistrictID,
		DistrictName:     neighborhood.DistrictName,
		NeighborhoodID:   neighborhood.ID,
		NeighborhoodName: neighborhood.Name,
		Address:          utils.SanitizePlainText(in.Address),
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Geohash:          utils.Geohash(in.Latitude, in.Longitude),
	}, nil
}

// positions ranks rows by their explicit order, falling back to the request
// index, and returns a unique stored position per request index. Ties keep
// request order.
func positions(orders []*int) []int {
	ranked := make([]int, len(orders))
	for i := range ranked {
		ranked[i] = i
	}
	key := func(i int) int {
		if orders[i] != nil {
			return *orders[i]
		}
		return i
	}
	sort.SliceStable(ranked, func(a, b int) bool { return key(ranked[a]) < key(ranked[b]) })

	out := make([]int, len(orders))
	for position, index := range ranked {
		out[index] = position
	}
	return out
}

// listingSlug keeps a valid requested slug, else keeps current, else derives
// a unique one from name.
func listingSlug(fields apperr.FieldErrors, requested, current, name string) string {
	requested = strings.TrimSpace(requested)
	switch {
	case requested != "":
		if !utils.IsValidSlug(requested) {
			fields.Add("slug", slugMessage)
		}
		return requested
	case current != "":
		return current
	}
	return utils.UniqueSlug(name)
}

func pageOf(q dto.PageQuery) repositories.Page {
	return repositories.Page{Number: q.Page, Size: q.PageSize}.Normalize()
}
