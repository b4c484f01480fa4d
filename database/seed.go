package database

import (
	"context"
	"fmt"

	"github.com/emlak-portal/models"
	"gorm.io/gorm"
)

type seedCategory struct {
	value, slug string
	descriptors [][2]string
}

type seedType struct {
	value, slug string
	subTypes    [][2]string
	categories  []seedCategory
}

var seedTypes = []seedType{
	{
		value: "Konut", slug: "konut",
		subTypes: [][2]string{
			{"Daire", "daire"},
			{"Müstakil Ev", models.SubTypeSlugDetachedHouse},
			{"Villa", "villa"},
		},
		categories: []seedCategory{
			{value: "İç Özellikler", slug: "ic-ozellikler", descriptors: [][2]string{
				{"Ankastre Mutfak", "ankastre-mutfak"},
				{"Parke Zemin", "parke-zemin"},
				{"Klima", "klima"},
			}},
			{value: "Dış Özellikler", slug: "dis-ozellikler", descriptors: [][2]string{
				{"Otopark", "otopark"},
				{"Güvenlik", "guvenlik"},
			}},
		},
	},
	{
		value: "Arsa", slug: models.TypeSlugLand,
		subTypes: [][2]string{
			{"İmarlı Arsa", "imarli-arsa"},
			{"Tarla", "tarla"},
		},
		categories: []seedCategory{
			{value: "Altyapı", slug: "altyapi", descriptors: [][2]string{
				{"Elektrik", "elektrik"},
				{"Su", "su"},
			}},
		},
	},
}

var seedDistricts = []struct {
	name, slug    string
	neighborhoods [][2]string
}{
	{"Kadıköy", "kadikoy", [][2]string{{"Moda", "moda"}, {"Fenerbahçe", "fenerbahce"}}},
	{"Beşiktaş", "besiktas", [][2]string{{"Levent", "levent"}}},
}

// Seed inserts the reference rows the application expects. Rows are matched
// by slug so running it again changes nothing.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedRoles(tx); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		if err := seedLocations(tx); err != nil {
			return fmt.Errorf("seed locations: %w", err)
		}
		if err := seedTaxonomy(tx); err != nil {
			return fmt.Errorf("seed taxonomy: %w", err)
		}
		if err := seedLookups(tx); err != nil {
			return fmt.Errorf("seed lookups: %w", err)
		}
		return nil
	})
}

func seedRoles(tx *gorm.DB) error {
	roles := []models.Role{
		{Name: "Site Admin", Slug: models.RoleSiteAdmin},
		{Name: "Office Admin", Slug: models.RoleOfficeAdmin},
		{Name: "Agent", Slug: models.RoleAgent},
	}
	for _, role := range roles {
		row := models.Role{}
		if err := tx.Where(models.Role{Slug: role.Slug}).Attrs(role).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedLocations(tx *gorm.DB) error {
	country := models.Country{}
	if err := tx.Where(models.Country{Slug: "turkiye"}).
		Attrs(models.Country{Name: "Türkiye"}).FirstOrCreate(&country).Error; err != nil {
		return err
	}
	city := models.City{}
	if err := tx.Where(models.City{Slug: "istanbul", CountryID: country.ID}).
		Attrs(models.City{Name: "İstanbul", CountryName: country.Name}).FirstOrCreate(&city).Error; err != nil {
		return err
	}

	for _, sd := range seedDistricts {
		district := models.District{}
		if err := tx.Where(models.District{Slug: sd.slug, CityID: city.ID}).
			Attrs(models.District{
				Name:        sd.name,
				CityName:    city.Name,
				CountryID:   country.ID,
				CountryName: country.Name,
			}).FirstOrCreate(&district).Error; err != nil {
			return err
		}
		for _, n := range sd.neighborhoods {
			neighborhood := models.Neighborhood{}
			if err := tx.Where(models.Neighborhood{Slug: n[1], DistrictID: district.ID}).
				Attrs(models.Neighborhood{
					Name:         n[0],
					DistrictName: district.Name,
					CityID:       city.ID,
					CityName:     city.Name,
					CountryID:    country.ID,
					CountryName:  country.Name,
				}).FirstOrCreate(&neighborhood).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedTaxonomy(tx *gorm.DB) error {
	for _, st := range seedTypes {
		typ := models.PropertyType{}
		if err := tx.Where(models.PropertyType{Slug: st.slug}).
			Attrs(models.PropertyType{Value: st.value}).FirstOrCreate(&typ).Error; err != nil {
			return err
		}
		for _, sub := range st.subTypes {
			row := models.PropertySubType{}
			if err := tx.Where(models.PropertySubType{Slug: sub[1], TypeID: typ.ID}).
				Attrs(models.PropertySubType{Value: sub[0]}).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		for _, sc := range st.categories {
			category := models.PropertyDescriptorCategory{}
			if err := tx.Where(models.PropertyDescriptorCategory{Slug: sc.slug}).
				Attrs(models.PropertyDescriptorCategory{Value: sc.value, TypeID: typ.ID}).FirstOrCreate(&category).Error; err != nil {
				return err
			}
			for _, d := range sc.descriptors {
				row := models.PropertyDescriptor{}
				if err := tx.Where(models.PropertyDescriptor{Slug: d[1], CategoryID: category.ID}).
					Attrs(models.PropertyDescriptor{Value: d[0]}).FirstOrCreate(&row).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedLookups(tx *gorm.DB) error {
	contracts := [][2]string{{"Satılık", models.ContractSlugForSale}, {"Kiralık", "for-rent"}}
	for _, c := range contracts {
		row := models.PropertyContract{}
		if err := tx.Where(models.PropertyContract{Slug: c[1]}).
			Attrs(models.PropertyContract{Value: c[0]}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	statuses := [][2]string{{"Boş", "empty"}, {"Kiracılı", "tenanted"}, {"Mülk Sahibi", "owner-occupied"}}
	for _, s := range statuses {
		row := models.PropertyStatus{}
		if err := tx.Where(models.PropertyStatus{Slug: s[1]}).
			Attrs(models.PropertyStatus{Value: s[0]}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}

	deeds := [][2]string{
		{"Kat Mülkiyeti", "condominium"},
		{"Kat İrtifakı", "construction-servitude"},
		{"Hisseli Tapu", "shared-title"},
		{"Uygulanamaz", models.DeedStatusSlugNotApplicable},
	}
	for _, d := range deeds {
		row := models.PropertyDeedStatus{}
		if err := tx.Where(models.PropertyDeedStatus{Slug: d[1]}).
			Attrs(models.PropertyDeedStatus{Value: d[0]}).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
