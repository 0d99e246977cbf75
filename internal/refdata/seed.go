package refdata

// Seed creates the development reference tables. Production deployments load
// the full table set from fixtures; this subset keeps local runs and tests
// meaningful.
func Seed() *InMemory {
	regions := []Region{
		{ID: 1, Name: "Africa"},
		{ID: 2, Name: "Americas"},
		{ID: 3, Name: "Asia"},
		{ID: 4, Name: "Europe"},
		{ID: 5, Name: "Oceania"},
	}

	perils := []Peril{
		{Name: "earthquake"},
		{Name: "river_flood"},
		{Name: "coastal_flood"},
		{Name: "tsunami"},
		{Name: "cyclone"},
		{Name: "drought"},
		{Name: "volcanic_ash"},
		{Name: "landslide"},
	}

	categories := []Category{
		{ID: 1, Code: "CAT1", Name: "base", Weight: 2},
		{ID: 2, Code: "CAT2", Name: "hazard", Weight: 3},
		{ID: 3, Code: "CAT3", Name: "exposure", Weight: 3},
		{ID: 4, Code: "CAT4", Name: "vulnerability", Weight: 2},
		{ID: 5, Code: "CAT5", Name: "losses", Weight: 2},
	}

	allPerils := []string{
		"earthquake", "river_flood", "coastal_flood", "tsunami",
		"cyclone", "drought", "volcanic_ash", "landslide",
	}

	keydata := []KeyDataset{
		{Code: "CAT1-1", CategoryCode: "CAT1", Name: "Administrative boundaries",
			Description: "Administrative boundaries (level 2)", Scale: "national", Applicability: allPerils},
		{Code: "CAT1-2", CategoryCode: "CAT1", Name: "Digital elevation model",
			Description: "Digital elevation model", Scale: "national", Applicability: allPerils},
		{Code: "CAT2-1", CategoryCode: "CAT2", Name: "Hazard footprint",
			Description: "Seismic hazard map", Scale: "national", Applicability: []string{"earthquake"}},
		{Code: "CAT2-2", CategoryCode: "CAT2", Name: "Hazard footprint",
			Description: "Flood hazard map", Scale: "national", Applicability: []string{"river_flood", "coastal_flood"}},
		{Code: "CAT3-1", CategoryCode: "CAT3", Name: "Building footprints",
			Description: "Building exposure inventory", Scale: "national", Applicability: allPerils},
		{Code: "CAT4-1", CategoryCode: "CAT4", Name: "Fragility curves",
			Description: "Structural vulnerability functions", Scale: "national", Applicability: []string{"earthquake", "cyclone"}},
		{Code: "CAT5-1", CategoryCode: "CAT5", Name: "Loss database",
			Description: "Historical disaster loss database", Scale: "national", Applicability: allPerils},
	}

	countries := []Country{
		{ISO2: "CL", Name: "Chile", RegionID: 2,
			ThinkHazardAppl: []string{"earthquake", "tsunami", "volcanic_ash", "river_flood"}},
		{ISO2: "IT", Name: "Italy", RegionID: 4,
			ThinkHazardAppl: []string{"earthquake", "river_flood", "landslide", "volcanic_ash"}},
		{ISO2: "NL", Name: "Netherlands", RegionID: 4,
			ThinkHazardAppl: []string{"river_flood", "coastal_flood"}},
		{ISO2: "NP", Name: "Nepal", RegionID: 3,
			ThinkHazardAppl: []string{"earthquake", "river_flood", "landslide"}},
		{ISO2: "PH", Name: "Philippines", RegionID: 3,
			ThinkHazardAppl: []string{"earthquake", "cyclone", "tsunami", "volcanic_ash", "coastal_flood"}},
	}

	return NewInMemory(regions, countries, categories, perils, keydata)
}
