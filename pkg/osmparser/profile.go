package osmparser

var (
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"cycleway":               {},
		"path":                   {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"cyclist_waiting_aid":    {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"phone":                  {},
		"ladder":                 {},
		"milestone":              {},
		"passing_place":          {},
		"platform":               {},
		"speed_camera":           {},
		"bus_guideway":           {},
		"speed_display":          {},
		"stop":                   {},
		"toll_gantry":            {},
		"traffic_mirror":         {},
		"traffic_signals":        {},
		"trailhead":              {},
	}

	// DefaultCarSpeeds. km/h per highway class, dipakai kalau config tidak punya speeds.
	DefaultCarSpeeds = map[string]float64{
		"motorway":       100,
		"trunk":          70,
		"primary":        65,
		"secondary":      60,
		"tertiary":       50,
		"unclassified":   30,
		"residential":    30,
		"service":        20,
		"motorway_link":  70,
		"trunk_link":     65,
		"primary_link":   60,
		"secondary_link": 50,
		"tertiary_link":  40,
		"living_street":  10,
		"road":           20,
		"track":          15,
	}
)
