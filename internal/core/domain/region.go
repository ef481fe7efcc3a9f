package domain

import "strings"

// Region is a shipping pricing zone. It does not map one-to-one onto
// political boundaries: every Brunei district prices as RegionBrunei.
type Region string

const (
	RegionSemenanjung Region = "semenanjung"
	RegionSabah       Region = "sabah"
	RegionSarawak     Region = "sarawak"
	RegionSingapore   Region = "singapore"
	RegionBrunei      Region = "brunei"
	RegionUnknown     Region = "unknown"
)

// knownRegions lists every priced region in display order.
var knownRegions = []Region{
	RegionSemenanjung,
	RegionSabah,
	RegionSarawak,
	RegionSingapore,
	RegionBrunei,
}

// StateMapping ties a state/district code to its pricing region.
type StateMapping struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region Region `json:"region"`
}

// RegionInfo is display metadata for a region.
type RegionInfo struct {
	Code        Region `json:"code"`
	Name        string `json:"name"`
	NameMalay   string `json:"name_malay"`
	CountryCode string `json:"country_code"`
}

var stateMappings = []StateMapping{
	// Peninsular Malaysia
	{Code: "JHR", Name: "Johor", Region: RegionSemenanjung},
	{Code: "KDH", Name: "Kedah", Region: RegionSemenanjung},
	{Code: "KTN", Name: "Kelantan", Region: RegionSemenanjung},
	{Code: "MLK", Name: "Melaka", Region: RegionSemenanjung},
	{Code: "NSN", Name: "Negeri Sembilan", Region: RegionSemenanjung},
	{Code: "PHG", Name: "Pahang", Region: RegionSemenanjung},
	{Code: "PRK", Name: "Perak", Region: RegionSemenanjung},
	{Code: "PLS", Name: "Perlis", Region: RegionSemenanjung},
	{Code: "PNG", Name: "Pulau Pinang", Region: RegionSemenanjung},
	{Code: "SGR", Name: "Selangor", Region: RegionSemenanjung},
	{Code: "TRG", Name: "Terengganu", Region: RegionSemenanjung},
	{Code: "KUL", Name: "Kuala Lumpur", Region: RegionSemenanjung},
	{Code: "PJY", Name: "Putrajaya", Region: RegionSemenanjung},

	// East Malaysia
	{Code: "SBH", Name: "Sabah", Region: RegionSabah},
	{Code: "LBN", Name: "Labuan", Region: RegionSabah},
	{Code: "SWK", Name: "Sarawak", Region: RegionSarawak},

	{Code: "SG", Name: "Singapore", Region: RegionSingapore},

	// Brunei districts
	{Code: "BM", Name: "Brunei-Muara", Region: RegionBrunei},
	{Code: "BE", Name: "Belait", Region: RegionBrunei},
	{Code: "TU", Name: "Tutong", Region: RegionBrunei},
	{Code: "TE", Name: "Temburong", Region: RegionBrunei},
}

// stateAliases are alternative spellings seen on checkout forms, keyed by
// uppercased alias and pointing at a state code.
var stateAliases = map[string]string{
	"PENANG":                     "PNG",
	"MALACCA":                    "MLK",
	"WILAYAH PERSEKUTUAN":        "KUL",
	"WP KUALA LUMPUR":            "KUL",
	"WILAYAH PERSEKUTUAN LABUAN": "LBN",
	"WP LABUAN":                  "LBN",
	"WP PUTRAJAYA":               "PJY",
	"SINGAPURA":                  "SG",
	"BRUNEI MUARA":               "BM",
	"BANDAR SERI BEGAWAN":        "BM",
}

var regionInfos = map[Region]RegionInfo{
	RegionSemenanjung: {Code: RegionSemenanjung, Name: "Peninsular Malaysia", NameMalay: "Semenanjung Malaysia", CountryCode: "MY"},
	RegionSabah:       {Code: RegionSabah, Name: "Sabah", NameMalay: "Sabah", CountryCode: "MY"},
	RegionSarawak:     {Code: RegionSarawak, Name: "Sarawak", NameMalay: "Sarawak", CountryCode: "MY"},
	RegionSingapore:   {Code: RegionSingapore, Name: "Singapore", NameMalay: "Singapura", CountryCode: "SG"},
	RegionBrunei:      {Code: RegionBrunei, Name: "Brunei Darussalam", NameMalay: "Brunei Darussalam", CountryCode: "BN"},
	RegionUnknown:     {Code: RegionUnknown, Name: "Unknown Region", NameMalay: "Kawasan Tidak Diketahui"},
}

var countryRegions = map[string]Region{
	"MY": RegionSemenanjung,
	"SG": RegionSingapore,
	"BN": RegionBrunei,
}

// Lookup indexes built once from the tables above.
var (
	stateByCode = make(map[string]StateMapping, len(stateMappings))
	stateByName = make(map[string]StateMapping, len(stateMappings)+len(stateAliases))
)

func init() {
	for _, m := range stateMappings {
		stateByCode[m.Code] = m
		stateByName[strings.ToUpper(m.Name)] = m
	}
	for alias, code := range stateAliases {
		if m, ok := stateByCode[code]; ok {
			stateByName[alias] = m
		}
	}
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func lookupState(s string) (StateMapping, bool) {
	key := normalize(s)
	if key == "" {
		return StateMapping{}, false
	}
	if m, ok := stateByCode[key]; ok {
		return m, true
	}
	m, ok := stateByName[key]
	return m, ok
}

// StateToRegion resolves a state code or state name to its region.
// Matching is case-insensitive; unmatched input yields RegionUnknown.
func StateToRegion(state string) Region {
	if m, ok := lookupState(state); ok {
		return m.Region
	}
	return RegionUnknown
}

// CountryToRegion maps an ISO country code to its default region. A Malaysian
// address always maps to the peninsula since the country alone cannot tell
// Sabah or Sarawak apart.
func CountryToRegion(country string) Region {
	if r, ok := countryRegions[normalize(country)]; ok {
		return r
	}
	return RegionUnknown
}

// RegionName returns the display name of r, in Malay when malay is set.
func RegionName(r Region, malay bool) string {
	info, ok := regionInfos[r]
	if !ok {
		info = regionInfos[RegionUnknown]
	}
	if malay {
		return info.NameMalay
	}
	return info.Name
}

// RegionInfoFor returns the metadata entry for r.
func RegionInfoFor(r Region) (RegionInfo, bool) {
	info, ok := regionInfos[r]
	return info, ok
}

// AllRegions returns metadata for every priced region.
func AllRegions() []RegionInfo {
	out := make([]RegionInfo, 0, len(knownRegions))
	for _, r := range knownRegions {
		out = append(out, regionInfos[r])
	}
	return out
}

// KnownRegions returns every region except RegionUnknown.
func KnownRegions() []Region {
	out := make([]Region, len(knownRegions))
	copy(out, knownRegions)
	return out
}

// StatesInRegion returns the state mappings priced under r.
func StatesInRegion(r Region) []StateMapping {
	var out []StateMapping
	for _, m := range stateMappings {
		if m.Region == r {
			out = append(out, m)
		}
	}
	return out
}

// IsValidStateCode reports whether code is a known state code. Names and
// aliases do not count.
func IsValidStateCode(code string) bool {
	_, ok := stateByCode[normalize(code)]
	return ok
}

// StateCode returns the canonical code for a state code, name or alias, or
// "" when nothing matches.
func StateCode(nameOrCode string) string {
	if m, ok := lookupState(nameOrCode); ok {
		return m.Code
	}
	return ""
}

// IsKnown reports whether r is one of the priced regions.
func (r Region) IsKnown() bool {
	for _, k := range knownRegions {
		if r == k {
			return true
		}
	}
	return false
}

func (r Region) String() string {
	return string(r)
}
