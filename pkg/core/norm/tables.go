package norm

// Curated alias table. Keys are cleaned raw spellings as they appear in
// subsidiary-list exhibits; values are canonical names. U.S. state names map
// to the country because exhibits frequently give the state of incorporation
// in the jurisdiction column.
var defaultAliases = map[string]string{
	// China / PRC
	"PRC":                            "China",
	"People's Republic of China":     "China",
	"Peoples Republic of China":      "China",
	"The People's Republic of China": "China",
	"China":                          "China",
	"Mainland China":                 "China",
	"Taiwan":                         "Taiwan",

	// Hong Kong
	"HK":            "Hong Kong",
	"Hongkong":      "Hong Kong",
	"Hong Kong":     "Hong Kong",
	"Hong Kong SAR": "Hong Kong",

	// Macau
	"Macau": "Macau",
	"Macao": "Macau",

	// Singapore
	"SGP":       "Singapore",
	"Singapore": "Singapore",

	// BVI
	"BVI":                    "British Virgin Islands",
	"British Virgin Islands": "British Virgin Islands",

	// Cayman
	"Cayman":         "Cayman Islands",
	"Cayman Islands": "Cayman Islands",

	// Bermuda
	"Bermuda": "Bermuda",

	// USA, including state-of-incorporation spellings
	"US":                "United States",
	"U.S.":              "United States",
	"USA":               "United States",
	"United States":     "United States",
	"The United States": "United States",
	"California":        "United States",
	"Delaware":          "United States",
	"Delware":           "United States", // recurring typo in filings
	"Nevada":            "United States",
	"Missouri":          "United States",
	"Kansas":            "United States",
	"New York":          "United States",
	"Texas":             "United States",

	// UK
	"UK":                "United Kingdom",
	"United Kingdom":    "United Kingdom",
	"England":           "United Kingdom",
	"England and Wales": "United Kingdom",

	"India":     "India",
	"Japan":     "Japan",
	"Malaysia":  "Malaysia",
	"Australia": "Australia",

	// Dubai / UAE
	"Dubai": "United Arab Emirates",
	"UAE":   "United Arab Emirates",
}

// Canonical name -> ISO 3166-1 alpha-3.
var defaultISO3 = map[string]string{
	"China":                  "CHN",
	"Hong Kong":              "HKG",
	"Macau":                  "MAC",
	"Singapore":              "SGP",
	"British Virgin Islands": "VGB",
	"Cayman Islands":         "CYM",
	"Bermuda":                "BMU",
	"United States":          "USA",
	"United Kingdom":         "GBR",
	"India":                  "IND",
	"Japan":                  "JPN",
	"Malaysia":               "MYS",
	"Australia":              "AUS",
	"United Arab Emirates":   "ARE",
	"Taiwan":                 "TWN",
	"Philippines":            "PHL",
	"Canada":                 "CAN",
	"Belgium":                "BEL",
}

// Country codes and long-form spellings seen in DEI incorporation tags.
var deiCountryCodes = map[string]string{
	"CN":                             "China",
	"THE PEOPLE'S REPUBLIC OF CHINA": "China",
	"PEOPLE'S REPUBLIC OF CHINA":     "China",
	"HK":                             "Hong Kong",
	"K3":                             "Hong Kong", // EDGAR state code
	"E9":                             "Cayman Islands",
	"D8":                             "British Virgin Islands",
	"D0":                             "Bermuda",
	"U0":                             "Singapore",
	"US":                             "United States",
	"USA":                            "United States",
}
