// Package gazetteer loads the UN/LOCODE code list and answers name and code
// lookups against it. The index is built once and is read-only afterwards.
package gazetteer

// Function labels by position in the UN/LOCODE 8-character function field.
var functionLabels = [8]string{
	"Port",
	"Rail Terminal",
	"Road Terminal",
	"Airport",
	"Postal Exchange",
	"Multimodal (ICD/CFS)",
	"Fixed Transport",
	"Border Crossing",
}

const (
	FunctionPort    = "Port"
	FunctionAirport = "Airport"
)

// PortRecord is one UN/LOCODE location.
type PortRecord struct {
	Locode       string   `json:"locode"`
	CountryCode  string   `json:"country_code"`
	LocationCode string   `json:"location_code"`
	Name         string   `json:"name"`
	NameASCII    string   `json:"name_ascii"`
	Subdivision  string   `json:"subdivision,omitempty"`
	Functions    []string `json:"functions"`
	IsPort       bool     `json:"is_port"`
	IsAirport    bool     `json:"is_airport"`
	Status       string   `json:"status,omitempty"`
	IATA         string   `json:"iata,omitempty"`
	Coordinates  string   `json:"coordinates,omitempty"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
}

// parseFunctions maps each non-"-" position of the function field to its label.
func parseFunctions(field string) []string {
	out := []string{}
	for i, label := range functionLabels {
		if i < len(field) && field[i] != '-' {
			out = append(out, label)
		}
	}
	return out
}
