// Package links builds the evidence URLs attached to verification results.
package links

import (
	"net/url"
	"strconv"
)

// GoogleMapsPoint links to coordinates. It returns "" when either is unknown.
func GoogleMapsPoint(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(*lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(*lon, 'f', -1, 64)
}

// GoogleMapsSearch links to a free-text map search.
func GoogleMapsSearch(query string) string {
	return "https://www.google.com/maps/search/" + url.QueryEscape(query)
}

// GoogleMaps prefers coordinates and falls back to a search for query.
func GoogleMaps(lat, lon *float64, query string) string {
	if p := GoogleMapsPoint(lat, lon); p != "" {
		return p
	}
	return GoogleMapsSearch(query)
}

// HSLookup returns tariff lookup pages for an HS code.
func HSLookup(code string) map[string]string {
	return map[string]string{
		"us_hts":   "https://hts.usitc.gov/?query=" + code,
		"eu_taric": "https://ec.europa.eu/taxation_customs/dds2/taric/measures.jsp?Lang=en&Taric=" + code,
	}
}

// OFACSearch returns the OFAC sanctions search page for a party name.
func OFACSearch(party string) string {
	return "https://sanctionssearch.ofac.treas.gov/Details.aspx?id=" + url.QueryEscape(party)
}

// Tracking returns carrier and aggregator tracking pages for a container or B/L number.
func Tracking(number string) map[string]string {
	return map[string]string{
		"shipsgo":     "https://shipsgo.com/container-tracking/" + number,
		"track_cargo": "https://trackcargo.co/container/" + number,
		"cma_cgm":     "https://www.cma-cgm.com/ebusiness/tracking?SearchBy=Container&Reference=" + number,
		"maersk":      "https://www.maersk.com/tracking/" + number,
		"msc":         "https://www.msc.com/en/track-a-shipment?trackingNumber=" + number,
		"hapag_lloyd": "https://www.hapag-lloyd.com/en/online-business/track/track-by-container-solution.html?container=" + number,
	}
}
