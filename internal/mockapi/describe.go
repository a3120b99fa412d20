package mockapi

import "strings"

const noDescription = "No description available."

// descriptionRule matches when every needle is a substring of the lowered
// column name. Rules are tried in order.
type descriptionRule struct {
	needles     []string
	description string
}

var descriptionRules = []descriptionRule{
	{[]string{"id", "client"}, "Unique identifier for the client or requester."},
	{[]string{"id", "case"}, "Unique identifier for each case or service request."},
	{[]string{"date", "open"}, "Date when the case was opened."},
	{[]string{"date", "close"}, "Date when the case was closed."},
	{[]string{"sla"}, "Service Level Agreement (SLA) related date or days."},
	{[]string{"late"}, "Indicates if the case was resolved late."},
	{[]string{"subject"}, "Department or subject area handling the case."},
	{[]string{"source"}, "Source of the case (e.g., phone, web, app)."},
	{[]string{"desc"}, "Description or address related to the case."},
	{[]string{"district"}, "City council district where the case occurred."},
	{[]string{"coord"}, "Coordinate for the case location."},
	{[]string{"lat"}, "Latitude coordinate of the case location."},
	{[]string{"long"}, "Longitude coordinate of the case location."},
	{[]string{"duration"}, "Duration of the case."},
	{[]string{"day"}, "Day related to the case."},
	{[]string{"month"}, "Month related to the case."},
	{[]string{"year"}, "Year related to the case."},
	{[]string{"hour"}, "Hour related to the case."},
	{[]string{"fiscal"}, "Fiscal year in which the case was opened."},
	{[]string{"week"}, "Weekly weather or environmental data."},
	{[]string{"prcp"}, "Precipitation (rainfall) data."},
	{[]string{"snow"}, "Snowfall data."},
	{[]string{"tfrz"}, "Number of freezing temperature days."},
	{[]string{"tmax"}, "Maximum temperature."},
	{[]string{"tmin"}, "Minimum temperature."},
	{[]string{"tavg"}, "Average temperature."},
	{[]string{"tdif"}, "Temperature difference."},
}

// describeColumn guesses a human description from the column name.
func describeColumn(col string) string {
	lc := strings.ToLower(col)
	for _, r := range descriptionRules {
		if containsAll(lc, r.needles) {
			return r.description
		}
	}
	if lc == "cases" {
		return "Number of cases."
	}
	return noDescription
}

func containsAll(s string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(s, n) {
			return false
		}
	}
	return true
}

func describeColumns(cols []string) map[string]string {
	out := make(map[string]string, len(cols))
	for _, c := range cols {
		out[c] = describeColumn(c)
	}
	return out
}
