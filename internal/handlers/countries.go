package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Static reference list; the submission form only needs names and codes.
var countries = []country{
	{"AR", "Argentina"}, {"AU", "Australia"}, {"AT", "Austria"},
	{"BD", "Bangladesh"}, {"BE", "Belgium"}, {"BR", "Brazil"},
	{"CA", "Canada"}, {"CL", "Chile"}, {"CN", "China"},
	{"CO", "Colombia"}, {"CZ", "Czechia"}, {"DK", "Denmark"},
	{"EG", "Egypt"}, {"ET", "Ethiopia"}, {"FI", "Finland"},
	{"FR", "France"}, {"DE", "Germany"}, {"GH", "Ghana"},
	{"GR", "Greece"}, {"IN", "India"}, {"ID", "Indonesia"},
	{"IE", "Ireland"}, {"IL", "Israel"}, {"IT", "Italy"},
	{"JP", "Japan"}, {"KE", "Kenya"}, {"MY", "Malaysia"},
	{"MX", "Mexico"}, {"NL", "Netherlands"}, {"NZ", "New Zealand"},
	{"NG", "Nigeria"}, {"NO", "Norway"}, {"PK", "Pakistan"},
	{"PE", "Peru"}, {"PH", "Philippines"}, {"PL", "Poland"},
	{"PT", "Portugal"}, {"RW", "Rwanda"}, {"SA", "Saudi Arabia"},
	{"SN", "Senegal"}, {"SG", "Singapore"}, {"ZA", "South Africa"},
	{"KR", "South Korea"}, {"ES", "Spain"}, {"LK", "Sri Lanka"},
	{"SE", "Sweden"}, {"CH", "Switzerland"}, {"TZ", "Tanzania"},
	{"TH", "Thailand"}, {"TR", "Turkey"}, {"UG", "Uganda"},
	{"UA", "Ukraine"}, {"AE", "United Arab Emirates"},
	{"GB", "United Kingdom"}, {"US", "United States"},
	{"UY", "Uruguay"}, {"VN", "Vietnam"}, {"ZM", "Zambia"},
	{"ZW", "Zimbabwe"},
}

// ListCountries serves the static country reference list.
func (h *ReferenceHandler) ListCountries(c *gin.Context) {
	respond(c, http.StatusOK, countries, "")
}
