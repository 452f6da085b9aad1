package facet

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestSelectionNormalized(t *testing.T) {
	sel := Selection{
		Technologies: []int{3, 1, 3},
		Countries:    []string{" ken", "KEN", "", "abw"},
	}
	got := sel.Normalized()
	if !slices.Equal(got.Technologies, []int{1, 3}) {
		t.Fatalf("technologies: want=[1 3] got=%v", got.Technologies)
	}
	if !slices.Equal(got.Countries, []string{"ABW", "KEN"}) {
		t.Fatalf("countries: want=[ABW KEN] got=%v", got.Countries)
	}
	if got.Channels != nil {
		t.Fatalf("channels: want=nil got=%v", got.Channels)
	}
	if sel.Empty() || !(Selection{}).Empty() {
		t.Fatalf("Empty misreports")
	}
}

func TestResultNoMatchEncodesNulls(t *testing.T) {
	raw, err := json.Marshal(Result{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"countSolutionByCountry", "statistics", "solutions"} {
		if !strings.Contains(string(raw), `"`+key+`":null`) {
			t.Fatalf("%s: want null in %s", key, raw)
		}
	}
	if (Result{}).Matched() {
		t.Fatalf("empty result should not be matched")
	}
}

func TestParseFacet(t *testing.T) {
	if f, ok := ParseFacet("countryRegion"); !ok || f != FacetCountryRegion {
		t.Fatalf("ParseFacet countryRegion: got=%q ok=%v", f, ok)
	}
	if _, ok := ParseFacet("url"); ok {
		t.Fatalf("ParseFacet url: want not ok")
	}
}
