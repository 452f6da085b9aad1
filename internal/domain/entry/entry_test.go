package entry

import (
	"errors"
	"slices"
	"testing"
)

func TestOwnersAddIsAppendIfAbsent(t *testing.T) {
	var o Owners
	o = o.Add("12")
	o = o.Add("10001")
	o = o.Add("12")
	o = o.Add("  ")
	if want := (Owners{"12", "10001"}); !slices.Equal(o, want) {
		t.Fatalf("owners: want=%v got=%v", want, o)
	}
	if !o.Has("10001") || o.Has("1000") {
		t.Fatalf("Has: unexpected membership for %v", o)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"example.org":          "http://example.org",
		" https://example.org": "https://example.org",
		"HTTP://Example.org":   "HTTP://Example.org",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestSolutionDraftValidate(t *testing.T) {
	valid := validSolutionDraft()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid draft: %v", err)
	}

	broken := valid
	broken.Channels = nil
	broken.Launch = nil
	broken.URL = "not a url"
	err := broken.Validate()
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got=%v", err)
	}
	for _, f := range []string{"channels", "launch", "url"} {
		if !slices.Contains(fe, f) {
			t.Fatalf("expected %q in %v", f, fe)
		}
	}
}

func TestSolutionDraftOtherLanguagesSatisfyLanguages(t *testing.T) {
	d := validSolutionDraft()
	d.Languages = nil
	d.OtherLanguages = []string{"Twi"}
	if err := d.Validate(); err != nil {
		t.Fatalf("other languages only: %v", err)
	}
}

func TestOrganisationDraftValidate(t *testing.T) {
	one := 1
	d := OrganisationDraft{
		Name:                 "Acme",
		URL:                  "acme.org",
		OrganisationType:     &one,
		HQCountry:            "KEN",
		HQRegion:             &one,
		BusinessFundingStage: &one,
		BusinessGrowthStage:  &one,
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("valid draft: %v", err)
	}
	d.HQRegion = nil
	d.Translations = []Translation{{LanguageID: 1, Translation: "x"}, {LanguageID: 1, Translation: "y"}}
	var fe FieldErrors
	if !errors.As(d.Validate(), &fe) || !slices.Contains(fe, "hqRegion") || !slices.Contains(fe, "translations") {
		t.Fatalf("expected hqRegion and translations errors, got=%v", fe)
	}
}

func TestDraftApplyNormalizesURLAndDefaultsVisible(t *testing.T) {
	d := validSolutionDraft()
	var s Solution
	d.Apply(&s)
	if s.URL != "http://farmapp.example.org" {
		t.Fatalf("url: got=%q", s.URL)
	}
	if !s.Visible {
		t.Fatalf("visible: want=true when unset")
	}
}

func validSolutionDraft() SolutionDraft {
	one, launch := 1, 2019
	return SolutionDraft{
		Name:              "FarmApp",
		Description:       "Advisory over SMS",
		URL:               "farmapp.example.org",
		Organisation:      &one,
		Launch:            &launch,
		PrimarySubUseCase: &one,
		BusinessModels:    []int{1},
		Channels:          []int{1},
		Countries:         []string{"KEN"},
		Languages:         []int{1},
		Sectors:           []int{1},
		Technologies:      []int{1},
	}
}
