package entry

import (
	"net/url"
	"strings"
	"time"
)

// FieldErrors lists the offending fields of a rejected draft.
type FieldErrors []string

func (f FieldErrors) Error() string {
	return "invalid or missing fields: " + strings.Join(f, ", ")
}

// Validate checks required fields before any store access.
func (d OrganisationDraft) Validate() error {
	var bad FieldErrors
	if strings.TrimSpace(d.Name) == "" {
		bad = append(bad, "name")
	}
	if !validURL(d.URL) {
		bad = append(bad, "url")
	}
	if d.Founded != nil && !validYear(*d.Founded) {
		bad = append(bad, "founded")
	}
	if d.OrganisationType == nil {
		bad = append(bad, "organisationType")
	}
	if strings.TrimSpace(d.HQCountry) == "" {
		bad = append(bad, "hqCountry")
	}
	if d.HQRegion == nil {
		bad = append(bad, "hqRegion")
	}
	if d.BusinessFundingStage == nil {
		bad = append(bad, "businessFundingStage")
	}
	if d.BusinessGrowthStage == nil {
		bad = append(bad, "businessGrowthStage")
	}
	bad = append(bad, validateTranslations(d.Translations)...)
	if len(bad) > 0 {
		return bad
	}
	return nil
}

// Validate checks required fields and non-empty association sets.
func (d SolutionDraft) Validate() error {
	var bad FieldErrors
	if strings.TrimSpace(d.Name) == "" {
		bad = append(bad, "name")
	}
	if strings.TrimSpace(d.Description) == "" {
		bad = append(bad, "description")
	}
	if !validURL(d.URL) {
		bad = append(bad, "url")
	}
	if d.Organisation == nil {
		bad = append(bad, "organisation")
	}
	if d.Launch == nil || !validYear(*d.Launch) {
		bad = append(bad, "launch")
	}
	if d.PrimarySubUseCase == nil {
		bad = append(bad, "primarySubUseCase")
	}
	if len(d.BusinessModels) == 0 {
		bad = append(bad, "businessModels")
	}
	if len(d.Channels) == 0 {
		bad = append(bad, "channels")
	}
	if len(d.Countries) == 0 {
		bad = append(bad, "countries")
	}
	if len(d.Languages) == 0 && len(d.OtherLanguages) == 0 {
		bad = append(bad, "languages")
	}
	if len(d.Sectors) == 0 {
		bad = append(bad, "sectors")
	}
	if len(d.Technologies) == 0 {
		bad = append(bad, "technologies")
	}
	for _, l := range d.OtherLanguages {
		if strings.TrimSpace(l) == "" {
			bad = append(bad, "otherLanguages")
			break
		}
	}
	for _, r := range d.OtherRegions {
		if strings.TrimSpace(r.Country) == "" {
			bad = append(bad, "otherRegions.country")
			break
		}
	}
	bad = append(bad, validateTranslations(d.Translations)...)
	if len(bad) > 0 {
		return bad
	}
	return nil
}

func validateTranslations(ts []Translation) FieldErrors {
	seen := make(map[int]struct{}, len(ts))
	for _, t := range ts {
		if _, dup := seen[t.LanguageID]; dup || t.LanguageID == 0 || strings.TrimSpace(t.Translation) == "" {
			return FieldErrors{"translations"}
		}
		seen[t.LanguageID] = struct{}{}
	}
	return nil
}

// NormalizeURL prefixes scheme-less URLs with http://.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}

func validURL(raw string) bool {
	raw = NormalizeURL(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host != "" && strings.Contains(host, ".") && !strings.ContainsAny(host, " _")
}

func validYear(y int) bool {
	return y >= 1800 && y <= time.Now().Year()+1
}
