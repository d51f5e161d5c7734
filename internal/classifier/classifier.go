// Package classifier decides whether an event is a party, which party
// subcategory it belongs to, and how provider category vocabularies map
// onto the canonical set. Keyword sets and the priority order live here and
// nowhere else.
package classifier

import (
	"strings"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// Keyword sets. Matching is case-insensitive substring over title+description.
var (
	strongPartyTerms = []string{
		"party", "nightlife", "night club", "nightclub", "rave",
		"dance night", "dj set", "dj night", "mixer", "social gathering",
		"happy hour", "cocktail", "gala",
	}
	dayPartyTerms = []string{
		"day party", "dayparty", "day-party", "pool party", "darty",
		"daytime party", "afternoon party",
	}
	brunchTerms = []string{
		"brunch", "bottomless", "mimosa", "breakfast party",
	}
	clubTerms = []string{
		"club night", "nightclub", "night club", "vip table", "bottle service",
		"after party", "afterparty", "late night", "dance floor",
	}
	networkingTerms = []string{
		"networking", "mixer", "meetup", "social hour", "industry night",
		"professionals",
	}
	celebrationTerms = []string{
		"birthday", "anniversary", "celebration", "new year", "nye",
		"graduation", "bachelorette", "bachelor party", "holiday party",
	}
	immersiveTerms = []string{
		"immersive", "interactive experience", "secret cinema", "themed experience",
	}
	popupTerms = []string{
		"popup", "pop-up", "pop up party", "secret location", "warehouse party",
	}
	silentTerms = []string{
		"silent disco", "silent party", "headphone party", "silent rave",
	}
	rooftopTerms = []string{
		"rooftop", "roof top", "skyline", "terrace party",
	}
)

// subcategoryPriority is the fixed tie-break order when several keyword
// groups match at once. Changing it changes output event tagging, so it is
// ordered here exactly once.
var subcategoryPriority = []struct {
	sub   models.PartySubcategory
	terms []string
}{
	{models.PartyImmersive, immersiveTerms},
	{models.PartySilent, silentTerms},
	{models.PartyPopup, popupTerms},
	{models.PartyRooftop, rooftopTerms},
	{models.PartyBrunch, brunchTerms},
	{models.PartyDayParty, dayPartyTerms},
	{models.PartyClub, clubTerms},
	{models.PartyNetworking, networkingTerms},
	{models.PartyCelebration, celebrationTerms},
}

// Classify inspects title and description plus the event's start hour
// (0-23, or -1 when unknown) and reports whether the event is a party and,
// if so, its subcategory.
//
// Keyword matches always beat the time-of-day heuristic; the heuristic only
// resolves events that matched a strong or day-party term without any more
// specific subcategory keyword.
func Classify(title, description string, startHour int) (bool, models.PartySubcategory) {
	text := strings.ToLower(title + " " + description)

	isParty := matchesAny(text, strongPartyTerms) || matchesAny(text, dayPartyTerms)
	if !isParty {
		return false, ""
	}

	for _, entry := range subcategoryPriority {
		if matchesAny(text, entry.terms) {
			return true, entry.sub
		}
	}

	// No subcategory keyword fired; fall back to time of day.
	switch {
	case startHour >= 21 || (startHour >= 0 && startHour < 4):
		return true, models.PartyClub
	case startHour >= 10 && startHour < 14:
		return true, models.PartyBrunch
	case startHour >= 14 && startHour < 18:
		return true, models.PartyDayParty
	}
	return true, models.PartyGeneral
}

func matchesAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// providerCategories maps lowercase provider category/segment labels to the
// canonical enumeration. Labels absent here fall through to keyword
// inspection via GuessCategory.
var providerCategories = map[string]models.Category{
	// Ticketmaster segments
	"music":            models.CategoryMusic,
	"sports":           models.CategorySports,
	"arts & theatre":   models.CategoryArts,
	"arts and theatre": models.CategoryArts,
	"film":             models.CategoryArts,
	"family":           models.CategoryFamily,
	"miscellaneous":    models.CategoryOther,

	// PredictHQ categories
	"concerts":        models.CategoryMusic,
	"festivals":       models.CategoryMusic,
	"performing-arts": models.CategoryArts,
	"community":       models.CategoryFamily,
	"expos":           models.CategoryOther,
	"conferences":     models.CategoryOther,
	"food-drink":      models.CategoryFood,

	// RapidAPI / generic labels
	"concert":      models.CategoryMusic,
	"live music":   models.CategoryMusic,
	"theater":      models.CategoryArts,
	"theatre":      models.CategoryArts,
	"art":          models.CategoryArts,
	"exhibition":   models.CategoryArts,
	"comedy":       models.CategoryArts,
	"food":         models.CategoryFood,
	"food & drink": models.CategoryFood,
	"festival":     models.CategoryMusic,
	"kids":         models.CategoryFamily,
	"family event": models.CategoryFamily,
	"game":         models.CategorySports,
	"sport":        models.CategorySports,
	"nightlife":    models.CategoryParty,
	"party":        models.CategoryParty,
}

// categoryKeywords backs GuessCategory when no direct label mapping exists.
// Checked in order; first hit wins.
var categoryKeywords = []struct {
	cat   models.Category
	terms []string
}{
	{models.CategoryMusic, []string{"concert", "live music", "band", "tour", "festival", "dj", "orchestra", "symphony"}},
	{models.CategorySports, []string{"game", "match", "tournament", "race", "marathon", "vs.", "championship"}},
	{models.CategoryArts, []string{"theater", "theatre", "gallery", "exhibit", "museum", "ballet", "opera", "comedy", "film"}},
	{models.CategoryFood, []string{"food", "tasting", "wine", "beer", "dinner", "culinary", "restaurant week"}},
	{models.CategoryFamily, []string{"family", "kids", "children", "all ages"}},
}

// MapCategory resolves a provider label to the canonical category,
// consulting title+description keywords when the label is unknown.
func MapCategory(providerLabel, title, description string) models.Category {
	if cat, ok := providerCategories[strings.ToLower(strings.TrimSpace(providerLabel))]; ok {
		return cat
	}
	return GuessCategory(title, description)
}

// GuessCategory inspects free text for a canonical category. Party terms
// are checked first so "warehouse party" never lands in music via "dj".
func GuessCategory(title, description string) models.Category {
	text := strings.ToLower(title + " " + description)
	if matchesAny(text, strongPartyTerms) || matchesAny(text, dayPartyTerms) {
		return models.CategoryParty
	}
	for _, entry := range categoryKeywords {
		if matchesAny(text, entry.terms) {
			return entry.cat
		}
	}
	return models.CategoryOther
}
