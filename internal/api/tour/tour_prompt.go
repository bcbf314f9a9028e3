package tour

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

const selectionSystemContext = `You are a local tour guide assembling a sightseeing itinerary.
You will receive a numbered catalog of places and the visitor's preferences.
Answer with ONLY a comma-separated list of place ids chosen from the catalog, nothing else.
Do not invent ids. Do not add explanations.`

// buildSelectionPrompt renders the eligible pool and the visitor's
// preferences into a single prompt. The answer contract (comma-separated
// ids only) lives in the system context; the cap is restated here so the
// model sees it next to the catalog.
func buildSelectionPrompt(pref types.Preference, pool []types.Place, placeCap int) string {
	var b strings.Builder

	b.WriteString("Available places:\n")
	for _, p := range pool {
		rating := "unknown"
		if p.AverageRating != nil {
			rating = strconv.FormatFloat(*p.AverageRating, 'f', 1, 64)
		}
		reviews := "unknown"
		if p.UserRatingsTotal != nil {
			reviews = strconv.Itoa(*p.UserRatingsTotal)
		}
		sentiment := "none"
		if p.SentimentTag != nil {
			sentiment = *p.SentimentTag
		}
		fmt.Fprintf(&b, "- id=%d name=%q category=%s rating=%s reviews=%s sentiment=%s\n",
			p.ID, p.Name, p.PlaceType, rating, reviews, sentiment)
	}

	b.WriteString("\nVisitor preferences:\n")
	fmt.Fprintf(&b, "- tour length: %s\n", pref.TourLength)
	fmt.Fprintf(&b, "- budget: %s\n", pref.BudgetLevel)
	fmt.Fprintf(&b, "- attraction interests: %s\n", joinOrNone(attractionStrings(pref.AttractionTypes)))
	fmt.Fprintf(&b, "- food interests: %s\n", joinOrNone(foodStrings(pref.FoodTypes)))
	fmt.Fprintf(&b, "- drink interests: %s\n", joinOrNone(drinkStrings(pref.DrinkTypes)))
	fmt.Fprintf(&b, "- include shopping malls: %t\n", pref.IncludeShoppingMalls)

	fmt.Fprintf(&b, "\nPick at most %d places that best match these preferences.\n", placeCap)
	b.WriteString("Answer with only the comma-separated place ids.")

	return b.String()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func attractionStrings(in []types.AttractionType) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func foodStrings(in []types.FoodType) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func drinkStrings(in []types.DrinkType) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
