package core

import (
	"regexp"
	"strings"
)

// categoryKeywords maps each category to substrings that mark an expense
// title as belonging to it. Categories are tested in declared order and the
// first keyword hit wins, so "gas bill" lands in travel via "gas" before
// bills is ever consulted.
var categoryKeywords = map[Category][]string{
	CategoryFood:          {"grocery", "restaurant", "cafe", "pizza", "food", "coffee", "bakery", "meal", "diner", "lunch"},
	CategoryTravel:        {"gas", "uber", "lyft", "taxi", "flight", "hotel", "motel", "airbnb", "train", "bus", "car rental"},
	CategoryBills:         {"utility", "water", "electricity", "gas bill", "phone", "internet", "insurance", "rent", "mortgage"},
	CategoryEntertainment: {"movie", "netflix", "spotify", "disney", "hbo", "cinema", "concert", "theater", "game"},
	CategoryShopping:      {"amazon", "walmart", "target", "clothing", "shoes", "electronics", "furniture", "mall"},
	CategoryOther:         nil,
}

var recurringBilling = regexp.MustCompile(`monthly|weekly|annual`)

// Categorize assigns a category to a transaction from its title and amount.
// It is deterministic and never fails; anything unrecognized is "other".
//
// Keyword matching runs first, in declared category order. If no keyword
// matches, a few amount-sensitive heuristics cover common cases: small
// coffee purchases, mid-priced store runs, and recurring subscriptions.
func Categorize(title string, amount Money) Category {
	title = strings.ToLower(title)

	for _, c := range categories {
		for _, kw := range categoryKeywords[c] {
			if strings.Contains(title, kw) {
				return c
			}
		}
	}

	if amount.Cents < 1500 && (strings.Contains(title, "coffee") || strings.Contains(title, "cafe")) {
		return CategoryFood
	}

	if amount.Cents > 10000 && amount.Cents < 30000 && strings.Contains(title, "store") {
		return CategoryShopping
	}

	if strings.Contains(title, "subscription") ||
		(amount.Cents > 500 && amount.Cents < 2000 && recurringBilling.MatchString(title)) {
		return CategoryEntertainment
	}

	return CategoryOther
}
