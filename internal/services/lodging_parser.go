package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fedeciancaglini/trip-ai/internal/models/plan_models"
)

// Label grammar used by the Airbnb search payload:
//
//	price:  "$1,234 for 5 nights", "$120 per night", "$98.50 night"
//	rating: "4.85 out of 5 average rating, 1,204 reviews"
var (
	priceAmountRe = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)`)
	priceNightsRe = regexp.MustCompile(`for (\d+) nights?`)
	ratingRe      = regexp.MustCompile(`([\d.]+) out of 5`)
	reviewsRe     = regexp.MustCompile(`([\d,]+) reviews?`)
)

var ErrLodgingPayload = errors.New("unexpected lodging payload")

const airbnbRoomURL = "https://www.airbnb.com/rooms/"

// rawListing is one search result as the provider sends it, before any
// label parsing.
type rawListing struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	DemandStayListing struct {
		Description struct {
			Name struct {
				LocalizedStringWithTranslationPreference string `json:"localizedStringWithTranslationPreference"`
			} `json:"name"`
		} `json:"description"`
		Location struct {
			Coordinate struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinate"`
		} `json:"location"`
	} `json:"demandStayListing"`
	StructuredDisplayPrice struct {
		PrimaryLine struct {
			AccessibilityLabel string `json:"accessibilityLabel"`
		} `json:"primaryLine"`
	} `json:"structuredDisplayPrice"`
	AvgRatingA11yLabel string   `json:"avgRatingA11yLabel"`
	Images             []string `json:"images"`
}

type searchPayload struct {
	SearchURL     string          `json:"searchUrl"`
	SearchResults json.RawMessage `json:"searchResults"`
}

// ParsePriceLabel returns the nightly and total price encoded in label. When
// the label does not state a night count the amount is per night and the
// total is derived from nights.
func ParsePriceLabel(label string, nights int) (perNight, total float64, ok bool) {
	m := priceAmountRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, 0, false
	}
	if nights < 1 {
		nights = 1
	}

	if n := priceNightsRe.FindStringSubmatch(label); n != nil {
		count, err := strconv.Atoi(n[1])
		if err == nil && count > 0 {
			return round2(amount / float64(count)), amount, true
		}
	}
	return amount, round2(amount * float64(nights)), true
}

// ParseRatingLabel extracts the average rating and review count, either of
// which may be absent.
func ParseRatingLabel(label string) (rating *float64, reviews *int) {
	if m := ratingRe.FindStringSubmatch(label); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rating = &v
		}
	}
	if m := reviewsRe.FindStringSubmatch(label); m != nil {
		if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			reviews = &v
		}
	}
	return rating, reviews
}

// parseSearchPayload turns the tool's text output into listings. A payload
// whose searchResults is missing or not an array is an error.
func parseSearchPayload(text string, nights int) ([]plan_models.Listing, error) {
	var payload searchPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLodgingPayload, err)
	}
	raw := strings.TrimSpace(string(payload.SearchResults))
	if !strings.HasPrefix(raw, "[") {
		return nil, fmt.Errorf("%w: searchResults is not a list", ErrLodgingPayload)
	}

	var results []rawListing
	if err := json.Unmarshal(payload.SearchResults, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLodgingPayload, err)
	}

	listings := make([]plan_models.Listing, 0, len(results))
	for _, r := range results {
		listings = append(listings, r.toListing(nights))
	}
	return listings, nil
}

func (r rawListing) toListing(nights int) plan_models.Listing {
	l := plan_models.Listing{
		ID:   r.ID,
		Name: strings.TrimSpace(r.DemandStayListing.Description.Name.LocalizedStringWithTranslationPreference),
		Link: r.URL,
		Coordinates: plan_models.Coordinates{
			Lat: r.DemandStayListing.Location.Coordinate.Latitude,
			Lng: r.DemandStayListing.Location.Coordinate.Longitude,
		},
	}
	if l.Link == "" && r.ID != "" {
		l.Link = airbnbRoomURL + r.ID
	}
	if l.Name == "" {
		l.Name = "Airbnb listing " + r.ID
	}
	if perNight, total, ok := ParsePriceLabel(r.StructuredDisplayPrice.PrimaryLine.AccessibilityLabel, nights); ok {
		l.PricePerNight = perNight
		l.TotalPrice = total
	}
	l.Rating, l.ReviewCount = ParseRatingLabel(r.AvgRatingA11yLabel)
	if len(r.Images) > 0 {
		l.Image = r.Images[0]
	}
	return l
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
