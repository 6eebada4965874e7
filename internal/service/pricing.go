package service

import "math"

// BasePrice is the rental price of a movie rated 10 (or unrated).
const BasePrice = 0.049

// PriceFromRating derives a rental price from a 0..10 rating.  Ratings
// above 10 are capped; a zero or negative rating uses the full base price.
// The result is rounded to three decimals.
func PriceFromRating(rating float64) float64 {
	m := 1.0
	if rating > 0 {
		m = math.Min(rating, 10) / 10
	}
	return math.Round(BasePrice*m*1000) / 1000
}
