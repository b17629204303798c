// Package domain models the smart-city indicators and the rules that derive
// them.
//
// # Location resolution
//
// Cities resolve against a static table of twelve entries (see [Resolver]).
// Forward lookups try an exact, case-insensitive match, then a partial match
// in either direction ("delhi" matches "new delhi", "greater mumbai" matches
// "mumbai"). Partial matches are taken in table declaration order. Reverse
// lookups snap to the nearest entry within 0.5 degrees of Euclidean distance
// in degree space; this is only a small-scale approximation and ignores
// longitude convergence. Points further away get a synthetic
// "Location (lat, lon)" name.
//
// # Scoring formulas
//
// All formulas are linear, hand-tuned and unvalidated:
//
//	accident  = 0.4·density/500 + 0.3·(1 − speed/100) + 0.1·(2 − road)
//	            + 0.1·weather + 0.1·(1 − visibility/1000)
//	            <0.4 Low | <0.7 Medium | else High
//	aqi       = 0.4·pm25 + 0.3·pm10 + 0.1·no2 + 15·co + 0.05·so2
//	            − 0.2·wind − 0.1·humidity, clamped to [0, 500]
//	activity  = 0.4·density/15000 + 0.3·workplaces/50 + 0.2·events/5 + 0.1·temp/40
//	            <0.4 Low | <0.7 Moderate | else High
//	parking   = occupied/capacity + (entry − exit)/50 + 0.5·events
//	            >1.2 Full | else Available
//
// Inputs are never clamped. Some formula parameters (average age, day of
// week, time of day, weekday) are accepted but unused.
//
// A zero parking capacity is rejected with [ErrZeroCapacity] instead of
// dividing by zero.
//
// # Composite score
//
// The smart city score weights air quality 40%, accident risk 30%, parking
// 20% and activity 10%. Air quality maps to 100 − min(100, aqi·0.2); the
// categories map through fixed tables, with 50 for unknown values:
//
//	risk:     Low 90 | Medium 60 | High 30
//	parking:  Available 90 | Full 30
//	activity: Low 70 | Moderate 50 | High 30
//
// [CityStatus] buckets the result: ≥80 Excellent, ≥60 Good, ≥40 Moderate,
// otherwise Critical.
//
// # Alerts
//
//	air quality  >150 error | >100 warning
//	accident     High error | Medium warning
//	parking      Full warning
//	activity     High info
package domain
