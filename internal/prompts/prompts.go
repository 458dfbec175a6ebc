// Package prompts holds the prompt text sent to the language model. The
// prompts contractually request pure JSON output; the pipeline still decodes
// tolerantly because not every provider honors that.
package prompts

import (
	"fmt"
	"strings"

	"github.com/voiceplan/gateway/internal/models"
)

// PreferenceTags are the preset trip-preference options the extractor is
// allowed to choose from.
var PreferenceTags = []string{
	"nature", "history-culture", "food", "shopping-leisure",
	"adventure", "family", "photography", "relaxation",
}

const ExtractSystem = "You are a professional travel assistant who extracts structured travel plan information from natural language."

const ItinerarySystem = `You are a professional travel planner who creates detailed, practical and personalized trip plans.

Important rules:
1. Return valid JSON only, with no extra text or explanation
2. The JSON must contain these top-level fields: title, destination, totalDays, totalBudget, itineraries, tips
3. itineraries must be an array whose length equals the number of trip days
4. Every itinerary entry must contain: day, date, title, activities, estimatedCost
5. activities must be an array; every activity contains: time, name, description, location, duration, cost, type
6. Coordinates use the format {"lat": <number>, "lng": <number>}
7. All numeric fields must be numbers, never strings
8. Return a complete JSON object, never truncated

Generate a full plan with daily activities, attractions, transportation, accommodation and restaurant suggestions based on the user's needs.`

const BudgetSystem = `You are a professional travel budget advisor who gives travelers accurate, practical cost estimates.

Important rules:
1. Return valid JSON only
2. The JSON must contain: totalEstimate, perPersonEstimate, breakdown, tips, savingTips
3. breakdown must be an array; every entry contains: category, estimatedAmount, percentage, description
4. The breakdown percentages must sum to 100
5. All amounts must be numbers
6. Include practical money-saving advice`

// styleDescriptions expands a travel style into prompt wording.
var styleDescriptions = map[models.TravelStyle]string{
	models.StyleBudget:   "economical, best value for money",
	models.StyleModerate: "mid-range, balancing comfort and cost",
	models.StyleLuxury:   "high-end, seeking the best experience",
}

// ForExtraction builds the user prompt that asks the model to pull a partial
// travel plan out of a transcript. Unknown fields must be omitted, not nulled.
func ForExtraction(transcript, today string) string {
	return fmt.Sprintf(`Extract detailed travel plan information from the user description below and return it strictly as JSON.

JSON structure and field meanings:
- destination (string): where the user wants to go, e.g. "Kyoto", "the Scottish Highlands".
- startDate (string): departure date formatted "YYYY-MM-DD". Resolve relative dates (like "next Wednesday") against today's date (%s).
- days (number): trip length, an integer between 1 and 30.
- budget (number): total budget amount.
- peopleCount (number): party size, an integer >= 1.
- preferences (string[]): trip preferences chosen from these preset options: [%s].
- otherRequirements (string): any request not covered by the fields above.

Output requirements:
1. Return the JSON object only, with no explanation, comments or extra text.
2. If a field is not mentioned in the description, omit it entirely. Never use null or an empty string.
3. Follow the field names and types exactly.

User description:
%s`, today, quoteList(PreferenceTags), transcript)
}

// ForItinerary builds the user prompt for a full day-by-day itinerary.
func ForItinerary(input models.TravelInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Create a detailed travel plan for the following trip.

Destination: %s
Departure date: %s
Trip length: %d days
Total budget: %.0f
Party size: %d people
`, input.Destination, input.StartDate, input.Days, input.Budget, input.PeopleCount)

	if len(input.Preferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s\n", strings.Join(input.Preferences, ", "))
	}
	if input.OtherRequirements != "" {
		fmt.Fprintf(&b, "Other requirements: %s\n", input.OtherRequirements)
	}

	fmt.Fprintf(&b, `
Return the travel plan as JSON only, with no explanatory text. Use this structure:

{
  "title": "%s %d-day trip",
  "destination": "%s",
  "totalDays": %d,
  "totalBudget": %.0f,
  "itineraries": [
    {
      "day": 1,
      "date": "%s",
      "title": "Day 1",
      "activities": [
        {
          "time": "09:00",
          "name": "attraction name",
          "description": "what it is",
          "location": "street address",
          "coordinates": {"lat": 35.0, "lng": 135.7},
          "duration": "2 hours",
          "cost": 100,
          "type": "attraction"
        }
      ],
      "transportation": "how to get around",
      "accommodation": {
        "name": "hotel name",
        "type": "hotel type",
        "location": "address",
        "coordinates": {"lat": 35.0, "lng": 135.7},
        "estimatedCost": 300
      },
      "restaurants": [
        {
          "name": "restaurant name",
          "cuisine": "cuisine",
          "location": "address",
          "coordinates": {"lat": 35.0, "lng": 135.7},
          "estimatedCost": 100,
          "recommendedDishes": ["dish 1", "dish 2"]
        }
      ],
      "estimatedCost": 500,
      "notes": "notes"
    }
  ],
  "tips": ["tip 1", "tip 2"],
  "warnings": ["warning 1"]
}

Notes:
1. Generate the complete %d-day itinerary
2. Include at least 2-3 attractions or activities per day
3. Use real coordinates for %s
4. type is one of: attraction, restaurant, transportation, accommodation, other
5. All numeric fields must be numbers
6. Keep the total cost within the budget of %.0f
`, input.Destination, input.Days, input.Destination, input.Days, input.Budget,
		input.StartDate, input.Days, input.Destination, input.Budget)

	return b.String()
}

// ForBudget builds the user prompt for a trip budget estimate.
func ForBudget(input models.BudgetEstimateInput) string {
	style := input.TravelStyle
	if style == "" {
		style = models.StyleModerate
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Estimate the budget for the following trip.

Destination: %s
Trip length: %d days
Party size: %d people
Travel style: %s
`, input.Destination, input.Days, input.PeopleCount, styleDescriptions[style])

	if len(input.Preferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s\n", strings.Join(input.Preferences, ", "))
	}

	fmt.Fprintf(&b, `
Return the budget estimate as JSON only, with no explanatory text. Use this structure:

{
  "totalEstimate": 5000,
  "perPersonEstimate": 2500,
  "breakdown": [
    {
      "category": "transportation",
      "estimatedAmount": 1250,
      "percentage": 25,
      "description": "round-trip tickets and local transport"
    },
    {
      "category": "accommodation",
      "estimatedAmount": 1500,
      "percentage": 30,
      "description": "hotel or guesthouse"
    },
    {
      "category": "food",
      "estimatedAmount": 1000,
      "percentage": 20,
      "description": "meals and snacks"
    },
    {
      "category": "attractions",
      "estimatedAmount": 750,
      "percentage": 15,
      "description": "entrance fees and tours"
    },
    {
      "category": "shopping",
      "estimatedAmount": 500,
      "percentage": 10,
      "description": "shopping, entertainment and other expenses"
    }
  ],
  "tips": ["budget tip 1", "budget tip 2"],
  "savingTips": ["saving tip 1", "saving tip 2"]
}

Notes:
1. The estimate must reflect real price levels in %s
2. Account for the %s travel style
3. The breakdown percentages must sum to 100
4. All amounts must be numbers
`, input.Destination, style)

	return b.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}
