package models

// Coordinates is a WGS84 point attached to activities and venues.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ActivityType classifies a single itinerary activity.
type ActivityType string

const (
	ActivityAttraction     ActivityType = "attraction"
	ActivityRestaurant     ActivityType = "restaurant"
	ActivityTransportation ActivityType = "transportation"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivityOther          ActivityType = "other"
)

// TravelInput is a fully specified itinerary request.
type TravelInput struct {
	Destination       string   `json:"destination"`
	Days              int      `json:"days"`
	Budget            float64  `json:"budget"`
	PeopleCount       int      `json:"peopleCount"`
	StartDate         string   `json:"startDate"`
	Preferences       []string `json:"preferences,omitempty"`
	OtherRequirements string   `json:"otherRequirements,omitempty"`
}

// TravelDraft is the partial travel request extracted from free text.
// Every field is optional; nil means the speaker never stated it, which is
// distinct from an explicitly empty value. Callers ask the user for whatever
// is missing.
type TravelDraft struct {
	Destination       *string  `json:"destination,omitempty"`
	Days              *int     `json:"days,omitempty"`
	Budget            *float64 `json:"budget,omitempty"`
	PeopleCount       *int     `json:"peopleCount,omitempty"`
	StartDate         *string  `json:"startDate,omitempty"`
	Preferences       []string `json:"preferences,omitempty"`
	OtherRequirements *string  `json:"otherRequirements,omitempty"`
}

// Activity is one entry in a day plan.
type Activity struct {
	Time        string       `json:"time"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Duration    string       `json:"duration"`
	Cost        float64      `json:"cost"`
	Type        ActivityType `json:"type"`
}

// AccommodationInfo describes the suggested stay for a day.
type AccommodationInfo struct {
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Location      string       `json:"location"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	EstimatedCost float64      `json:"estimatedCost"`
}

// RestaurantInfo describes a suggested restaurant for a day.
type RestaurantInfo struct {
	Name              string       `json:"name"`
	Cuisine           string       `json:"cuisine"`
	Location          string       `json:"location"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`
	EstimatedCost     float64      `json:"estimatedCost"`
	RecommendedDishes []string     `json:"recommendedDishes,omitempty"`
}

// DayPlan is one day of a generated itinerary.
type DayPlan struct {
	Day            int                `json:"day"`
	Date           string             `json:"date"`
	Title          string             `json:"title"`
	Activities     []Activity         `json:"activities"`
	Transportation string             `json:"transportation,omitempty"`
	Accommodation  *AccommodationInfo `json:"accommodation,omitempty"`
	Restaurants    []RestaurantInfo   `json:"restaurants,omitempty"`
	EstimatedCost  float64            `json:"estimatedCost"`
	Notes          string             `json:"notes,omitempty"`
}

// GeneratedPlan is the complete multi-day itinerary produced by the generator.
type GeneratedPlan struct {
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	TotalDays   int       `json:"totalDays"`
	TotalBudget float64   `json:"totalBudget"`
	Itineraries []DayPlan `json:"itineraries"`
	Tips        []string  `json:"tips"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// TravelStyle selects the spending level a budget estimate is pitched at.
type TravelStyle string

const (
	StyleBudget   TravelStyle = "budget"
	StyleModerate TravelStyle = "moderate"
	StyleLuxury   TravelStyle = "luxury"
)

// BudgetEstimateInput is a budget estimation request. TravelStyle defaults to
// moderate when empty.
type BudgetEstimateInput struct {
	Destination string      `json:"destination"`
	Days        int         `json:"days"`
	PeopleCount int         `json:"peopleCount"`
	Preferences []string    `json:"preferences,omitempty"`
	TravelStyle TravelStyle `json:"travelStyle,omitempty"`
}

// BudgetBreakdown is one spending category of a budget estimate.
type BudgetBreakdown struct {
	Category        string  `json:"category"`
	EstimatedAmount float64 `json:"estimatedAmount"`
	Percentage      float64 `json:"percentage"`
	Description     string  `json:"description"`
}

// BudgetEstimate is the model's cost estimate for a trip.
type BudgetEstimate struct {
	TotalEstimate     float64           `json:"totalEstimate"`
	PerPersonEstimate float64           `json:"perPersonEstimate"`
	Breakdown         []BudgetBreakdown `json:"breakdown"`
	Tips              []string          `json:"tips"`
	SavingTips        []string          `json:"savingTips"`
}

// TotalEstimatedCost sums the per-day estimated costs.
func (p *GeneratedPlan) TotalEstimatedCost() float64 {
	var total float64
	for _, day := range p.Itineraries {
		total += day.EstimatedCost
	}
	return total
}
