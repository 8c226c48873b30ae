package models

// Category is the coarse topic bucket of a chat message.
type Category string

const (
	CategoryPregnancy    Category = "pregnancy"
	CategoryEmergency    Category = "emergency"
	CategoryNutrition    Category = "nutrition"
	CategoryMentalHealth Category = "mental_health"
	CategoryExercise     Category = "exercise"
	CategoryDefault      Category = "default"
)

// CategoryKeywords pairs a category with the lower-case substrings that select it.
type CategoryKeywords struct {
	Category Category
	Keywords []string
}

// Categories is the classification table. Order matters: the first category
// with a matching keyword wins, so changing it changes classification output.
var Categories = []CategoryKeywords{
	{
		Category: CategoryPregnancy,
		Keywords: []string{
			"pregnancy", "pregnant", "ubuzima", "ubw'abana", "antenatal",
			"prenatal", "maternal", "trimester", "inda", "umubyeyi",
			"birth", "delivery", "kubyara",
		},
	},
	{
		Category: CategoryEmergency,
		Keywords: []string{
			"emergency", "ingenzi", "amaraso", "bleeding", "severe pain",
			"unconscious", "seizure", "ubutabazi", "byihutirwa",
		},
	},
	{
		Category: CategoryNutrition,
		Keywords: []string{
			"nutrition", "ibiryo", "food", "diet", "vitamin", "anaemia",
			"anemia", "iron tablet", "folic", "imirire", "kurya",
		},
	},
	{
		Category: CategoryMentalHealth,
		Keywords: []string{
			"mental health", "depression", "anxiety", "stress", "sad",
			"agahinda", "ihungabana", "kwiheba",
		},
	},
	{
		Category: CategoryExercise,
		Keywords: []string{
			"exercise", "workout", "walking", "yoga", "imyitozo",
			"siporo", "physical activity",
		},
	},
}
