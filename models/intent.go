package models

// IntentID names a fine-grained maternal-health topic backed by one WHO indicator.
type IntentID string

const (
	IntentANC4    IntentID = "anc4"
	IntentSBA     IntentID = "sba"
	IntentMMR     IntentID = "mmr"
	IntentABR     IntentID = "abr"
	IntentAnaemia IntentID = "anaemia"
	IntentNMR     IntentID = "nmr"
)

// Label is a display string in both supported languages.
type Label struct {
	RW string `json:"rw" bson:"rw"`
	EN string `json:"en" bson:"en"`
}

// For picks the text for lang, preferring Kinyarwanda.
func (l Label) For(lang Language) string {
	if lang == LangEnglish {
		return l.EN
	}
	return l.RW
}

type Intent struct {
	ID IntentID
	// Keywords are matched against the user's message.
	Keywords []string
	// IndicatorKeywords are searched in WHO indicator names.
	IndicatorKeywords []string
	Label             Label
	// Unit overrides the default "%" for rate indicators.
	Unit string
	// LowerIsBetter flips the trend label for mortality-style indicators.
	LowerIsBetter bool
}

// Intents is the intent catalogue in detection order.
var Intents = []Intent{
	{
		ID:                IntentANC4,
		Keywords:          []string{"antenatal", "prenatal", "checkup", "check-up", "kwipimisha", "anc visit"},
		IndicatorKeywords: []string{"antenatal care", "four visits"},
		Label: Label{
			RW: "Abagore bipimishije inda nibura inshuro 4",
			EN: "Antenatal care coverage (4+ visits)",
		},
	},
	{
		ID:                IntentSBA,
		Keywords:          []string{"skilled", "birth attendant", "midwife", "home birth", "ababyaza"},
		IndicatorKeywords: []string{"skilled health personnel", "births attended"},
		Label: Label{
			RW: "Ababyariye ku bakozi b'ubuzima babifitiye ubumenyi",
			EN: "Births attended by skilled health personnel",
		},
	},
	{
		ID:                IntentMMR,
		Keywords:          []string{"maternal mortality", "maternal death", "mothers die", "mortality ratio", "impfu z'ababyeyi"},
		IndicatorKeywords: []string{"maternal mortality ratio"},
		Label: Label{
			RW: "Impfu z'ababyeyi",
			EN: "Maternal mortality ratio",
		},
		Unit:          "per 100 000 live births",
		LowerIsBetter: true,
	},
	{
		ID:                IntentABR,
		Keywords:          []string{"adolescent", "teenage", "teen mother", "teen girl", "young mother", "abangavu"},
		IndicatorKeywords: []string{"adolescent birth rate"},
		Label: Label{
			RW: "Abangavu babyara",
			EN: "Adolescent birth rate",
		},
		Unit:          "per 1000 women aged 15-19",
		LowerIsBetter: true,
	},
	{
		ID:                IntentAnaemia,
		Keywords:          []string{"anaemi", "anemi", "iron deficiency", "low blood", "kubura amaraso"},
		IndicatorKeywords: []string{"anaemia in pregnant women"},
		Label: Label{
			RW: "Abagore batwite bafite ikibazo cyo kubura amaraso",
			EN: "Anaemia prevalence in pregnant women",
		},
		LowerIsBetter: true,
	},
	{
		ID:                IntentNMR,
		Keywords:          []string{"newborn", "neonatal", "baby death", "uruhinja", "impinja"},
		IndicatorKeywords: []string{"neonatal mortality rate"},
		Label: Label{
			RW: "Impfu z'impinja",
			EN: "Neonatal mortality rate",
		},
		Unit:          "per 1000 live births",
		LowerIsBetter: true,
	},
}

// DefaultIntentBundle answers broad pregnancy questions with no specific topic.
var DefaultIntentBundle = []IntentID{IntentANC4, IntentSBA, IntentMMR}

// DefaultIntent is used when nothing in the message points at maternal health.
const DefaultIntent = IntentANC4

// BroadMaternalTerms select DefaultIntentBundle when no intent keyword matched.
var BroadMaternalTerms = []string{
	"pregnan", "maternal", "mother", "baby", "inda", "umubyeyi", "ubuzima", "ubw'abana", "batwite",
}

// LookupIntent finds an intent in the catalogue.
func LookupIntent(id IntentID) (Intent, bool) {
	for _, in := range Intents {
		if in.ID == id {
			return in, true
		}
	}
	return Intent{}, false
}
