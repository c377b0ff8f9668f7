package weather

import "tendatree/internal/model"

// Event is a static catalog entry: a named environmental occurrence with a
// qualitative health impact and optional per-dimension modifiers. Modifiers
// are stored on the narrative event for client display only.
type Event struct {
	Name             string
	Description      string
	Emoji            string
	HealthImpact     string
	WaterModifier    int
	SunlightModifier int
	FeedModifier     int
	LoveModifier     int
}

// Catalog is the fixed table of environmental events, loaded once at
// process start. Selection is uniform across all entries.
var Catalog = []Event{
	{
		Name:             "Thunderstorm",
		Description:      "A thunderstorm rolls through, shaking the tree but watering its roots.",
		Emoji:            "⛈️",
		HealthImpact:     model.HealthNegative,
		WaterModifier:    2,
		SunlightModifier: -1,
	},
	{
		Name:             "Hailstorm",
		Description:      "Hail pelts the leaves, causing some damage.",
		Emoji:            "🌨️",
		HealthImpact:     model.HealthNegative,
		WaterModifier:    1,
		SunlightModifier: -2,
	},
	{
		Name:             "Sunshine",
		Description:      "A beautiful sunny day boosts growth.",
		Emoji:            "☀️",
		HealthImpact:     model.HealthPositive,
		SunlightModifier: 2,
	},
	{
		Name:             "Fair Weather",
		Description:      "Mild weather helps the tree thrive.",
		Emoji:            "🌤️",
		HealthImpact:     model.HealthPositive,
		SunlightModifier: 1,
		WaterModifier:    1,
	},
	{
		Name:             "Snowstorm",
		Description:      "Heavy snow weighs down the branches.",
		Emoji:            "❄️",
		HealthImpact:     model.HealthNegative,
		SunlightModifier: -2,
		WaterModifier:    1,
	},
	{
		Name:          "Gentle Rain",
		Description:   "A gentle rain nourishes the tree.",
		Emoji:         "🌧️",
		HealthImpact:  model.HealthPositive,
		WaterModifier: 2,
	},
	{
		Name:         "Windy Day",
		Description:  "Strong winds test the tree’s strength.",
		Emoji:        "💨",
		HealthImpact: model.HealthNegative,
		LoveModifier: -1,
	},
	{
		Name:         "Pollinators Arrive",
		Description:  "Bees and butterflies help the tree flourish.",
		Emoji:        "🦋",
		HealthImpact: model.HealthPositive,
		LoveModifier: 2,
	},
	{
		Name:          "Drought",
		Description:   "A dry spell stresses the tree.",
		Emoji:         "🌵",
		HealthImpact:  model.HealthNegative,
		WaterModifier: -2,
	},
	{
		Name:         "Fertilizer Added",
		Description:  "Nutrients boost the tree’s growth.",
		Emoji:        "🌱",
		HealthImpact: model.HealthPositive,
		FeedModifier: 2,
	},
	{
		Name:         "Fungal Infection",
		Description:  "Fungi attack the roots, slowing growth.",
		Emoji:        "🍄",
		HealthImpact: model.HealthNegative,
		FeedModifier: -2,
	},
	{
		Name:         "Birds Nest",
		Description:  "Birds nest in the branches, bringing joy.",
		Emoji:        "🐦",
		HealthImpact: model.HealthPositive,
		LoveModifier: 1,
	},
	{
		Name:         "Lightning Strike",
		Description:  "Lightning damages the tree.",
		Emoji:        "⚡",
		HealthImpact: model.HealthNegative,
		LoveModifier: -2,
	},
	{
		Name:             "Early Spring",
		Description:      "Warm weather arrives early, boosting growth.",
		Emoji:            "🌸",
		HealthImpact:     model.HealthPositive,
		SunlightModifier: 2,
	},
	{
		Name:             "Late Frost",
		Description:      "A late frost damages new leaves.",
		Emoji:            "🥶",
		HealthImpact:     model.HealthNegative,
		SunlightModifier: -2,
	},
	{
		Name:         "Animal Visit",
		Description:  "A friendly animal visits the tree.",
		Emoji:        "🦌",
		HealthImpact: model.HealthPositive,
		LoveModifier: 1,
	},
	{
		Name:         "Insect Infestation",
		Description:  "Insects eat the leaves.",
		Emoji:        "🐛",
		HealthImpact: model.HealthNegative,
		FeedModifier: -1,
	},
	{
		Name:         "Community Care",
		Description:  "People care for the tree, boosting its health.",
		Emoji:        "🤲",
		HealthImpact: model.HealthPositive,
		LoveModifier: 2,
	},
	{
		Name:             "Heatwave",
		Description:      "Extreme heat stresses the tree.",
		Emoji:            "🔥",
		HealthImpact:     model.HealthNegative,
		WaterModifier:    -2,
		SunlightModifier: 2,
	},
	{
		Name:             "Perfect Day",
		Description:      "Everything is just right for growth.",
		Emoji:            "🌈",
		HealthImpact:     model.HealthPositive,
		WaterModifier:    1,
		SunlightModifier: 1,
		FeedModifier:     1,
		LoveModifier:     1,
	},
	{
		Name:         "Cloud Watching",
		Description:  "The tree enjoys watching clouds drift by.",
		Emoji:        "☁️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Morning Dew",
		Description:  "Dew settles on the leaves in the early morning.",
		Emoji:        "💧",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Bird Song",
		Description:  "Birds sing nearby, creating a peaceful atmosphere.",
		Emoji:        "🎶",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Passing Breeze",
		Description:  "A gentle breeze passes through the branches.",
		Emoji:        "🌬️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Moonlight",
		Description:  "The tree is bathed in soft moonlight.",
		Emoji:        "🌙",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Starry Night",
		Description:  "Stars twinkle above the tree.",
		Emoji:        "⭐",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Butterfly Landing",
		Description:  "A butterfly lands gently on a leaf.",
		Emoji:        "🦋",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Squirrel Visit",
		Description:  "A squirrel scurries by without disturbing the tree.",
		Emoji:        "🐿️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Rainy Afternoon",
		Description:  "A light rain falls, but the tree is unaffected.",
		Emoji:        "🌦️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Sunset Glow",
		Description:  "The tree glows in the light of the setting sun.",
		Emoji:        "🌇",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Foggy Morning",
		Description:  "Fog surrounds the tree, creating a mysterious scene.",
		Emoji:        "🌫️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Leaf Flutter",
		Description:  "Leaves flutter gently in the wind.",
		Emoji:        "🍃",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Busy Ants",
		Description:  "Ants march along the roots, minding their own business.",
		Emoji:        "🐜",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Rainbow Overhead",
		Description:  "A rainbow appears overhead, brightening the day.",
		Emoji:        "🌈",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Neighboring Tree",
		Description:  "A nearby tree sways in harmony.",
		Emoji:        "🌳",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Ladybug Rest",
		Description:  "A ladybug rests on a leaf for a moment.",
		Emoji:        "🐞",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Cool Shade",
		Description:  "The tree provides cool shade to the ground below.",
		Emoji:        "🌴",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Quiet Afternoon",
		Description:  "A quiet afternoon passes peacefully.",
		Emoji:        "🕊️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Spider Web",
		Description:  "A spider spins a web between branches.",
		Emoji:        "🕸️",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Falling Leaf",
		Description:  "A single leaf falls to the ground.",
		Emoji:        "🍂",
		HealthImpact: model.HealthNeutral,
	},
	{
		Name:         "Drifting Pollen",
		Description:  "Pollen drifts by on the wind.",
		Emoji:        "🌾",
		HealthImpact: model.HealthNeutral,
	},
}
