package assistant

// MaxSuggestions caps the follow-up questions offered with an answer.
const MaxSuggestions = 4

var suggestionsByIntent = map[IntentType][]string{
	IntentTrend: {
		"Which metric is growing fastest this week?",
		"How do views compare with the previous week?",
		"Which category is gaining share?",
		"On which day did views peak?",
	},
	IntentRecommendation: {
		"What kind of videos get the most coins?",
		"When is the best time to publish?",
		"How can interaction rates be improved?",
		"What do the hottest videos have in common?",
	},
	IntentDataQuery: {
		"Which category performed best in the last week?",
		"What are the top five videos by views?",
		"How many videos were published yesterday?",
		"How do categories compare on average views?",
	},
	IntentGeneral: {
		"Which category performed best in the last week?",
		"How are views trending?",
		"What kind of videos go viral?",
		"When is the best time to publish?",
	},
}

// Suggestions returns follow-up questions for an answer with intent.
func Suggestions(in Intent) []string {
	s, ok := suggestionsByIntent[in.Type]
	if !ok {
		s = suggestionsByIntent[IntentGeneral]
	}
	return append([]string(nil), s[:min(len(s), MaxSuggestions)]...)
}
