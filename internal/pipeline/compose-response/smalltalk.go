// internal/pipeline/compose-response/smalltalk.go
package composeresponse

import (
	"math/rand"
	"regexp"
	"strings"
)

// smalltalkTriggers maps conversational phrases to canned reply sets. A
// trigger match short-circuits the whole pipeline: no signals are extracted
// and no catalog is fetched. Phrases match on word boundaries; a bare
// substring check would fire "hi" inside "this".
var smalltalkTriggers = []struct {
	phrases []string
	replies []string
}{
	{
		phrases: []string{"hello", "hii", "hey", "hi", "good morning", "good afternoon", "good evening", "namaste"},
		replies: []string{
			"Hi there! I can help you find mobile recharge plans. Try asking for \"jio prepaid plans under 500\".",
			"Hello! Ask me about prepaid or postpaid plans from Jio, Airtel or Vi.",
			"Hey! Looking for a recharge plan? Tell me your operator and budget.",
		},
	},
	{
		phrases: []string{"bye", "goodbye", "see you", "talk to you later"},
		replies: []string{
			"Goodbye! Come back anytime you need a recharge plan.",
			"Bye! Happy to help with plans whenever you need.",
		},
	},
	{
		phrases: []string{"thank you", "thanks", "thank u", "thx"},
		replies: []string{
			"You're welcome! Anything else about mobile plans?",
			"Glad to help! Ask me about plans anytime.",
		},
	},
}

var smalltalkPatterns = compileSmalltalkPatterns()

func compileSmalltalkPatterns() [][]*regexp.Regexp {
	patterns := make([][]*regexp.Regexp, len(smalltalkTriggers))
	for i, trigger := range smalltalkTriggers {
		patterns[i] = make([]*regexp.Regexp, len(trigger.phrases))
		for j, phrase := range trigger.phrases {
			patterns[i][j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
		}
	}
	return patterns
}

// Smalltalk returns a canned reply when the query matches a conversational
// trigger. The reply is picked uniformly at random from the trigger's set.
func Smalltalk(queryText string) (string, bool) {
	replies := SmalltalkReplies(queryText)
	if replies == nil {
		return "", false
	}
	return replies[rand.Intn(len(replies))], true
}

// SmalltalkReplies exposes the matched trigger's canned set so callers (and
// tests) can assert membership rather than an exact string.
func SmalltalkReplies(queryText string) []string {
	text := strings.ToLower(strings.TrimSpace(queryText))
	if text == "" {
		return nil
	}
	for i, trigger := range smalltalkTriggers {
		for j := range trigger.phrases {
			if smalltalkPatterns[i][j].MatchString(text) {
				return trigger.replies
			}
		}
	}
	return nil
}
