package chatbot

import "strings"

// Score returns the share of key's words that overlap some word of text.
// A key word overlaps an input word when either one contains the other, so
// short input words such as "a" match any key word containing that letter.
// An empty key scores 0.
func Score(key, text string) float64 {
	keyWords := strings.Fields(key)
	if len(keyWords) == 0 {
		return 0
	}
	inputWords := strings.Fields(text)

	matched := 0
	for _, k := range keyWords {
		for _, m := range inputWords {
			if strings.Contains(m, k) || strings.Contains(k, m) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(keyWords))
}
