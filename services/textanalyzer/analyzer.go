/*
	Copyright NetFoundry Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package textanalyzer implements the text statistics service. Analyze is a pure function: the same text always
// yields the same Analysis.
package textanalyzer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	WordsPerMinute = 200
	TopWordsLimit  = 10

	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"

	// sentimentThreshold is the score a text has to exceed, either way, to be labelled other than Neutral.
	sentimentThreshold = 0.3
)

var (
	wordPattern      = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
	sentencePattern  = regexp.MustCompile(`[.!?]+`)
	paragraphPattern = regexp.MustCompile(`\n[ \t\r]*\n`)
)

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type Analysis struct {
	CharacterCount         int         `json:"character_count"`
	CharacterCountNoSpaces int         `json:"character_count_no_spaces"`
	WordCount              int         `json:"word_count"`
	SentenceCount          int         `json:"sentence_count"`
	ParagraphCount         int         `json:"paragraph_count"`
	AverageWordLength      float64     `json:"average_word_length"`
	AverageSentenceLength  float64     `json:"average_sentence_length"`
	TopWords               []WordCount `json:"top_words"`
	ReadingTimeMinutes     float64     `json:"reading_time_minutes"`
	SentimentScore         float64     `json:"sentiment_score"`
	SentimentLabel         string      `json:"sentiment_label"`
}

// Analyze computes the statistics of text. Text is NFC normalized first and all counts are in code points.
func Analyze(text string) Analysis {
	text = norm.NFC.String(text)
	words := Words(cases.Lower(language.Und).String(text))

	sentenceCount := countNonBlank(sentencePattern.Split(text, -1))
	paragraphCount := countNonBlank(paragraphPattern.Split(text, -1))

	analysis := Analysis{
		CharacterCount:         utf8.RuneCountInString(text),
		CharacterCountNoSpaces: utf8.RuneCountInString(stripChars(text, " \n\t")),
		WordCount:              len(words),
		SentenceCount:          sentenceCount,
		ParagraphCount:         paragraphCount,
		AverageSentenceLength:  round(float64(len(words)) / float64(sentenceCount)),
		TopWords:               TopWords(words, TopWordsLimit),
		ReadingTimeMinutes:     round(float64(len(words)) / WordsPerMinute),
	}

	if len(words) > 0 {
		letters := 0
		for _, word := range words {
			letters += utf8.RuneCountInString(word)
		}
		analysis.AverageWordLength = round(float64(letters) / float64(len(words)))
	}

	analysis.SentimentScore, analysis.SentimentLabel = Sentiment(words)

	return analysis
}

// Words splits text into maximal runs of letters, marks, digits and underscores.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// CountWords returns the number of words in text, without case folding.
func CountWords(text string) int {
	return len(Words(norm.NFC.String(text)))
}

// CountCharacters returns the number of code points in text, with and without spaces.
func CountCharacters(text string) (withSpaces int, withoutSpaces int) {
	text = norm.NFC.String(text)
	return utf8.RuneCountInString(text), utf8.RuneCountInString(stripChars(text, " "))
}

// TopWords returns up to limit of the most frequent words, ignoring stop words and words of two characters or
// fewer. Words with the same count keep the order of their first occurrence.
func TopWords(words []string, limit int) []WordCount {
	counts := map[string]int{}
	var order []string

	for _, word := range words {
		if utf8.RuneCountInString(word) <= 2 || contains(stopWords, word) {
			continue
		}

		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	result := make([]WordCount, 0, len(order))
	for _, word := range order {
		result = append(result, WordCount{Word: word, Count: counts[word]})
	}

	return result
}

// Sentiment scores lower cased words against the positive and negative word lists. The score is
// (positive-negative)/(positive+negative), or 0 without matches, rounded to two places. The label is decided on the
// unrounded score.
func Sentiment(words []string) (float64, string) {
	positive, negative := 0, 0

	for _, word := range words {
		if contains(positiveWords, word) {
			positive++
		} else if contains(negativeWords, word) {
			negative++
		}
	}

	if positive+negative == 0 {
		return 0, Neutral
	}

	score := float64(positive-negative) / float64(positive+negative)

	label := Neutral
	if score > sentimentThreshold {
		label = Positive
	} else if score < -sentimentThreshold {
		label = Negative
	}

	return round(score), label
}

// countNonBlank counts the fragments that are not blank, with a minimum of 1.
func countNonBlank(fragments []string) int {
	count := 0
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) != "" {
			count++
		}
	}

	if count == 0 {
		return 1
	}
	return count
}

func stripChars(text string, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, text)
}

// round rounds f to two decimal places, ties to even, on the exact value of f.
func round(f float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return rounded
}
