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

package textanalyzer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Analyze(t *testing.T) {
	t.Run("empty text has no words, one sentence and one paragraph", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze("")
		req.Equal(0, analysis.CharacterCount)
		req.Equal(0, analysis.WordCount)
		req.Equal(1, analysis.SentenceCount)
		req.Equal(1, analysis.ParagraphCount)
		req.Equal(0.0, analysis.AverageWordLength)
		req.Equal(0.0, analysis.AverageSentenceLength)
		req.Equal(0.0, analysis.ReadingTimeMinutes)
		req.Equal(0.0, analysis.SentimentScore)
		req.Equal(Neutral, analysis.SentimentLabel)
		req.NotNil(analysis.TopWords)
		req.Empty(analysis.TopWords)
	})

	t.Run("whitespace only text still has one sentence and one paragraph", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze(" \n\n\t ")
		req.Equal(0, analysis.WordCount)
		req.Equal(1, analysis.SentenceCount)
		req.Equal(1, analysis.ParagraphCount)
		req.Equal(5, analysis.CharacterCount)
		req.Equal(0, analysis.CharacterCountNoSpaces)
	})

	t.Run("a short positive text", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze("I love this! It is great.")
		req.Equal(Positive, analysis.SentimentLabel)
		req.Equal(1.0, analysis.SentimentScore)
		req.Equal(25, analysis.CharacterCount)
		req.Equal(20, analysis.CharacterCountNoSpaces)
		req.Equal(6, analysis.WordCount)
		req.Equal(2, analysis.SentenceCount)
		req.Equal(1, analysis.ParagraphCount)
		req.Equal(3.0, analysis.AverageWordLength)
		req.Equal(3.0, analysis.AverageSentenceLength)
		req.Equal(0.03, analysis.ReadingTimeMinutes)
		req.Equal([]WordCount{{Word: "love", Count: 1}, {Word: "great", Count: 1}}, analysis.TopWords)
	})

	t.Run("paragraphs are separated by blank lines", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze("One.\n\nTwo?\n \t\nThree!\nStill three.")
		req.Equal(3, analysis.ParagraphCount)
		req.Equal(4, analysis.SentenceCount)
	})

	t.Run("runs of sentence punctuation end a single sentence", func(t *testing.T) {
		req := require.New(t)

		req.Equal(2, Analyze("What?!... Really").SentenceCount)
	})

	t.Run("reading time is words over two hundred", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze(strings.Repeat("word ", 300))
		req.Equal(300, analysis.WordCount)
		req.Equal(1.5, analysis.ReadingTimeMinutes)
		req.Equal([]WordCount{{Word: "word", Count: 300}}, analysis.TopWords)
	})

	t.Run("averages that fall exactly between two hundredths round to even", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze(strings.Repeat("word ", 25))
		req.Equal(0.12, analysis.ReadingTimeMinutes)

		analysis = Analyze(strings.Repeat("cat ", 7) + "bird")
		req.Equal(3.12, analysis.AverageWordLength)
	})

	t.Run("input is normalized before counting", func(t *testing.T) {
		req := require.New(t)

		analysis := Analyze("Cafe\u0301")
		req.Equal(4, analysis.CharacterCount)
		req.Equal(1, analysis.WordCount)
		req.Equal([]WordCount{{Word: "caf\u00e9", Count: 1}}, analysis.TopWords)
	})

	t.Run("identical input yields identical output", func(t *testing.T) {
		req := require.New(t)

		text := "The weather is awful. The food was terrible, but the view was wonderful.\n\nOverall: fine."
		first, err := json.Marshal(Analyze(text))
		req.NoError(err)
		second, err := json.Marshal(Analyze(text))
		req.NoError(err)
		req.Equal(string(first), string(second))
	})
}

func Test_Words(t *testing.T) {
	req := require.New(t)

	req.Equal([]string{"Hello", "world", "naïve_user", "42"}, Words("Hello, world! naïve_user 42"))
	req.Empty(Words("... !!! ---"))
}

func Test_TopWords(t *testing.T) {
	t.Run("ordered by count then first occurrence", func(t *testing.T) {
		req := require.New(t)

		words := Words("cherry apple banana apple banana apple date")
		req.Equal([]WordCount{
			{Word: "apple", Count: 3},
			{Word: "banana", Count: 2},
			{Word: "cherry", Count: 1},
			{Word: "date", Count: 1},
		}, TopWords(words, 10))
	})

	t.Run("stop words and short words are ignored", func(t *testing.T) {
		req := require.New(t)

		words := Words("the cat and the dog should go to be with them")
		req.Equal([]WordCount{
			{Word: "cat", Count: 1},
			{Word: "dog", Count: 1},
			{Word: "them", Count: 1},
		}, TopWords(words, 10))
	})

	t.Run("limited to the requested number", func(t *testing.T) {
		req := require.New(t)

		var words []string
		for i := 0; i < 12; i++ {
			words = append(words, fmt.Sprintf("word%02d", i))
		}

		top := TopWords(words, TopWordsLimit)
		req.Len(top, TopWordsLimit)
		req.Equal("word00", top[0].Word)
		req.Equal("word09", top[9].Word)
	})
}

func Test_Sentiment(t *testing.T) {
	cases := []struct {
		text  string
		score float64
		label string
	}{
		{"nothing to see here", 0, Neutral},
		{"good bad", 0, Neutral},
		{"good good bad", 0.33, Positive},
		{"good bad bad", -0.33, Negative},
		{"terrible awful failure", -1, Negative},
		{"GREAT and Wonderful", 1, Positive},
		{strings.Repeat("good ", 9) + strings.Repeat("bad ", 7), 0.12, Neutral},
		{strings.Repeat("good ", 7) + strings.Repeat("bad ", 9), -0.12, Neutral},
	}

	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			req := require.New(t)

			analysis := Analyze(c.text)
			req.Equal(c.score, analysis.SentimentScore)
			req.Equal(c.label, analysis.SentimentLabel)
		})
	}
}

func Test_round(t *testing.T) {
	cases := []struct {
		value    float64
		expected float64
	}{
		{0.125, 0.12},
		{0.375, 0.38},
		{-0.125, -0.12},
		{3.125, 3.12},
		{2.675, 2.67},
		{0.335, 0.34},
		{1.0 / 3, 0.33},
		{1.5, 1.5},
	}

	for _, c := range cases {
		t.Run(strconv.FormatFloat(c.value, 'g', -1, 64), func(t *testing.T) {
			require.Equal(t, c.expected, round(c.value))
		})
	}
}

func Test_CountCharacters(t *testing.T) {
	req := require.New(t)

	withSpaces, withoutSpaces := CountCharacters("a b\nc d")
	req.Equal(7, withSpaces)
	req.Equal(5, withoutSpaces)
}
