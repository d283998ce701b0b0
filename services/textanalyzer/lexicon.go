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

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// stopWords are left out of the top words.
var stopWords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "it", "its", "this",
	"that", "these", "those", "i", "you", "he", "she", "we", "they",
)

var positiveWords = wordSet(
	"good", "great", "awesome", "excellent", "amazing", "wonderful",
	"fantastic", "love", "happy", "joy", "beautiful", "perfect",
	"best", "brilliant", "outstanding", "superb", "nice", "pleasant",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "horrible", "hate", "sad", "angry",
	"worst", "poor", "ugly", "disappointing", "annoying", "frustrating",
	"boring", "dull", "stupid", "wrong", "fail", "failure",
)

func contains(set map[string]struct{}, word string) bool {
	_, ok := set[word]
	return ok
}
