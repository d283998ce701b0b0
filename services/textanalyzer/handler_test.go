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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func post(handler http.Handler, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func Test_Handler(t *testing.T) {
	handler := NewHandler()

	t.Run("health reports the agent", func(t *testing.T) {
		req := require.New(t)

		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"status":"healthy","agent":"text-analyzer"}`, resp.Body.String())
	})

	t.Run("analyze returns the full analysis", func(t *testing.T) {
		req := require.New(t)

		resp := post(handler, "/api/analyze", `{"text":"I love this! It is great."}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{
			"character_count": 25,
			"character_count_no_spaces": 20,
			"word_count": 6,
			"sentence_count": 2,
			"paragraph_count": 1,
			"average_word_length": 3,
			"average_sentence_length": 3,
			"top_words": [{"word":"love","count":1},{"word":"great","count":1}],
			"reading_time_minutes": 0.03,
			"sentiment_score": 1,
			"sentiment_label": "Positive"
		}`, resp.Body.String())
	})

	t.Run("analyze of empty text", func(t *testing.T) {
		req := require.New(t)

		resp := post(handler, "/api/analyze", `{"text":""}`)
		req.Equal(http.StatusOK, resp.Code)
		req.Contains(resp.Body.String(), `"word_count":0`)
		req.Contains(resp.Body.String(), `"sentence_count":1`)
		req.Contains(resp.Body.String(), `"top_words":[]`)
	})

	t.Run("word count", func(t *testing.T) {
		req := require.New(t)

		resp := post(handler, "/api/word-count", `{"text":"Hello, World! 123"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"word_count":3}`, resp.Body.String())
	})

	t.Run("character count removes only spaces", func(t *testing.T) {
		req := require.New(t)

		resp := post(handler, "/api/character-count", `{"text":"a b\nc d"}`)
		req.Equal(http.StatusOK, resp.Code)
		req.JSONEq(`{"with_spaces":7,"without_spaces":5}`, resp.Body.String())
	})

	t.Run("text is required", func(t *testing.T) {
		req := require.New(t)

		for _, target := range []string{"/api/analyze", "/api/word-count", "/api/character-count"} {
			resp := post(handler, target, `{}`)
			req.Equal(http.StatusUnprocessableEntity, resp.Code, target)
			req.JSONEq(`{"detail":"field text is required"}`, resp.Body.String())
		}
	})

	t.Run("analyze only accepts POST", func(t *testing.T) {
		req := require.New(t)

		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
		req.Equal(http.StatusMethodNotAllowed, resp.Code)
	})
}
