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

	"github.com/go-chi/chi/v5"
	"github.com/openziti/xgate/httpapi"
)

const (
	AgentName = "text-analyzer"
	Version   = "1.0.0"
)

// TextRequest is the body of every analyzer endpoint.
type TextRequest struct {
	Text *string `json:"text"`
}

type wordCountResponse struct {
	WordCount int `json:"word_count"`
}

type characterCountResponse struct {
	WithSpaces    int `json:"with_spaces"`
	WithoutSpaces int `json:"without_spaces"`
}

// Handler serves the text analyzer API.
type Handler struct {
	router chi.Router
}

func NewHandler() *Handler {
	handler := &Handler{}

	router := chi.NewRouter()
	router.NotFound(httpapi.NotFound)
	router.MethodNotAllowed(httpapi.MethodNotAllowed)

	httpapi.MountInfo(router, httpapi.Info{
		Name:        "Text Analyzer Agent",
		Description: "A text analysis service with statistics and insights",
		Version:     Version,
		Docs:        "/docs",
	})

	router.Get("/health", handler.handleHealth)
	router.Post("/api/analyze", handler.handleAnalyze)
	router.Post("/api/word-count", handler.handleWordCount)
	router.Post("/api/character-count", handler.handleCharacterCount)

	handler.router = router
	return handler
}

func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	handler.router.ServeHTTP(writer, request)
}

func (handler *Handler) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(writer, http.StatusOK, map[string]string{
		"status": "healthy",
		"agent":  AgentName,
	})
}

func (handler *Handler) handleAnalyze(writer http.ResponseWriter, request *http.Request) {
	text, ok := readText(writer, request)
	if !ok {
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, Analyze(text))
}

func (handler *Handler) handleWordCount(writer http.ResponseWriter, request *http.Request) {
	text, ok := readText(writer, request)
	if !ok {
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, &wordCountResponse{WordCount: CountWords(text)})
}

func (handler *Handler) handleCharacterCount(writer http.ResponseWriter, request *http.Request) {
	text, ok := readText(writer, request)
	if !ok {
		return
	}

	withSpaces, withoutSpaces := CountCharacters(text)
	httpapi.WriteJSON(writer, http.StatusOK, &characterCountResponse{
		WithSpaces:    withSpaces,
		WithoutSpaces: withoutSpaces,
	})
}

// readText decodes a TextRequest, answering with 422 and returning false if that is not possible.
func readText(writer http.ResponseWriter, request *http.Request) (string, bool) {
	req := &TextRequest{}
	if err := httpapi.DecodeJSON(writer, request, req); err != nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
		return "", false
	}

	if req.Text == nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, "field text is required")
		return "", false
	}

	return *req.Text, true
}
