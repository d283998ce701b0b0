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

package calculator

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/michaelquigley/pfxlog"
	"github.com/openziti/xgate/httpapi"
	"github.com/pkg/errors"
)

const (
	AgentName        = "calculator"
	Version          = "1.0.0"
	InvalidOperation = "Invalid operation"
)

// CalculationRequest is the body of POST /calculate. Pointer fields tell an absent value from zero.
type CalculationRequest struct {
	A         *float64 `json:"a"`
	B         *float64 `json:"b"`
	Operation *string  `json:"operation"`
}

type CalculationResponse struct {
	Result     httpapi.Number `json:"result"`
	Operation  Operation      `json:"operation"`
	Expression string         `json:"expression"`
}

type QueryResponse struct {
	Result     httpapi.Number `json:"result"`
	Expression string         `json:"expression"`
}

type divisionByZeroResponse struct {
	Error  string      `json:"error"`
	Result interface{} `json:"result"`
}

// Handler serves the calculator API. With strict set, unknown operations are answered with 422 instead of the
// "Invalid operation" result and query divisions by zero with 400 instead of 200.
type Handler struct {
	strict bool
	router chi.Router
}

func NewHandler(strict bool) *Handler {
	handler := &Handler{strict: strict}

	router := chi.NewRouter()
	router.NotFound(httpapi.NotFound)
	router.MethodNotAllowed(httpapi.MethodNotAllowed)

	httpapi.MountInfo(router, httpapi.Info{
		Name:        "Calculator Agent",
		Description: "A simple calculator service with basic arithmetic operations",
		Version:     Version,
		Docs:        "/docs",
	})

	router.Get("/health", handler.handleHealth)
	router.Post("/calculate", handler.handleCalculate)

	for _, op := range Operations {
		router.Get("/api/"+string(op), handler.queryHandler(op))
	}

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

func (handler *Handler) handleCalculate(writer http.ResponseWriter, request *http.Request) {
	req := &CalculationRequest{}
	if err := httpapi.DecodeJSON(writer, request, req); err != nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := req.validate(); err != nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := Calculate(*req.A, *req.B, *req.Operation)
	if err != nil {
		if !errors.Is(err, ErrInvalidOperation) {
			pfxlog.Logger().WithError(err).Error("calculation failed")
			httpapi.WriteDetail(writer, http.StatusInternalServerError, err.Error())
			return
		}

		if handler.strict {
			httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
			return
		}

		httpapi.WriteJSON(writer, http.StatusOK, &CalculationResponse{
			Result:     0,
			Operation:  result.Operation,
			Expression: InvalidOperation,
		})
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, &CalculationResponse{
		Result:     httpapi.Number(result.Value),
		Operation:  result.Operation,
		Expression: result.Expression,
	})
}

func (req *CalculationRequest) validate() error {
	if req.A == nil {
		return errors.New("field a is required")
	}

	if req.B == nil {
		return errors.New("field b is required")
	}

	if req.Operation == nil {
		return errors.New("field operation is required")
	}

	return nil
}

func (handler *Handler) queryHandler(op Operation) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		a, err := floatParam(request, "a")
		if err != nil {
			httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
			return
		}

		b, err := floatParam(request, "b")
		if err != nil {
			httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if op == Divide && b == 0 {
			status := http.StatusOK
			if handler.strict {
				status = http.StatusBadRequest
			}
			httpapi.WriteJSON(writer, status, &divisionByZeroResponse{Error: "Division by zero"})
			return
		}

		result, err := Calculate(a, b, string(op))
		if err != nil {
			pfxlog.Logger().WithError(err).Error("calculation failed")
			httpapi.WriteDetail(writer, http.StatusInternalServerError, err.Error())
			return
		}

		httpapi.WriteJSON(writer, http.StatusOK, &QueryResponse{
			Result:     httpapi.Number(result.Value),
			Expression: result.Expression,
		})
	}
}

func floatParam(request *http.Request, name string) (float64, error) {
	values := request.URL.Query()
	if !values.Has(name) {
		return 0, errors.Errorf("query parameter %s is required", name)
	}

	f, err := strconv.ParseFloat(values.Get(name), 64)
	if err != nil {
		return 0, errors.Errorf("query parameter %s must be a number", name)
	}

	return f, nil
}
