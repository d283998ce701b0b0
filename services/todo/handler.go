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

package todo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/michaelquigley/pfxlog"
	"github.com/openziti/xgate/httpapi"
	"github.com/pkg/errors"
)

const (
	AgentName = "todo"
	Version   = "1.0.0"
)

// CreateRequest is the body of POST /api/todos.
type CreateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Priority    Priority `json:"priority"`
}

type deleteResponse struct {
	Message string `json:"message"`
	Id      string `json:"id"`
}

// Handler serves the todo API over a Store.
type Handler struct {
	store  *Store
	router chi.Router
}

func NewHandler(store *Store) *Handler {
	handler := &Handler{store: store}

	router := chi.NewRouter()
	router.NotFound(httpapi.NotFound)
	router.MethodNotAllowed(httpapi.MethodNotAllowed)

	httpapi.MountInfo(router, httpapi.Info{
		Name:        "Todo Agent",
		Description: "A todo list service with CRUD operations",
		Version:     Version,
		Docs:        "/docs",
	})

	router.Get("/health", handler.handleHealth)

	router.Route("/api/todos", func(r chi.Router) {
		r.Get("/", handler.handleList)
		r.Post("/", handler.handleCreate)
		r.Get("/{id}", handler.handleGet)
		r.Put("/{id}", handler.handleUpdate)
		r.Delete("/{id}", handler.handleDelete)
		r.Post("/{id}/toggle", handler.handleToggle)
	})

	handler.router = router
	return handler
}

// Store returns the Store this handler serves.
func (handler *Handler) Store() *Store {
	return handler.store
}

func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	handler.router.ServeHTTP(writer, request)
}

func (handler *Handler) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(writer, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"agent":       AgentName,
		"total_todos": handler.store.Count(),
	})
}

func (handler *Handler) handleList(writer http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(writer, http.StatusOK, handler.store.List())
}

func (handler *Handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	req := &CreateRequest{}
	if err := httpapi.DecodeJSON(writer, request, req); err != nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Title == nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, "field title is required")
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	todo, err := handler.store.Create(*req.Title, description, req.Priority)
	if err != nil {
		handler.writeError(writer, err)
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, todo)
}

func (handler *Handler) handleGet(writer http.ResponseWriter, request *http.Request) {
	todo, err := handler.store.Get(chi.URLParam(request, "id"))
	if err != nil {
		handler.writeError(writer, err)
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, todo)
}

func (handler *Handler) handleUpdate(writer http.ResponseWriter, request *http.Request) {
	update := Update{}
	if err := httpapi.DecodeJSON(writer, request, &update); err != nil {
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
		return
	}

	todo, err := handler.store.Update(chi.URLParam(request, "id"), update)
	if err != nil {
		handler.writeError(writer, err)
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, todo)
}

func (handler *Handler) handleDelete(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.store.Delete(id); err != nil {
		handler.writeError(writer, err)
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, &deleteResponse{Message: "Todo deleted", Id: id})
}

func (handler *Handler) handleToggle(writer http.ResponseWriter, request *http.Request) {
	todo, err := handler.store.Toggle(chi.URLParam(request, "id"))
	if err != nil {
		handler.writeError(writer, err)
		return
	}

	httpapi.WriteJSON(writer, http.StatusOK, todo)
}

func (handler *Handler) writeError(writer http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpapi.WriteDetail(writer, http.StatusNotFound, "Todo not found")
	case errors.Is(err, ErrInvalidPriority):
		httpapi.WriteDetail(writer, http.StatusUnprocessableEntity, err.Error())
	default:
		pfxlog.Logger().WithError(err).Error("todo operation failed")
		httpapi.WriteDetail(writer, http.StatusInternalServerError, err.Error())
	}
}
