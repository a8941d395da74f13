package api

import (
	"net/http"

	"task-app/internal/domain"
	"task-app/internal/services"
)

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTaskInput
	if err := decodeJSON(r, &input); err != nil {
		a.errors.Respond(w, r, err)
		return
	}

	task, err := a.tasks.CreateTask(r.Context(), input)
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var filter domain.TaskFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		filter.Status = &status
	}

	tasks, err := a.tasks.ListTasks(r.Context(), filter)
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.tasks.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch domain.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		a.errors.Respond(w, r, err)
		return
	}

	task, err := a.tasks.UpdateTask(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := a.tasks.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		a.errors.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
