package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agrosense/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleCreateTask inserts a new task in the Pending state.
func (a *App) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(req.Priority) {
		http.Error(w, "unknown priority", http.StatusBadRequest)
		return
	}

	t := models.Task{
		OwnerID:     uid,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskPending,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.tasks.InsertOne(ctx, &t)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

// handleListTasks returns the user's tasks, newest first.
func (a *App) handleListTasks(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.tasks.Find(ctx, bson.M{"ownerId": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleUpdateTask edits title/priority/description/due date. Status moves
// only through the advance endpoint.
func (a *App) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req taskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.Priority != "" && !models.ValidTaskPriority(req.Priority) {
		http.Error(w, "unknown priority", http.StatusBadRequest)
		return
	}

	set := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"dueDate":     req.DueDate,
	}
	if req.Priority != "" {
		set["priority"] = req.Priority
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": set},
		mongoAfter(),
	)
	var out models.Task
	if err := res.Decode(&out); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleAdvanceTask cycles the task status:
// Pending -> In Progress -> Completed -> Pending.
func (a *App) handleAdvanceTask(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var t models.Task
	if err := a.tasks.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&t); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	res := a.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": bson.M{"status": t.Status.Next()}},
		mongoAfter(),
	)
	var out models.Task
	if err := res.Decode(&out); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (a *App) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.tasks.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(bson.M{"ok": true})
}
