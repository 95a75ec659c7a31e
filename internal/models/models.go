// Package models defines the core domain types for habiterm.
package models

import (
	"fmt"
	"time"
)

// TaskType is the kind of a Habitica task.
type TaskType string

const (
	TaskTypeHabit  TaskType = "habit"
	TaskTypeDaily  TaskType = "daily"
	TaskTypeTodo   TaskType = "todo"
	TaskTypeReward TaskType = "reward"
)

// Category is a browsable partition of the remote task collection.
// Values match the `type` query parameter of the list endpoint.
type Category string

const (
	CategoryHabits  Category = "habits"
	CategoryDailys  Category = "dailys"
	CategoryTodos   Category = "todos"
	CategoryRewards Category = "rewards"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryHabits, CategoryDailys, CategoryTodos, CategoryRewards}

// ParseCategory accepts a category name or its singular task type.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "habits", "habit":
		return CategoryHabits, nil
	case "dailys", "dailies", "daily":
		return CategoryDailys, nil
	case "todos", "todo":
		return CategoryTodos, nil
	case "rewards", "reward":
		return CategoryRewards, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// TaskType returns the task type stored in this category.
func (c Category) TaskType() TaskType {
	switch c {
	case CategoryHabits:
		return TaskTypeHabit
	case CategoryDailys:
		return TaskTypeDaily
	case CategoryRewards:
		return TaskTypeReward
	default:
		return TaskTypeTodo
	}
}

// Label is the human-facing name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryHabits:
		return "Habits"
	case CategoryDailys:
		return "Dailies"
	case CategoryTodos:
		return "Todos"
	case CategoryRewards:
		return "Rewards"
	default:
		return string(c)
	}
}

// Default field values applied when a task omits them.
const (
	DefaultPriority = 1.0
	DefaultType     = TaskTypeTodo
)

// Task is a Habitica task as returned by the API.
type Task struct {
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text"`
	Type     TaskType `json:"type"`
	Notes    string   `json:"notes"`
	Priority float64  `json:"priority"`
	Value    float64  `json:"value"`
}

// TaskUpdate is a partial task update. Nil fields are left untouched.
type TaskUpdate struct {
	Text     *string  `json:"text,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Text == nil && u.Notes == nil && u.Priority == nil
}

// Direction is the sign of a scoring event.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a scoring direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q (want up or down)", s)
}

// ScoreResult holds the user stats returned after scoring a task.
type ScoreResult struct {
	Delta float64 `json:"delta"`
	HP    float64 `json:"hp"`
	MP    float64 `json:"mp"`
	Exp   float64 `json:"exp"`
	GP    float64 `json:"gp"`
	Lvl   int     `json:"lvl"`
}

// ImportRecord is a raw, format-specific record produced by the import parser.
type ImportRecord map[string]any

// NormalizedTaskRequest is the only shape accepted for task creation.
type NormalizedTaskRequest struct {
	Text string   `json:"text"`
	Type TaskType `json:"type"`
}

// ImportSummary reports the outcome of one import.
// Attempted counts submissions; Succeeded and Failed split it by remote outcome.
type ImportSummary struct {
	ID        string `json:"id,omitempty"`
	Path      string `json:"path"`
	Format    string `json:"format"`
	Attempted int    `json:"attempted"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Dropped   int    `json:"dropped"`
}

// ImportRun is a journaled import.
type ImportRun struct {
	ID        string     `json:"id"`
	Path      string     `json:"path"`
	Format    string     `json:"format"`
	Attempted int        `json:"attempted"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Dropped   int        `json:"dropped"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ActionRecord is an audit entry for a state-mutating action.
type ActionRecord struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	TaskID     string    `json:"task_id,omitempty"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
