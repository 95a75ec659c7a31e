package importer

import (
	"testing"

	"github.com/fentz26/habiterm/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.ImportRecord
		wantOK   bool
		wantText string
		wantType models.TaskType
	}{
		{"plain", models.ImportRecord{"text": "Buy milk", "type": "todo"}, true, "Buy milk", models.TaskTypeTodo},
		{"trimmed", models.ImportRecord{"text": "  Walk  ", "type": "habit"}, true, "Walk", models.TaskTypeHabit},
		{"default type", models.ImportRecord{"text": "Call mom"}, true, "Call mom", models.TaskTypeTodo},
		{"blank type", models.ImportRecord{"text": "Call mom", "type": "  "}, true, "Call mom", models.TaskTypeTodo},
		{"unknown type kept", models.ImportRecord{"text": "Odd", "type": "chore"}, true, "Odd", models.TaskType("chore")},
		{"numeric text", models.ImportRecord{"text": 42}, true, "42", models.TaskTypeTodo},
		{"missing text", models.ImportRecord{"type": "todo"}, false, "", ""},
		{"empty text", models.ImportRecord{"text": ""}, false, "", ""},
		{"blank text", models.ImportRecord{"text": "   \t"}, false, "", ""},
		{"null text", models.ImportRecord{"text": nil}, false, "", ""},
		{"list text", models.ImportRecord{"text": []any{"a"}}, false, "", ""},
		{"map text", models.ImportRecord{"text": map[string]any{"a": 1}}, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := Normalize(tt.rec)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%v) ok = %v, want %v", tt.rec, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if req.Text != tt.wantText || req.Type != tt.wantType {
				t.Errorf("Normalize(%v) = %+v, want text=%q type=%q", tt.rec, req, tt.wantText, tt.wantType)
			}
		})
	}
}
