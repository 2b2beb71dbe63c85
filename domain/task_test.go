package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestDraftValidate(t *testing.T) {
	valid := Draft{
		Name:      "Weekly sync",
		Date:      "2024-01-08",
		StartTime: "09:00",
		EndTime:   "10:00",
		Priority:  PriorityP1,
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr string
	}{
		{name: "valid", mutate: func(d *Draft) {}},
		{name: "empty name", mutate: func(d *Draft) { d.Name = "  " }, wantErr: "name is required"},
		{name: "bad date", mutate: func(d *Draft) { d.Date = "01/08/2024" }, wantErr: "invalid date"},
		{name: "bad start time", mutate: func(d *Draft) { d.StartTime = "9am" }, wantErr: "invalid start time"},
		{name: "bad end time", mutate: func(d *Draft) { d.EndTime = "25:00" }, wantErr: "invalid end time"},
		{name: "bad priority", mutate: func(d *Draft) { d.Priority = "P4" }, wantErr: "invalid priority"},
		{name: "end equals start", mutate: func(d *Draft) { d.EndTime = d.StartTime }, wantErr: "end time must be later"},
		{name: "end before start", mutate: func(d *Draft) { d.EndTime = "08:00" }, wantErr: "end time must be later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPriorityMarker(t *testing.T) {
	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityP1, "🔴"},
		{PriorityP2, "🟡"},
		{PriorityP3, "🟢"},
		{Priority("P9"), "⚪"},
	}
	for _, tt := range tests {
		if got := tt.priority.Marker(); got != tt.want {
			t.Fatalf("Marker(%s) = %s, want %s", tt.priority, got, tt.want)
		}
	}
}

func TestTaskMarshalOmitsEmptyConflicts(t *testing.T) {
	task := Task{ID: "t1", Name: "Review", Date: "2024-01-08", StartTime: "09:00", EndTime: "10:00", Priority: PriorityP2}

	payload, err := sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	if strings.Contains(string(payload), "conflicts") {
		t.Fatalf("expected conflicts to be omitted when empty, got %s", payload)
	}

	task.Conflicts = []string{"t2"}
	payload, err = sonic.Marshal(task)
	if err != nil {
		t.Fatalf("marshal annotated task: %v", err)
	}
	if !strings.Contains(string(payload), "\"conflicts\":[\"t2\"]") {
		t.Fatalf("expected conflicts to be serialized, got %s", payload)
	}
}

func TestPatchApply(t *testing.T) {
	task := Task{
		ID:        "t1",
		Name:      "Planning",
		Date:      "2024-01-08",
		StartTime: "10:00",
		EndTime:   "12:00",
		Priority:  PriorityP1,
	}

	name := "Quarterly planning"
	end := "13:00"
	patched := Patch{Name: &name, EndTime: &end}.Apply(task)

	if patched.Name != name || patched.EndTime != end {
		t.Fatalf("patch not applied: %#v", patched)
	}
	if patched.Date != task.Date || patched.StartTime != task.StartTime || patched.Priority != task.Priority {
		t.Fatalf("untouched fields changed: %#v", patched)
	}
	if task.Name != "Planning" || task.EndTime != "12:00" {
		t.Fatalf("input task mutated: %#v", task)
	}
}
