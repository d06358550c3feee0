package pipeline

import (
	"fmt"
	"strings"
)

// Task is one analysis the engine can run.
type Task string

const (
	TaskCWS  Task = "cws"  // word segmentation
	TaskPOS  Task = "pos"  // part-of-speech tagging
	TaskNER  Task = "ner"  // named entity recognition
	TaskSRL  Task = "srl"  // semantic role labeling
	TaskDEP  Task = "dep"  // dependency parsing
	TaskSDP  Task = "sdp"  // semantic dependency parsing, tree
	TaskSDPG Task = "sdpg" // semantic dependency parsing, graph
)

// AllTasks lists every task in canonical pipeline order.
var AllTasks = []Task{TaskCWS, TaskPOS, TaskNER, TaskSRL, TaskDEP, TaskSDP, TaskSDPG}

// ParseTask resolves a task name.
func ParseTask(name string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllTasks {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task %q", name)
}

// TaskSet is an ordered set of tasks. The zero value is not useful; build one with NewTaskSet.
type TaskSet struct {
	tasks []Task
}

// NewTaskSet normalizes the given tasks into canonical order, drops duplicates and always
// includes TaskCWS.
func NewTaskSet(tasks ...Task) TaskSet {
	want := map[Task]bool{TaskCWS: true}
	for _, t := range tasks {
		want[t] = true
	}
	ordered := make([]Task, 0, len(want))
	for _, t := range AllTasks {
		if want[t] {
			ordered = append(ordered, t)
		}
	}
	return TaskSet{tasks: ordered}
}

// ParseTaskSet builds a TaskSet from a comma separated list such as "pos,ner".
func ParseTaskSet(list string) (TaskSet, error) {
	var tasks []Task
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		t, err := ParseTask(name)
		if err != nil {
			return TaskSet{}, err
		}
		tasks = append(tasks, t)
	}
	return NewTaskSet(tasks...), nil
}

// Tasks returns the tasks in canonical order.
func (s TaskSet) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Has reports whether t is part of the set.
func (s TaskSet) Has(t Task) bool {
	for _, x := range s.tasks {
		if x == t {
			return true
		}
	}
	return false
}

// Len returns the number of tasks, TaskCWS included.
func (s TaskSet) Len() int {
	return len(s.tasks)
}

// Needs reports whether computing the set requires the result of t, either because t was
// requested or because a requested task is derived from it.
func (s TaskSet) Needs(t Task) bool {
	if s.Has(t) {
		return true
	}
	switch t {
	case TaskPOS:
		return s.Has(TaskNER) || s.Has(TaskSRL) || s.Has(TaskDEP) || s.Has(TaskSDP) || s.Has(TaskSDPG)
	case TaskDEP:
		return s.Has(TaskSRL) || s.Has(TaskSDP) || s.Has(TaskSDPG)
	case TaskSDP:
		return s.Has(TaskSDPG)
	}
	return false
}

func (s TaskSet) String() string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}
