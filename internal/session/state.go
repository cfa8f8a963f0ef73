package session

import "tasklist/internal/service"

// State is everything a view needs to render the task list.
type State struct {
	// Tasks in server order for the initial load, append order for creations.
	Tasks []service.Task

	// Loading is true only while a list fetch is in flight.
	Loading bool

	// Err holds the most recent failure message. It is never cleared
	// automatically.
	Err string

	// NewTitle is the pending input buffer for the next Add.
	NewTitle string
}

// clone returns a State that shares no slice memory with s.
func (s State) clone() State {
	out := s
	if s.Tasks != nil {
		out.Tasks = make([]service.Task, len(s.Tasks))
		copy(out.Tasks, s.Tasks)
	}
	return out
}

// The reducers below never modify their input.

func loaded(s State, tasks []service.Task) State {
	out := s.clone()
	out.Tasks = make([]service.Task, len(tasks))
	copy(out.Tasks, tasks)
	return out
}

func failed(s State, msg string) State {
	out := s.clone()
	out.Err = msg
	return out
}

// appended adds task at the end and clears the input buffer when it still
// holds the submitted title.
func appended(s State, task service.Task, submitted string) State {
	out := s.clone()
	out.Tasks = append(out.Tasks, task)
	if out.NewTitle == submitted {
		out.NewTitle = ""
	}
	return out
}

// replaced swaps in task for the entry with the same ID. With no match the
// list is unchanged.
func replaced(s State, task service.Task) State {
	out := s.clone()
	for i := range out.Tasks {
		if out.Tasks[i].ID == task.ID {
			out.Tasks[i] = task
			break
		}
	}
	return out
}

func removed(s State, id string) State {
	out := s.clone()
	for i := range out.Tasks {
		if out.Tasks[i].ID == id {
			out.Tasks = append(out.Tasks[:i], out.Tasks[i+1:]...)
			break
		}
	}
	return out
}
