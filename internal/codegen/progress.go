package codegen

import "time"

// Stage describes a step of one generation run.
type Stage string

const (
	StageLoad    Stage = "load"
	StageNaming  Stage = "naming"
	StageActions Stage = "actions"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one model file. Done/Total count translated
// code blocks during StageActions.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Done    int
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
