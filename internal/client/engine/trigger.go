package engine

// Source identifies what caused a sync cycle to be scheduled.
type Source int

const (
	SourceInitial Source = iota
	SourceVisibility
	SourceFocus
	SourceManual
	SourcePoll
)

func (s Source) String() string {
	switch s {
	case SourceInitial:
		return "initial"
	case SourceVisibility:
		return "visibility"
	case SourceFocus:
		return "focus"
	case SourceManual:
		return "manual"
	case SourcePoll:
		return "poll"
	default:
		return "unknown"
	}
}

// Trigger is one request for a sync cycle. Forced triggers bypass the
// debounce and user-edit cooldowns but still respect the in-flight lock.
// A non-empty Content (manual paste) skips the OS clipboard read entirely.
type Trigger struct {
	Source  Source
	Forced  bool
	Content string
}

// TriggerInitial is the forced once-per-session startup trigger.
func TriggerInitial() Trigger {
	return Trigger{Source: SourceInitial, Forced: true}
}

// TriggerVisibility fires when the frontend becomes visible again.
func TriggerVisibility() Trigger {
	return Trigger{Source: SourceVisibility}
}

// TriggerFocus fires when the frontend regains input focus.
func TriggerFocus() Trigger {
	return Trigger{Source: SourceFocus}
}

// TriggerManual carries user-pasted content. Always forced.
func TriggerManual(content string) Trigger {
	return Trigger{Source: SourceManual, Forced: true, Content: content}
}

// TriggerPoll fires from the monitoring ticker.
func TriggerPoll() Trigger {
	return Trigger{Source: SourcePoll}
}
