package arknights

import "fmt"

// EventKind classifies observer events. Events exist for logging and
// operational reporting only; failures are always also returned as errors.
type EventKind string

const (
	EventInfo    EventKind = "info"
	EventError   EventKind = "error"
	EventLoginOK EventKind = "login"
)

// Event is delivered to the client's OnEvent hook, when one is set.
type Event struct {
	Kind    EventKind
	Step    string
	Region  Region
	Message string
	Err     error
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%s): %s: %s", e.Kind, e.Step, e.Region, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", e.Kind, e.Step, e.Region, e.Message)
}

func (c *Client) emit(e Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
}

func (c *Client) emitErr(step string, region Region, msg string, err error) {
	c.emit(Event{Kind: EventError, Step: step, Region: region, Message: msg, Err: err})
}

func (c *Client) emitInfo(step string, region Region, msg string) {
	c.emit(Event{Kind: EventInfo, Step: step, Region: region, Message: msg})
}
