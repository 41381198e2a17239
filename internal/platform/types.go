package platform

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventMouseEnter
	EventMouseLeave
	EventRedraw
)

func (t EventType) String() string {
	switch t {
	case EventClose:
		return "close"
	case EventResize:
		return "resize"
	case EventKeyDown:
		return "key_down"
	case EventKeyUp:
		return "key_up"
	case EventMouseMove:
		return "mouse_move"
	case EventMouseDown:
		return "mouse_down"
	case EventMouseUp:
		return "mouse_up"
	case EventMouseWheel:
		return "mouse_wheel"
	case EventMouseEnter:
		return "mouse_enter"
	case EventMouseLeave:
		return "mouse_leave"
	case EventRedraw:
		return "redraw"
	default:
		return "unknown"
	}
}

// MouseButtons is a bitmask of held (or, for EventMouseUp, released)
// buttons.
type MouseButtons uint8

const ButtonNone MouseButtons = 0

const (
	ButtonPrimary MouseButtons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Event is a host input or window notification. X and Y are pixels
// relative to the viewport's top-left corner.
type Event struct {
	Type    EventType
	Width   int
	Height  int
	X       int
	Y       int
	DeltaX  float32
	DeltaY  float32
	Buttons MouseButtons
	Key     string
}

type Platform interface {
	Name() string
	CreateWindow(cfg WindowConfig) (Window, error)
}

// Window is a native host window. Rendering goes through the window's
// surface, not through the window itself.
type Window interface {
	PollEvents() []Event
	SizePx() (int, int)
	SetTitle(title string)
	ShouldClose() bool
	Close()
}
