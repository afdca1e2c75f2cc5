package adminclient

type State int

const (
	StateUnknown State = iota
	StateLoggedOut
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenEditor
)

// ScreenFor maps a session state to the view the editor shows.
func ScreenFor(s State) Screen {
	switch s {
	case StateLoggedOut:
		return ScreenLogin
	case StateLoggedIn:
		return ScreenEditor
	default:
		return ScreenLoading
	}
}
