package screen

// Key binding constants used in handleKey.
const (
	KeyQuit         = "q"
	KeyCtrlC        = "ctrl+c"
	KeyStart        = "r"
	KeyStop         = "s"
	KeyPlay         = "p"
	KeyEnter        = "enter"
	KeyStopPlayback = "x"
	KeyUp           = "up"
	KeyDown         = "down"
	KeyJ            = "j"
	KeyK            = "k"
	KeyEsc          = "esc"
)
