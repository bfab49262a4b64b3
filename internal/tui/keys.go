package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the playback key bindings. Step sizes are the base
// amounts; the update loop scales them by the ceiling of the current
// speed so navigation keeps pace at high multipliers.
type keyMap struct {
	PlayPause   key.Binding
	Quit        key.Binding
	SeekMode    key.Binding
	Timecap     key.Binding
	ToggleUI    key.Binding
	Forward     key.Binding
	ForwardBig  key.Binding
	ForwardPage key.Binding
	Back        key.Binding
	BackBig     key.Binding
	BackPage    key.Binding
	Home        key.Binding
	End         key.Binding
	SpeedUp     key.Binding
	SpeedDown   key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SeekMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "frame/time seeking"),
		),
		Timecap: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle timecap"),
		),
		ToggleUI: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle status bar"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "+1 frame or +1s"),
		),
		ForwardBig: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L/shift+→", "+10 frames or +5s"),
		),
		ForwardPage: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "+100 frames or +30s"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "-1 frame or -1s"),
		),
		BackBig: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H/shift+←", "-10 frames or -5s"),
		),
		BackPage: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "-100 frames or -30s"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first frame"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last frame"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys("k", "K", "up"),
			key.WithHelp("k/↑", "double speed"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("j", "J", "down"),
			key.WithHelp("j/↓", "halve speed"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Forward, k.Back, k.SeekMode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SpeedUp, k.SpeedDown, k.Quit},
		{k.Forward, k.ForwardBig, k.ForwardPage, k.Home},
		{k.Back, k.BackBig, k.BackPage, k.End},
		{k.SeekMode, k.Timecap, k.ToggleUI, k.Help},
	}
}
