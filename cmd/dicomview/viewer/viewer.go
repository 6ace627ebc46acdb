// Package viewer implements the interactive terminal viewer: two
// side-by-side views of the volume (axial plus one reformation) with
// keyboard-driven slice scrubbing, window/level control and presets.
package viewer

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/dicomview/internal/render"
	"github.com/mrsinham/dicomview/internal/session"
	"github.com/mrsinham/dicomview/internal/volume"
)

// Viewer is the bubbletea model driving the interactive session.
type Viewer struct {
	vol   *volume.Volume
	state *session.State

	settings     *Settings
	settingsPath string

	showMeta bool
	status   string

	// Terminal size.
	width  int
	height int

	err error
}

// New builds a viewer around an assembled volume. Saved settings, when
// present, override the initial plane and window.
func New(vol *volume.Volume, settings *Settings, settingsPath string) *Viewer {
	st := session.New(vol)
	if settings != nil {
		if p, err := volume.ParsePlane(settings.Plane); err == nil && p != volume.PlaneAxial {
			st.WithPlane(vol, p)
		}
		if settings.WindowWidth >= 1 {
			st.WindowWidth = settings.WindowWidth
			st.WindowLevel = settings.WindowLevel
			st.Clamped(vol)
		}
	} else {
		settings = &Settings{}
	}

	return &Viewer{
		vol:          vol,
		state:        st,
		settings:     settings,
		settingsPath: settingsPath,
	}
}

// Init implements tea.Model.
func (v *Viewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	wwStep := v.state.WWMax / 100
	if wwStep < 1 {
		wwStep = 1
	}
	wlStep := (v.state.WLMax - v.state.WLMin) / 200
	if wlStep < 1 {
		wlStep = 1
	}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		v.persistSettings()
		return v, tea.Quit

	case "up", "k":
		v.state.AxialIndex++
	case "down", "j":
		v.state.AxialIndex--
	case "right", "l":
		v.state.ReformIndex++
	case "left", "h":
		v.state.ReformIndex--

	case "tab":
		v.cyclePlane()

	case "w":
		v.state.WindowWidth += wwStep
	case "s":
		v.state.WindowWidth -= wwStep
	case "d":
		v.state.WindowLevel += wlStep
	case "a":
		v.state.WindowLevel -= wlStep

	case "1", "2", "3", "4":
		v.state.ApplyPreset(int(msg.String()[0] - '1'))
		v.status = session.Presets(v.state.DefaultWidth, v.state.DefaultLevel)[int(msg.String()[0]-'1')].Name

	case "r":
		v.state.ResetWindow()
		v.status = "window reset"
	case "p":
		v.state.ResetPlane(v.vol)
		v.status = "planes reset"

	case "m":
		v.showMeta = !v.showMeta

	case "e":
		v.exportSnapshot()
	}

	v.state.Clamped(v.vol)
	return v, nil
}

// cyclePlane advances the reformation plane through the available
// choices, recentering its slider.
func (v *Viewer) cyclePlane() {
	for i, p := range volume.ReformPlanes {
		if p == v.state.Plane {
			next := volume.ReformPlanes[(i+1)%len(volume.ReformPlanes)]
			v.state.WithPlane(v.vol, next)
			return
		}
	}
	v.state.WithPlane(v.vol, volume.ReformPlanes[0])
}

// exportSnapshot writes the current views as a PNG in the working
// directory.
func (v *Viewer) exportSnapshot() {
	size := v.settings.ExportSize
	if size <= 0 {
		size = 520
	}
	path := fmt.Sprintf("dicomview-%s.png", time.Now().Format("20060102-150405"))
	img := render.Snapshot(v.vol, v.state, size)
	if err := render.WritePNG(path, img); err != nil {
		v.status = errorStyle.Render(err.Error())
		return
	}
	v.status = fmt.Sprintf("saved %s", path)
}

// persistSettings saves the session's plane and window for next run.
func (v *Viewer) persistSettings() {
	if v.settingsPath == "" {
		return
	}
	v.settings.Plane = v.state.Plane.String()
	v.settings.WindowWidth = v.state.WindowWidth
	v.settings.WindowLevel = v.state.WindowLevel
	_ = SaveSettings(v.settings, v.settingsPath)
}

// View implements tea.Model.
func (v *Viewer) View() string {
	if v.err != nil {
		return errorStyle.Render(v.err.Error())
	}
	if v.width == 0 {
		return "loading..."
	}

	// Two views side by side; each cell column is one pixel wide and
	// two pixels tall. Leave room for the title, readouts and help.
	viewCols := (v.width - 6) / 2
	viewRows := v.height - 8
	if viewCols < 16 {
		viewCols = 16
	}
	if viewRows < 8 {
		viewRows = 8
	}

	axial := terminalView(v.vol, v.state, volume.PlaneAxial, v.state.AxialIndex, viewCols, viewRows)
	reform := terminalView(v.vol, v.state, v.state.Plane, v.state.ReformIndex, viewCols, viewRows)

	axialLabel, reformLabel, windowLabel := v.state.Readouts(v.vol)
	left := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Axial"),
		axial,
		readoutStyle.Render(axialLabel),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(v.state.Plane.String()),
		reform,
		readoutStyle.Render(reformLabel),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	sections := []string{
		titleStyle.Render("dicomview"),
		body,
		readoutStyle.Render(windowLabel),
	}
	if v.showMeta {
		sections = append(sections, panelStyle.Render(session.Summary(v.vol.Meta(), v.vol)))
	}
	if v.status != "" {
		sections = append(sections, labelStyle.Render(v.status))
	}
	sections = append(sections, helpStyle.Render(
		"↑/↓ axial  ←/→ reform  tab plane  w/s width  a/d level  1-4 presets  r/p reset  m info  e export  q quit",
	))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the interactive viewer in the alternate screen.
func Run(vol *volume.Volume, settings *Settings, settingsPath string) error {
	p := tea.NewProgram(New(vol, settings, settingsPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// AskSeriesDir prompts for a series directory when none was given on
// the command line.
func AskSeriesDir(initial string) (string, error) {
	dir := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("series_dir").
				Title("DICOM series directory").
				Description("Path to a directory of .dcm files").
				Value(&dir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("directory is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("reading series directory: %w", err)
	}
	return dir, nil
}
