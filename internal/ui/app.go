package ui

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/golang/geo/s2"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/frame"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/mapview"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/pointer"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

const maxLogLines = 200

// Options configure the viewer.
type Options struct {
	Config     gesture.Config
	ConfigPath string // where "save" writes the tunables; empty disables saving
	Center     s2.LatLng
	Zoom       float64
	DarkMode   bool
}

type loadResult struct {
	path string
	cfg  gesture.Config
	err  error
}

// App is the map viewer window. Everything except the file picker runs on
// the window's event goroutine.
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme  *theme.Theme
	darkMode bool

	cfg        gesture.Config
	configPath string

	view      *mapview.View
	sched     *frame.Gio
	handler   *gesture.Handler
	mux       *pointer.Multiplexer
	input     *pointer.Gio
	indicator *rotationIndicator

	captureIcon *widget.Icon
	blockedIcon *widget.Icon
	resetIcon   *widget.Icon
	loadIcon    *widget.Icon
	saveIcon    *widget.Icon

	captureBtn widget.Clickable
	resetBtn   widget.Clickable
	loadBtn    widget.Clickable
	saveBtn    widget.Clickable
	modeBtn    widget.Clickable

	modes    []rotation.Mode
	modeMenu *menu.DropdownMenu

	explorer *explorer.Explorer
	loaded   chan loadResult

	logs    []string
	logList widget.List
}

// New creates the viewer. A nil window gets a fresh one.
func New(w *app.Window, opts Options) *App {
	if w == nil {
		w = new(app.Window)
	}
	w.Option(app.Title("OpenTraceMap"), app.Size(unit.Dp(1100), unit.Dp(760)))

	zoom := opts.Zoom
	if zoom == 0 {
		zoom = 3
	}
	a := &App{
		window:     w,
		gvTheme:    theme.NewTheme("", nil, true),
		darkMode:   opts.DarkMode,
		configPath: opts.ConfigPath,
		sched:      frame.NewGio(),
		indicator:  &rotationIndicator{},
		modes:      []rotation.Mode{rotation.ModeEdge, rotation.ModeGear},
		loaded:     make(chan loadResult, 1),
	}
	a.view = mapview.NewView(opts.Center, zoom, opts.Config.MinZoom, opts.Config.MaxZoom, emptyViewport)
	a.wire(opts.Config)

	if icon, err := widget.NewIcon(icons.ActionPanTool); err == nil {
		a.captureIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentBlock); err == nil {
		a.blockedIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionRestore); err == nil {
		a.resetIcon = icon
	}
	if icon, err := widget.NewIcon(icons.FileFolderOpen); err == nil {
		a.loadIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentSave); err == nil {
		a.saveIcon = icon
	}
	a.modeMenu = a.buildModeMenu()
	a.explorer = explorer.NewExplorer(w)
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true

	a.applyPalette()
	a.Logf("[BOOT] %s", a.view)
	a.Logf("[INFO] Drag to pan, circle to zoom, hold near the side edges to rotate")
	return a
}

// wire builds the gesture stack for cfg. Any session in flight is dropped.
func (a *App) wire(cfg gesture.Config) {
	enabled := true
	if a.handler != nil {
		a.handler.Reset()
		enabled = a.mux.Enabled()
	}
	a.cfg = cfg
	a.view.SetZoomRange(cfg.MinZoom, cfg.MaxZoom)
	a.handler = gesture.NewHandler(cfg, a.view, a.sched, gesture.WithFeedback(a.indicator))
	a.mux = pointer.NewMultiplexer(a.handler)
	a.mux.SetViewport(a.view.Viewport())
	a.mux.SetEnabled(enabled)
	a.input = pointer.NewGio(a.mux)
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	for {
		e := a.window.Event()
		a.explorer.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.drainLoaded()

	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutMap),
		layout.Rigid(a.layoutLogPane),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	if a.captureBtn.Clicked(gtx) {
		a.mux.SetEnabled(!a.mux.Enabled())
		a.Logf("[POINTER] capture %v", onOff(a.mux.Enabled()))
	}
	if a.resetBtn.Clicked(gtx) {
		a.handler.Reset()
		a.view.SetRotation(0)
		a.Logf("[VIEW] reset rotation: %s", a.view)
	}
	if a.loadBtn.Clicked(gtx) {
		a.openConfigPicker()
	}
	if a.saveBtn.Clicked(gtx) {
		a.saveConfig()
	}
	if a.modeMenu != nil && a.modeBtn.Clicked(gtx) {
		a.modeMenu.ToggleVisibility(gtx)
	}

	th := a.gvTheme.Theme
	captureIcon, captureDesc := a.captureIcon, "Disable gestures"
	if !a.mux.Enabled() {
		captureIcon, captureDesc = a.blockedIcon, "Enable gestures"
	}

	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(a.iconButton(&a.captureBtn, captureIcon, captureDesc)),
			layout.Rigid(a.iconButton(&a.resetBtn, a.resetIcon, "Reset rotation")),
			layout.Rigid(a.iconButton(&a.loadBtn, a.loadIcon, "Load tunables")),
			layout.Rigid(a.iconButton(&a.saveBtn, a.saveIcon, "Save tunables")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := "Rotation: " + a.cfg.Rotation.Mode.String()
				dims := material.Button(th, &a.modeBtn, label).Layout(gtx)
				if a.modeMenu != nil {
					a.modeMenu.Layout(gtx, a.gvTheme)
				}
				return dims
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
			layout.Flexed(1, material.Body2(th, a.view.String()).Layout),
		)
	})
}

func (a *App) iconButton(btn *widget.Clickable, icon *widget.Icon, desc string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		if icon == nil {
			return material.Button(a.gvTheme.Theme, btn, desc).Layout(gtx)
		}
		b := material.IconButton(a.gvTheme.Theme, btn, icon, desc)
		b.Size = unit.Dp(20)
		b.Inset = layout.UniformInset(unit.Dp(6))
		return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, b.Layout)
	}
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	gtx.Constraints.Max.Y = gtx.Dp(unit.Dp(120))
	gtx.Constraints.Min.Y = gtx.Constraints.Max.Y
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return material.List(a.gvTheme.Theme, &a.logList).Layout(gtx, len(a.logs), func(gtx layout.Context, i int) layout.Dimensions {
			return material.Caption(a.gvTheme.Theme, a.logs[i]).Layout(gtx)
		})
	})
}

func (a *App) buildModeMenu() *menu.DropdownMenu {
	opts := make([]menu.MenuOption, 0, len(a.modes))
	for _, m := range a.modes {
		mode := m
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.setRotationMode(mode)
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, mode.String())
				if mode == a.cfg.Rotation.Mode {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(160)
	return drop
}

func (a *App) setRotationMode(m rotation.Mode) {
	if m == a.cfg.Rotation.Mode {
		return
	}
	a.cfg.Rotation.Mode = m
	a.handler.SetRotationMode(m)
	a.Logf("[ROTATION] mode %s", m)
	a.invalidate()
}

func (a *App) openConfigPicker() {
	go func() {
		file, err := a.explorer.ChooseFile("json")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.loaded <- loadResult{err: fmt.Errorf("file picker: %w", err)}
				a.invalidate()
			}
			return
		}
		defer file.Close()

		f, ok := file.(*os.File)
		if !ok {
			a.loaded <- loadResult{err: fmt.Errorf("file picker returned no path")}
			a.invalidate()
			return
		}
		cfg, err := gesture.LoadConfig(f.Name())
		a.loaded <- loadResult{path: f.Name(), cfg: cfg, err: err}
		a.invalidate()
	}()
}

func (a *App) drainLoaded() {
	for {
		select {
		case res := <-a.loaded:
			if res.err != nil {
				a.Logf("[ERROR] %v", res.err)
				continue
			}
			a.wire(res.cfg)
			a.Logf("[CONFIG] loaded %s (metric %s, rotation %s)", res.path, res.cfg.Metric, res.cfg.Rotation.Mode)
		default:
			return
		}
	}
}

func (a *App) saveConfig() {
	if a.configPath == "" {
		a.Logf("[ERROR] no config path to save to")
		return
	}
	if err := gesture.SaveConfig(a.configPath, a.cfg); err != nil {
		a.Logf("[ERROR] %v", err)
		return
	}
	a.Logf("[CONFIG] saved %s", a.configPath)
}

func (a *App) applyPalette() {
	if a.gvTheme == nil {
		return
	}
	if a.darkMode {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
	} else {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
	}
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}

// Logf appends a timestamped line to the log pane.
func (a *App) Logf(format string, args ...any) {
	prefix := time.Now().Format(time.StampMilli)
	a.logs = append(a.logs, fmt.Sprintf("[%s] %s", prefix, fmt.Sprintf(format, args...)))
	if n := len(a.logs); n > maxLogLines {
		a.logs = append(a.logs[:0], a.logs[n-maxLogLines:]...)
	}
	a.invalidate()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func joinLines(lines []string) string { return strings.Join(lines, "\n") }
