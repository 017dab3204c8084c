package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"treasuregate/internal/board"
)

const (
	appTitle   = "Treasure Gate"
	wrongLine  = "Arr! That be the wrong password!"
	unlockText = "Unlock the Gate"
	againText  = "Sail Again"
	quitText   = "Quit"
)

type applyMsg struct {
	fn func(*Root)
}

type clockMsg time.Time
type animateMsg time.Time

type gameKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Again  key.Binding
	Stats  key.Binding
	Quit   key.Binding
}

func (k gameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Again, k.Stats, k.Quit}
}

func (k gameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// hitRegion is a clickable span on one screen row, recorded while rendering.
type hitRegion struct {
	action string
	y      int
	x0, x1 int
}

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool
	calls   callQueue

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	gate        GateState
	puzzle      PuzzleState
	success     SuccessState
	statusFlash string

	infoTitle string
	infoText  string
	infoOpen  bool

	password textinput.Model
	drag     dragSession
	board    boardLayout
	boardOK  bool
	tiles    *tileRenderer
	hits     []hitRegion

	help     help.Model
	keymap   gameKeyMap
	progress progress.Model
	sparkle  spinner.Model
	markdown *glamour.TermRenderer
	logger   *clog.Logger
	shakePos float64
	shakeVel float64
	shakeAmp float64
	spring   harmonica.Spring

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "treasuregate-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(60),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)

	spring := harmonica.NewSpring(harmonica.FPS(60), 18.0, 0.25)
	shakeAmp := 4.0
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 14.0, 0.6)
		shakeAmp = 2.0
	case "off":
		shakeAmp = 0
	}

	bar := progress.New(
		progress.WithWidth(20),
		progress.WithColors(theme.BarColors...),
		progress.WithScaled(true),
	)
	if motionLevel == "off" {
		bar.SetSpringOptions(1000.0, 1.0)
	}

	frames := []string{"✦", "✧", "✶", "✷", "✸", "✷", "✶", "✧"}
	if opts.ASCIIOnly {
		frames = []string{"*", "+", "x", "+"}
	}
	sparkle := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: frames, FPS: time.Second / 8}),
		spinner.WithStyle(theme.Accent),
	)

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "Enter the secret password..."
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.SetWidth(32)
	password.Focus()

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		screen:       ScreenGate,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		password:     password,
		tiles:        newTileRenderer(opts.ASCIIOnly, theme),
		help:         h,
		progress:     bar,
		sparkle:      sparkle,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
		shakeAmp:     shakeAmp,
	}
	r.drag.Cancel()
	r.keymap = gameKeyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Unlock")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Drop tile")),
		Again:  key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("Enter/r", againText)),
		Stats:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "Stats")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("Ctrl+Q", quitText)),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(r.password.Focus(), clockTickCmd(), spinnerTickCmd(r.sparkle))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.drag.Cancel()
		r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		return r, nil
	case applyMsg:
		wasShowing := r.gate.ShowError
		if msg.fn != nil {
			msg.fn(r)
		}
		if !wasShowing && r.gate.ShowError {
			return r, r.startShake()
		}
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		r.shakePos, r.shakeVel = r.spring.Update(r.shakePos, r.shakeVel, 0)
		if r.shouldAnimate() {
			return r, animateTickCmd()
		}
		r.shakePos = 0
		r.shakeVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.sparkle, cmd = r.sparkle.Update(msg)
		return r, cmd
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		return r.handleMouseMotion(msg)
	case tea.MouseReleaseMsg:
		return r.handleMouseRelease(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	if r.screen == ScreenGate && !r.infoOpen {
		var cmd tea.Cmd
		r.password, cmd = r.password.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	v := tea.NewView(r.render())
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	return v
}

// render draws the current screen and records its click targets.
func (r *Root) render() string {
	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}
	r.hits = r.hits[:0]
	r.boardOK = false
	r.layout = DetermineLayoutMode(r.cols, r.rows)

	var base string
	switch {
	case r.layout == LayoutTooSmall:
		base = r.renderTooSmall()
	case r.screen == ScreenPuzzle:
		base = r.renderPuzzle()
	case r.screen == ScreenSuccess:
		base = r.renderSuccess()
	default:
		base = r.renderGate()
	}

	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	return base
}

// Run blocks until the program quits or ctx is cancelled. Cancellation is a
// clean exit.
func (r *Root) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r, tea.WithContext(ctx))
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		if m.screen == screen {
			return
		}
		m.screen = screen
		m.drag.Cancel()
		m.statusFlash = ""
		if screen == ScreenGate {
			m.password.Focus()
		} else {
			m.password.Blur()
			m.password.Reset()
		}
	})
}

func (r *Root) SetGateState(s GateState) {
	r.apply(func(m *Root) {
		m.gate = s
		m.password.Placeholder = firstNonEmptyStr(s.Placeholder, "Enter the secret password...")
	})
}

func (r *Root) SetPuzzleState(s PuzzleState) {
	s.Tiles = append([]int(nil), s.Tiles...)
	r.apply(func(m *Root) {
		if s.Round != m.puzzle.Round || s.Locked {
			m.drag.Cancel()
		}
		m.puzzle = s
	})
}

func (r *Root) SetSuccessState(s SuccessState) {
	r.apply(func(m *Root) {
		m.success = s
	})
}

func (r *Root) SetInfo(title, text string, open bool) {
	r.apply(func(m *Root) {
		m.infoTitle = title
		m.infoText = text
		m.infoOpen = open
		if open {
			m.drag.Cancel()
		}
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	r.calls.push(func() { fn(ctrl) })
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if r.infoOpen {
		switch msg.Code {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyF3, 'q':
			r.closeInfo()
		}
		return r, nil
	}

	if key.Matches(msg, r.keymap.Stats) {
		r.drag.Cancel()
		r.dispatchController(func(c Controller) { c.OnOpenStats() })
		return r, nil
	}

	switch r.screen {
	case ScreenPuzzle:
		if key.Matches(msg, r.keymap.Cancel) {
			r.drag.Cancel()
		}
		return r, nil
	case ScreenSuccess:
		return r.handleSuccessKey(msg)
	default:
		return r.handleGateKey(msg)
	}
}

func (r *Root) handleGateKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, r.keymap.Submit) {
		r.submitPassword()
		return r, nil
	}
	var cmd tea.Cmd
	r.password, cmd = r.password.Update(msg)
	return r, cmd
}

func (r *Root) handleSuccessKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keymap.Again):
		r.playAgain()
	case msg.Code == tea.KeyEsc || msg.Code == 'q':
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
	return r, nil
}

func (r *Root) submitPassword() {
	candidate := r.password.Value()
	r.dispatchController(func(c Controller) { c.OnSubmitPassword(candidate) })
}

func (r *Root) playAgain() {
	if !r.success.CanReplay {
		return
	}
	r.dispatchController(func(c Controller) { c.OnPlayAgain() })
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if mouse.Button != tea.MouseLeft {
		return r, nil
	}
	if r.infoOpen {
		r.closeInfo()
		return r, nil
	}
	if action := r.hitAt(mouse.X, mouse.Y); action != "" {
		r.activate(action)
		return r, nil
	}
	if r.screen == ScreenPuzzle && r.boardOK && !r.puzzle.Locked {
		r.drag.Begin(r.board.cellAt(mouse.X, mouse.Y))
	}
	return r, nil
}

func (r *Root) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if r.screen != ScreenPuzzle || !r.boardOK {
		return r, nil
	}
	r.drag.Hover(r.board.cellAt(mouse.X, mouse.Y))
	return r, nil
}

func (r *Root) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_release:%d,%d", mouse.X, mouse.Y))

	if r.screen != ScreenPuzzle || !r.boardOK {
		r.drag.Cancel()
		return r, nil
	}
	from, to, ok := r.drag.Drop(r.board.cellAt(mouse.X, mouse.Y))
	if !ok || r.puzzle.Locked {
		return r, nil
	}
	r.dispatchController(func(c Controller) { c.OnSwap(from, to) })
	return r, nil
}

func (r *Root) hitAt(x, y int) string {
	for _, h := range r.hits {
		if y == h.y && x >= h.x0 && x < h.x1 {
			return h.action
		}
	}
	return ""
}

func (r *Root) activate(action string) {
	switch action {
	case "unlock":
		r.submitPassword()
	case "again":
		r.playAgain()
	case "quit":
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
}

func (r *Root) closeInfo() {
	r.infoOpen = false
	r.infoTitle = ""
	r.infoText = ""
}

func (r *Root) renderTooSmall() string {
	msg := []string{
		"Terminal too small",
		fmt.Sprintf("Current: %dx%d", r.cols, r.rows),
		fmt.Sprintf("Minimum: %dx%d", minCols, minRows),
		"Resize the terminal to continue.",
	}
	panel := r.drawPanel("Resize Required", msg, min(40, r.cols), min(8, r.rows))
	return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, panel)
}

func (r *Root) renderGate() string {
	s := newScreenBuf(r.cols, r.rows)
	s.set(0, r.headerText("The Gate"))

	y := 2
	s.center(y, r.theme.Title.Render(firstNonEmptyStr(r.gate.Title, appTitle)))
	y += 2
	for _, line := range r.renderMarkdown(r.gate.PromptMD) {
		if y >= r.rows-8 {
			break
		}
		s.center(y, line)
		y++
	}
	y++

	s.center(y, r.theme.Input.Render(r.password.View()))
	y += 2

	button := r.theme.Button.Render(unlockText)
	x := s.center(y, button)
	r.hits = append(r.hits, hitRegion{action: "unlock", y: y, x0: x, x1: x + lipgloss.Width(button)})
	y += 2

	if r.gate.ShowError {
		offset := int(math.Round(r.shakePos * r.shakeAmp))
		s.centerShift(y, r.theme.Fail.Render(wrongLine), offset)
	}
	y += 2

	for _, line := range r.renderMarkdown(r.gate.HintMD) {
		if y >= r.rows-1 {
			break
		}
		s.center(y, r.theme.Muted.Render(line))
		y++
	}

	s.set(r.rows-1, r.statusText())
	return s.String()
}

func (r *Root) renderPuzzle() string {
	s := newScreenBuf(r.cols, r.rows)
	s.set(0, r.headerText(r.puzzleHeader()))
	s.center(2, r.theme.Title.Render(firstNonEmptyStr(r.puzzle.Title, appTitle)))
	if r.puzzle.Subtitle != "" {
		s.center(3, r.theme.Subtitle.Render(r.puzzle.Subtitle))
	}

	r.board, r.boardOK = computeBoardLayout(r.puzzle.Size, r.cols, r.rows)
	if !r.boardOK || len(r.puzzle.Tiles) != r.puzzle.Size*r.puzzle.Size {
		r.boardOK = false
		s.center(boardTop+1, r.theme.Muted.Render("The map will not fit. Widen the terminal."))
		s.set(r.rows-1, r.statusText())
		return s.String()
	}

	r.tiles.prepare(r.puzzle.Art, board.Geometry{Size: r.puzzle.Size, BoardPx: r.board.boardPx()})
	for pos, id := range r.puzzle.Tiles {
		mode := tileNormal
		switch {
		case r.drag.Dragging(pos):
			mode = tileDragged
		case r.drag.Hovering(pos):
			mode = tileHover
		}
		x, y := r.board.cellOrigin(pos)
		for i, line := range r.tiles.lines(id, mode, r.board.tileCols, r.board.tileRows) {
			s.put(y+i, x, line, r.board.tileCols)
		}
	}

	below := r.board.originY + r.board.height() + 1
	if below < r.rows-1 {
		total := max(1, len(r.puzzle.Tiles))
		label := fmt.Sprintf(" %d/%d in place", r.puzzle.InPlace, total)
		bar := r.progressBar(min(40, max(8, r.cols-lipgloss.Width(label)-8)))
		s.center(below, bar+r.theme.Muted.Render(label))
	}
	if r.puzzle.Locked && below+1 < r.rows-1 {
		s.center(below+1, r.theme.Pass.Render("The last piece falls into place..."))
	}
	s.set(r.rows-1, r.statusText())
	return s.String()
}

func (r *Root) renderSuccess() string {
	s := newScreenBuf(r.cols, r.rows)
	s.set(0, r.headerText("Treasure Found"))

	spark := strings.TrimSpace(r.sparkle.View())
	y := 2
	s.center(y, spark+" "+r.theme.Title.Render(firstNonEmptyStr(r.success.Title, "Solved!"))+" "+spark)
	y += 2
	for _, line := range r.renderMarkdown(r.success.BodyMD) {
		if y >= r.rows-10 {
			break
		}
		s.center(y, line)
		y++
	}
	y++

	rows := []BreakdownRow{
		{Label: "Moves", Value: fmt.Sprintf("%d", r.success.Moves)},
		{Label: "Time", Value: formatElapsed(r.success.Elapsed)},
	}
	rows = append(rows, r.success.Breakdown...)
	rows = append(rows, BreakdownRow{Label: "Score", Value: fmt.Sprintf("%d", r.success.Score)})
	labelW := 0
	for _, row := range rows {
		labelW = max(labelW, len([]rune(row.Label)))
	}
	for _, row := range rows {
		if y >= r.rows-4 {
			break
		}
		s.center(y, r.theme.Muted.Render(padRune(row.Label, labelW)+"  ")+r.theme.PanelBody.Render(padRune(row.Value, 10)))
		y++
	}
	y++

	if y < r.rows-1 {
		var buttons []string
		var actions []string
		if r.success.CanReplay {
			buttons = append(buttons, r.theme.Button.Render(againText))
			actions = append(actions, "again")
		}
		buttons = append(buttons, r.theme.Button.Render(quitText))
		actions = append(actions, "quit")
		line := strings.Join(buttons, "   ")
		x := s.center(y, line)
		for i, b := range buttons {
			w := lipgloss.Width(b)
			r.hits = append(r.hits, hitRegion{action: actions[i], y: y, x0: x, x1: x + w})
			x += w + 3
		}
	}

	s.set(r.rows-1, r.statusText())
	return s.String()
}

func (r *Root) renderOverlay() string {
	if !r.infoOpen {
		return ""
	}
	style := r.theme.Overlay
	if r.ascii {
		style = style.BorderStyle(lipgloss.ASCIIBorder())
	}
	frameW, frameH := style.GetFrameSize()
	innerW := max(8, min(max(48, r.cols-20), r.cols)-frameW)
	maxLines := max(3, r.rows-frameH-2)

	body := strings.Split(strings.TrimSuffix(r.infoText, "\n"), "\n")
	lines := make([]string, 0, len(body)+4)
	lines = append(lines, r.theme.OverlayTitle.Render(trimForWidth(firstNonEmptyStr(r.infoTitle, "Info"), innerW)), "")
	for _, line := range body {
		lines = append(lines, trimForWidth(line, innerW))
	}
	footer := r.theme.Muted.Render(trimForWidth("Esc/Enter: Close", innerW))
	if len(lines)+2 > maxLines {
		lines = lines[:maxLines-1]
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, footer)
	return style.Render(strings.Join(lines, "\n"))
}

func (r *Root) renderMarkdown(md string) []string {
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	out := md
	if r.markdown != nil && !r.ascii {
		if rendered, err := r.markdown.Render(md); err == nil {
			out = rendered
		}
	}
	lines := strings.Split(out, "\n")
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[0])) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (r *Root) puzzleHeader() string {
	elapsed := time.Duration(0)
	if !r.puzzle.StartedAt.IsZero() {
		elapsed = time.Since(r.puzzle.StartedAt)
	}
	return fmt.Sprintf("Moves: %d | %s", r.puzzle.Moves, formatElapsed(elapsed))
}

func (r *Root) headerText(section string) string {
	width := max(1, r.cols-1)
	txt := appTitle + " | " + section
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
	}
	txt = trimForWidth(txt, width)
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) statusText() string {
	bindings := []key.Binding{r.keymap.Stats, r.keymap.Quit}
	switch r.screen {
	case ScreenGate:
		bindings = append([]key.Binding{r.keymap.Submit}, bindings...)
	case ScreenPuzzle:
		bindings = append([]key.Binding{r.keymap.Cancel}, bindings...)
	case ScreenSuccess:
		if r.success.CanReplay {
			bindings = append([]key.Binding{r.keymap.Again}, bindings...)
		}
	}
	keys := r.help.ShortHelpView(bindings)
	if keys == "" {
		keys = "F3 Stats  Ctrl+Q Quit"
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) progressBar(width int) string {
	total := len(r.puzzle.Tiles)
	if total == 0 {
		return ""
	}
	p := r.progress
	p.SetWidth(max(8, width))
	return p.ViewAs(float64(r.puzzle.InPlace) / float64(total))
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "╭"
	tr := "╮"
	bl := "╰"
	br := "╯"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) startShake() tea.Cmd {
	if r.shakeAmp == 0 {
		return nil
	}
	r.shakePos = 1
	r.shakeVel = 0
	return animateTickCmd()
}

func (r *Root) shouldAnimate() bool {
	if r.motionLevel == "off" || !r.gate.ShowError {
		return false
	}
	return math.Abs(r.shakePos) > 0.01 || math.Abs(r.shakeVel) > 0.01
}

func (r *Root) currentMouseMode() tea.MouseMode {
	if r.layout == LayoutTooSmall {
		return tea.MouseModeNone
	}
	return tea.MouseModeCellMotion
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"screen", r.screen.String(),
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		ow = max(ow, len([]rune(line)))
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "black_pearl", "parchment", "retro_terminal":
		return strings.TrimSpace(v)
	default:
		return "black_pearl"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
