// Package view renders a game.World with Ebiten and maps keyboard and mouse
// input onto it.
package view

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/cover-shooter/internal/ai"
	"github.com/Garsondee/cover-shooter/internal/game"
	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 16

// logPanelWidth is the width of the event panel right of the playfield.
const logPanelWidth = 420

// feedLines is how many recent events the panel keeps.
const feedLines = 40

// tracerTicks is how long a shot stays on screen.
const tracerTicks = 8

var (
	colBackground = color.RGBA{R: 20, G: 24, B: 20, A: 255}
	colField      = color.RGBA{R: 34, G: 44, B: 34, A: 255}
	colWall       = color.RGBA{R: 90, G: 86, B: 80, A: 255}
	colCover      = color.RGBA{R: 140, G: 110, B: 60, A: 255}
	colCoverHeld  = color.RGBA{R: 200, G: 160, B: 80, A: 255}
	colPlayer     = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	colTracer     = color.RGBA{R: 255, G: 230, B: 120, A: 220}
	colLookAhead  = color.RGBA{R: 120, G: 200, B: 120, A: 120}
	colPanel      = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	colText       = color.RGBA{R: 200, G: 210, B: 200, A: 255}
)

var kindColors = map[ai.Kind]color.RGBA{
	ai.KindStationary: {R: 200, G: 60, B: 60, A: 255},
	ai.KindPatrol:     {R: 220, G: 120, B: 40, A: 255},
	ai.KindChase:      {R: 230, G: 60, B: 160, A: 255},
	ai.KindTactical:   {R: 240, G: 70, B: 70, A: 255},
}

// Game implements ebiten.Game around a game.World.
type Game struct {
	cfgPath   string // empty when running on defaults
	levelPath string // empty when running the embedded level

	world   *game.World
	log     *simlog.Log
	feed    *simlog.Feed
	watcher *game.Watcher
	face    text.Face

	paused        bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool // for edge-triggered click detection
}

// New builds the demo. cfgPath and levelPath may be empty; when either is
// set its directory is watched and edits are applied live.
func New(cfgPath, levelPath string) (*Game, error) {
	g := &Game{
		cfgPath:   cfgPath,
		levelPath: levelPath,
		feed:      simlog.NewFeed(feedLines),
		face:      text.NewGoXFace(basicfont.Face7x13),
		prevKeys:  make(map[ebiten.Key]bool),
	}
	cfg, lvl, err := g.load()
	if err != nil {
		return nil, err
	}
	g.log = simlog.New(cfg.Sim.Verbose)
	g.log.Tee(g.feed)
	g.world = game.NewWorld(cfg, lvl, g.log)

	var watch []string
	if cfgPath != "" {
		watch = append(watch, cfgPath)
	}
	if levelPath != "" {
		watch = append(watch, levelPath)
	}
	if len(watch) > 0 {
		w, err := game.NewWatcher(watch...)
		if err != nil {
			return nil, fmt.Errorf("view: watch: %w", err)
		}
		g.watcher = w
	}
	return g, nil
}

func (g *Game) load() (game.Config, *game.Level, error) {
	cfg := game.DefaultConfig()
	if g.cfgPath != "" {
		c, err := game.LoadConfig(g.cfgPath)
		if err != nil {
			return game.Config{}, nil, err
		}
		cfg = c
	}
	if g.levelPath == "" {
		lvl, err := game.LoadEmbeddedLevel(game.DefaultLevelName)
		return cfg, lvl, err
	}
	lvl, err := game.LoadLevel(g.levelPath)
	return cfg, lvl, err
}

// Close stops the file watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

// TPS returns the tick rate the world was configured with.
func (g *Game) TPS() int { return g.world.Config().Sim.TPS }

// ScreenSize returns the window size needed for the current level.
func (g *Game) ScreenSize() (int, int) {
	w, h := g.world.Size()
	return borderWidth*2 + int(w) + logPanelWidth, borderWidth*2 + int(h)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.reloadIfChanged()
	g.handleInput()
	if !g.paused {
		g.world.Step()
	}
	return nil
}

func (g *Game) reloadIfChanged() {
	if g.watcher == nil {
		return
	}
	changed := g.watcher.Drain()
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("watch: %v", err)
		}
	default:
	}
	if len(changed) == 0 {
		return
	}
	cfg, lvl, err := g.load()
	if err != nil {
		log.Printf("reload: %v (keeping current world)", err)
		return
	}
	g.world = game.NewWorld(cfg, lvl, g.log)
	g.log.Add(simlog.Global, "world", "reload", filepath.Base(changed[len(changed)-1]), float64(len(changed)))
}

// handleInput processes keypresses (edge-triggered) and the mouse.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// P: pause/resume. F: force a grid rebuild.
	if pressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if pressed(ebiten.KeyF) {
		g.world.ForceRebuild()
		g.log.Add(simlog.Global, "world", "force_rebuild", "manual", 0)
	}

	// Player movement: WASD or arrow keys. Any key takes over from the route.
	var dir nav.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	if !dir.IsZero() || g.world.PlayerManual() {
		g.world.SetPlayerInput(dir)
	}

	// Left click removes the obstacle under the cursor.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			g.world.RemoveObstacleAt(nav.V(float64(mx-borderWidth), float64(my-borderWidth)))
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.prevKeys = currentKeys
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	w, h := g.world.Size()
	ox, oy := float32(borderWidth), float32(borderWidth)
	vector.FillRect(screen, ox, oy, float32(w), float32(h), colField, false)

	held := map[int]bool{}
	for _, e := range g.world.Enemies() {
		if cs := e.Behavior.Cover; cs != nil && cs.Cover != nil {
			held[cs.Cover.ID] = true
		}
	}
	for _, o := range g.world.Obstacles() {
		col := colWall
		if o.IsCover() {
			col = colCover
			if held[o.ID] {
				col = colCoverHeld
			}
		}
		vector.FillRect(screen, ox+float32(o.Rect.X), oy+float32(o.Rect.Y), float32(o.Rect.W), float32(o.Rect.H), col, false)
	}

	tick := g.world.Tick()
	shots := g.world.Shots()
	for i := len(shots) - 1; i >= 0 && tick-shots[i].Tick <= tracerTicks; i-- {
		s := shots[i]
		vector.StrokeLine(screen, ox+float32(s.From.X), oy+float32(s.From.Y), ox+float32(s.To.X), oy+float32(s.To.Y), 1.5, colTracer, true)
	}

	r := float32(g.world.Config().Sim.AgentRadius)
	avoid := g.world.Config().Avoidance
	for _, e := range g.world.Enemies() {
		p := e.Position()
		if v := e.Velocity(); !v.IsZero() {
			a := nav.LookAheadPoint(p, v, avoid)
			vector.StrokeLine(screen, ox+float32(p.X), oy+float32(p.Y), ox+float32(a.X), oy+float32(a.Y), 1, colLookAhead, true)
		}
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), r, kindColors[e.Behavior.Kind], true)
		g.drawText(screen, e.Label, float64(ox)+p.X+float64(r)+2, float64(oy)+p.Y-float64(r)-10, colText)
	}
	p := g.world.Player().Position()
	vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), r, colPlayer, true)

	g.drawPanel(screen, float64(ox)+w+borderWidth, h+2*borderWidth)
}

func (g *Game) drawPanel(screen *ebiten.Image, x, h float64) {
	vector.FillRect(screen, float32(x), 0, logPanelWidth, float32(h), colPanel, false)
	st := g.world.Nav().Stats()
	status := "running"
	if g.paused {
		status = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  tick %d  shots %d  [%s]", g.world.Level().Name, g.world.Tick(), len(g.world.Shots()), status),
		fmt.Sprintf("nav: searches %d  hit %.0f%%  no-path %d  rebuilds %d", st.Searches, st.HitRatio()*100, st.NoPath, st.Rebuilds),
		"WASD move  click remove  F rebuild  P pause",
		"",
	}
	const lineH = 14
	row := 0
	for _, l := range lines {
		g.drawText(screen, l, x+8, float64(8+row*lineH), colText)
		row++
	}
	// Newest events at the bottom; drop the oldest that do not fit.
	recent := g.feed.Recent()
	if fit := (int(h)-8)/lineH - row; fit < len(recent) {
		recent = recent[len(recent)-max(fit, 0):]
	}
	for _, e := range recent {
		g.drawText(screen, e.String(), x+8, float64(8+row*lineH), colText)
		row++
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, g.face, op)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenSize()
}
