package lander

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/rocket-lander/internal/core"
	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/physics"
)

// Rows reserved above the world view.
const hudRows = 2

// Glyphs.
const (
	groundChar   = '▀'
	seaChar      = '≈'
	waveChar     = '~'
	platformChar = '='
	terrainChar  = '#'
	asteroidChar = 'o'
	flameChar    = '*'
	fogChar      = '░'
)

// Render draws the world with the HUD on top.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		msg := "lander failed to start"
		if g.err != nil {
			msg = g.err.Error()
		}
		dst.DrawTextCenteredColor(dst.Height()/2, msg, core.ColorFailure)
		return
	}

	view := g.viewport(dst)
	g.drawBodies(dst, view)
	g.drawRocket(dst, view)
	g.drawHUD(dst)

	switch {
	case g.paused:
		drawMessage(dst, "PAUSED", "P to resume", core.ColorHUD)
	case g.snap.Phase == flight.Landed:
		sub := fmt.Sprintf("Score %d  |  N next level  R retry", g.snap.Score)
		if g.snap.CampaignComplete || g.notice != "" {
			sub = fmt.Sprintf("Score %d  |  Campaign complete!  R retry", g.snap.Score)
		}
		drawMessage(dst, "LANDED", sub, core.ColorSuccess)
	case g.snap.Phase == flight.Crashed:
		drawMessage(dst, "CRASHED: "+strings.ToUpper(g.snap.Reason.String()), "R to retry", core.ColorFailure)
	}
}

// viewport maps the world bounds onto the rows below the HUD.
func (g *Game) viewport(dst *core.Screen) core.Viewport {
	b := g.session.Bounds()
	return core.Viewport{
		MinX:   b.MinX,
		MaxX:   b.MaxX,
		MinY:   math.Max(b.MinY, -2),
		MaxY:   b.MaxY,
		Screen: core.NewRect(0, hudRows, dst.Width(), max(1, dst.Height()-hudRows)),
	}
}

// visible reports whether a body at x can be seen from the rocket. Low
// visibility hides hazards far from the rocket; the target stays visible.
func (g *Game) visible(info physics.BodyInfo) bool {
	v := g.snap.Visibility
	if v >= 1 || info.Tag.Kind == physics.KindTarget || info.Tag.Surface == physics.SurfaceGround || info.Tag.Surface == physics.SurfaceSea {
		return true
	}
	radius := 10 + 50*v
	return math.Abs(info.Position.X()-g.snap.Position.X()) <= radius+info.Shape.HalfWidth+info.Shape.Radius
}

func (g *Game) drawBodies(dst *core.Screen, view core.Viewport) {
	for _, info := range g.snap.Bodies {
		if info.Handle == g.snap.Rocket {
			continue
		}
		r, c := glyph(info.Tag)
		if !g.visible(info) {
			r, c = fogChar, core.ColorGray
		}
		if info.Shape.Radius > 0 {
			fillCircle(dst, view, info, r, c)
			continue
		}
		fillBox(dst, view, info, r, c)
	}
}

func glyph(tag physics.Tag) (rune, core.Color) {
	switch tag.Surface {
	case physics.SurfaceGround:
		return groundChar, core.ColorGround
	case physics.SurfaceSea:
		return seaChar, core.ColorSea
	case physics.SurfaceWaves:
		return waveChar, core.ColorWaves
	case physics.SurfaceAsteroid:
		return asteroidChar, core.ColorAsteroid
	case physics.SurfaceTerrain:
		return terrainChar, core.ColorHazard
	}
	if tag.Kind == physics.KindTarget {
		return platformChar, core.ColorTarget
	}
	return platformChar, core.ColorHazard
}

// fillBox fills every cell whose centre lies inside the (unrotated) box,
// or the single nearest cell for boxes smaller than a cell.
func fillBox(dst *core.Screen, view core.Viewport, info physics.BodyInfo, r rune, c core.Color) {
	x, y := info.Position.X(), info.Position.Y()
	hw, hh := info.Shape.HalfWidth, info.Shape.HalfHeight

	left, top := view.Project(x-hw, y+hh)
	right, bottom := view.Project(x+hw, y-hh)
	if right <= left {
		right = left + 1
	}
	if bottom < top {
		bottom = top
	}
	for row := top; row <= bottom; row++ {
		if row < view.Screen.Y {
			continue
		}
		dst.DrawHLine(left, row, right-left, r, c)
	}
}

func fillCircle(dst *core.Screen, view core.Viewport, info physics.BodyInfo, r rune, c core.Color) {
	x, y, rad := info.Position.X(), info.Position.Y(), info.Shape.Radius
	sx, sy := view.Scale()
	if sx == 0 || sy == 0 {
		return
	}
	left, top := view.Project(x-rad, y+rad)
	right, bottom := view.Project(x+rad, y-rad)
	cx, cy := view.Project(x, y)
	drawn := false
	for row := top; row <= bottom; row++ {
		for col := left; col <= right; col++ {
			dx := float64(col-cx) / sx
			dy := float64(row-cy) / sy
			if dx*dx+dy*dy <= rad*rad && row >= view.Screen.Y {
				dst.SetColor(col, row, r, c)
				drawn = true
			}
		}
	}
	if !drawn {
		dst.SetColor(cx, cy, r, c)
	}
}

// rocketGlyph picks a character for the rocket's heading.
func rocketGlyph(angle float64) rune {
	a := math.Mod(angle, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	deg := a * 180 / math.Pi
	switch {
	case deg > 120 || deg < -120:
		return 'v'
	case deg > 60:
		return '<'
	case deg < -60:
		return '>'
	case deg > 15:
		return '\\'
	case deg < -15:
		return '/'
	}
	return '^'
}

func (g *Game) drawRocket(dst *core.Screen, view core.Viewport) {
	p := g.snap.Position
	col, row := view.Project(p.X(), p.Y())
	row = max(row, view.Screen.Y)

	color := core.ColorRocket
	switch g.snap.Phase {
	case flight.Crashed:
		color = core.ColorFailure
	case flight.Landed:
		color = core.ColorSuccess
	}
	dst.SetColor(col, row, rocketGlyph(g.snap.Angle), color)

	if g.thrusting {
		// Exhaust trails opposite the local up axis.
		down := g.snap.Orientation.Rotate(mgl64.Vec3{0, -1, 0})
		fx, fy := view.Project(p.X()+down.X()*2.5, p.Y()+down.Y()*2.5)
		if fx == col && fy == row {
			fy++
		}
		dst.SetColor(fx, fy, flameChar, core.ColorFlame)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.snap
	title := fmt.Sprintf(" %s %d", strings.ToUpper(string(s.Level.World)), s.Level.Level)
	if s.Name != "" {
		title += " · " + s.Name
	}
	dst.DrawTextColor(0, 0, title, core.ColorHUD)

	fuelColor := core.ColorHUD
	if s.Fuel < 20 {
		fuelColor = core.ColorWarning
	}
	fuel := fmt.Sprintf("FUEL %s %3.0f", bar(s.Fuel, 100, 10), s.Fuel)
	x := max(len([]rune(title))+2, 30)
	dst.DrawTextColor(x, 0, fuel, fuelColor)

	th := g.session.Thresholds()
	speedColor := core.ColorHUD
	if math.Abs(s.Velocity.Y()) > th.SafeVerticalSpeed {
		speedColor = core.ColorWarning
	}
	tiltColor := core.ColorHUD
	if s.TiltDegrees > th.SafeTiltDegrees {
		tiltColor = core.ColorWarning
	}

	col := 1
	for _, part := range []struct {
		text  string
		color core.Color
	}{
		{fmt.Sprintf("ALT %5.1f", s.Position.Y()), core.ColorHUD},
		{fmt.Sprintf("VY %+5.1f", s.Velocity.Y()), speedColor},
		{fmt.Sprintf("VX %+5.1f", s.Velocity.X()), core.ColorHUD},
		{fmt.Sprintf("TILT %3.0f°", s.TiltDegrees), tiltColor},
		{"WIND " + windArrow(s.Wind.X()), core.ColorHUD},
		{fmt.Sprintf("SCORE %d", g.total), core.ColorHUD},
	} {
		dst.DrawTextColor(col, 1, part.text, part.color)
		col += len([]rune(part.text)) + 2
	}

	hint := ""
	switch s.Phase {
	case flight.Waiting:
		hint = "ENTER ready  SPACE thrust  A/D tilt"
	case flight.PreLaunch:
		hint = "thrust or tilt to launch"
	}
	if g.notice != "" {
		hint = g.notice
	}
	if hint != "" {
		dst.DrawTextColor(max(0, dst.Width()-len([]rune(hint))-1), 0, hint, core.ColorGray)
	}
}

func bar(v, full float64, width int) string {
	n := int(math.Round(v / full * float64(width)))
	n = core.Clamp(n, 0, width)
	return "[" + strings.Repeat("▮", n) + strings.Repeat("·", width-n) + "]"
}

func windArrow(x float64) string {
	switch {
	case x > 0.05:
		return fmt.Sprintf("→%.1f", x)
	case x < -0.05:
		return fmt.Sprintf("←%.1f", -x)
	}
	return "calm"
}

// drawMessage draws a framed two-line message in the middle of the screen.
func drawMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	w := max(len([]rune(title)), len([]rune(subtitle))) + 4
	h := 5
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	dst.DrawTextColor(box.X+(w-len([]rune(title)))/2, box.Y+1, title, c)
	dst.DrawTextColor(box.X+(w-len([]rune(subtitle)))/2, box.Y+3, subtitle, core.ColorDefault)
}
