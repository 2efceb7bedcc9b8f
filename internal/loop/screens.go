package loop

import (
	"math"

	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

const (
	hudMargin       = 20
	shipIconScale   = 0.5
	topScoresShown  = 5
	titleText       = "ALIEN INVASION"
	gameOverText    = "GAME OVER"
	getReadyText    = "Get ready"
	playHintText    = "Enter or click Play to start, Esc to quit"
	topScoresHeader = "Top scores"
)

// render draws the whole frame and presents it.
func (g *Game) render() error {
	s := g.surface
	s.DrawBackground(g.background.Offset)

	if !object.Active(g.effects, object.SpriteShipExplosion) {
		s.DrawSprite(object.SpriteShip, g.ship.Rect())
	}
	for _, a := range g.fleet.Aliens {
		s.DrawSprite(object.SpriteAlien, a.Rect())
	}
	for _, e := range g.effects {
		s.DrawSprite(e.Sprite, e.Rect())
	}
	for _, b := range g.bullets {
		s.DrawRect(b.Rect())
	}
	g.drawScoreboard()

	switch g.state {
	case StateInactive:
		g.drawPlayScreen()
	case StatePaused:
		_, h := s.Size()
		g.drawCentered(h/2, getReadyText)
	}

	return s.Present()
}

// drawScoreboard shows the score top right, the high score top center,
// the level under the score and the ships in reserve top left.
func (g *Game) drawScoreboard() {
	w, _ := g.surface.Size()

	// Scores are shown rounded to the nearest ten.
	rounded := int(math.Round(float64(g.stats.Score)/10)) * 10
	score := g.printer.Sprintf("Score %d", rounded)
	sw, sh := g.surface.MeasureText(score)
	g.surface.DrawText(w-sw-hudMargin, hudMargin, score)

	level := g.printer.Sprintf("Level %d", g.stats.Level)
	lw, _ := g.surface.MeasureText(level)
	g.surface.DrawText(w-lw-hudMargin, hudMargin+sh*1.5, level)

	high := int(math.Round(float64(g.stats.HighScore)/10)) * 10
	g.drawCentered(hudMargin, g.printer.Sprintf("High %d", high))

	iconW := g.ship.Width * shipIconScale
	iconH := g.ship.Height * shipIconScale
	for i := 0; i < g.stats.ShipsLeft; i++ {
		r := physics.Rect{X: 10 + float64(i)*(iconW+10), Y: 10, W: iconW, H: iconH}
		g.surface.DrawSprite(object.SpriteShip, r)
	}
}

// drawPlayScreen draws the Play button with the title above it and the
// best scores below.
func (g *Game) drawPlayScreen() {
	g.surface.DrawButton(g.playButton)

	btn := g.playButton.Rect()
	_, lineH := g.surface.MeasureText(titleText)

	if g.stats.Score > 0 || g.stats.ShipsLeft == 0 {
		g.drawCentered(btn.Top()-lineH*4, gameOverText)
	}
	g.drawCentered(btn.Top()-lineH*2, titleText)
	g.drawCentered(btn.Bottom()+lineH, playHintText)

	if g.board == nil {
		return
	}
	top := g.board.Top()
	if len(top) == 0 {
		return
	}
	y := btn.Bottom() + lineH*3
	g.drawCentered(y, topScoresHeader)
	for i, e := range top[:min(len(top), topScoresShown)] {
		y += lineH
		g.drawCentered(y, g.printer.Sprintf("%d. %-12s %8d", i+1, e.Name, e.Score))
	}
}

func (g *Game) drawCentered(y float64, text string) {
	w, _ := g.surface.Size()
	tw, _ := g.surface.MeasureText(text)
	g.surface.DrawText((w-tw)/2, y, text)
}
