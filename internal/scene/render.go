package scene

import (
	"math"
	"time"

	"github.com/tomz197/botbolt/internal/draw"
	"github.com/tomz197/botbolt/internal/session"
)

// Player idle animation: a vertical bob of BobAmplitude over BobPeriod.
const (
	BobAmplitude = 8.0
	BobPeriod    = 400 * time.Millisecond
)

// Draw renders bodies and particles. The canvas logical size should match the
// world bounds; y is flipped because the canvas grows downward.
func (w *World) Draw(c *draw.Canvas) {
	for _, b := range w.order {
		if b.removed {
			continue
		}
		switch b.category {
		case session.CategoryEnemy:
			w.drawEnemy(c, b.pos)
		case session.CategoryProjectile:
			w.drawBolt(c, b.pos)
		case session.CategoryPlayer:
			w.drawPlayer(c, b.pos)
		}
	}

	for _, p := range w.particles {
		if p.Visible() {
			c.SetFloat(p.X, w.flip(p.Y))
		}
	}
}

// Bob returns the current vertical offset of the player sprite.
func (w *World) Bob() float64 {
	phase := float64(w.clock%BobPeriod) / float64(BobPeriod)
	return BobAmplitude * math.Sin(2*math.Pi*phase)
}

func (w *World) flip(y float64) float64 {
	return w.bounds.Height - y
}

// drawEnemy draws a boxy bot with two antennae.
func (w *World) drawEnemy(c *draw.Canvas, pos session.Vec) {
	x, y := pos.X, w.flip(pos.Y)
	c.FillRect(x-EnemyHalfWidth, y-EnemyHalfHeight/2, EnemyHalfWidth*2, EnemyHalfHeight*1.5)
	c.DrawLine(draw.Point{X: x - 4, Y: y - EnemyHalfHeight/2}, draw.Point{X: x - 6, Y: y - EnemyHalfHeight})
	c.DrawLine(draw.Point{X: x + 4, Y: y - EnemyHalfHeight/2}, draw.Point{X: x + 6, Y: y - EnemyHalfHeight})
}

// drawBolt draws the projectile as a short zigzag.
func (w *World) drawBolt(c *draw.Canvas, pos session.Vec) {
	x, y := pos.X, w.flip(pos.Y)
	r := ProjectileRadius
	c.DrawLine(draw.Point{X: x, Y: y - 2*r}, draw.Point{X: x + r, Y: y})
	c.DrawLine(draw.Point{X: x + r, Y: y}, draw.Point{X: x - r, Y: y})
	c.DrawLine(draw.Point{X: x - r, Y: y}, draw.Point{X: x, Y: y + 2*r})
}

// drawPlayer draws the player as a filled wedge pointing up.
func (w *World) drawPlayer(c *draw.Canvas, pos session.Vec) {
	x, y := pos.X, w.flip(pos.Y+w.Bob())
	pts := c.BorrowPoints(4)
	pts[0] = draw.Point{X: x, Y: y - PlayerHalfHeight}
	pts[1] = draw.Point{X: x + PlayerHalfWidth, Y: y + PlayerHalfHeight}
	pts[2] = draw.Point{X: x, Y: y + PlayerHalfHeight/2}
	pts[3] = draw.Point{X: x - PlayerHalfWidth, Y: y + PlayerHalfHeight}
	c.DrawPolygon(pts, true)
}
