package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"github.com/setanarut/pinball"
	"github.com/setanarut/pinball/config"
	"github.com/setanarut/pinball/snapshot"
	"github.com/setanarut/vec"
)

const (
	nudge   = 0.6
	plunger = 14.0
)

type Game struct {
	table    *config.Table
	space    *pinball.Space
	ball     *pinball.Thing
	drawer   *Drawer
	recorder *snapshot.Recorder
	score    int
}

func NewGame(table *config.Table, debug bool, record bool) (*Game, error) {
	g := &Game{table: table, drawer: NewDrawer(debug)}
	if record {
		g.recorder = &snapshot.Recorder{}
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) reset() error {
	space, err := g.table.Build()
	if err != nil {
		return err
	}
	g.space = space
	g.ball = nil
	g.score = 0
	for _, t := range space.Things() {
		if t.Name == "ball" {
			g.ball = t
			break
		}
	}
	if g.ball == nil {
		return errors.Errorf("table has no thing named %q", "ball")
	}
	space.OnContact = func(space *pinball.Space, this, other *pinball.Thing, c pinball.Contact) {
		if other.Static {
			g.score++
		}
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reset(); err != nil {
			return err
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.ball.Pull(vec.Vec2{X: -nudge})
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.ball.Pull(vec.Vec2{X: nudge})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && g.ball.InContact() {
		g.ball.Pull(vec.Vec2{Y: -plunger})
	}
	g.space.Step()
	if g.recorder != nil {
		if err := g.recorder.Record(g.space); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawer.screen = screen
	pinball.DrawSpace(g.space, g.drawer)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("score %d  frame %d\n<- -> nudge, space plunger, r reset", g.score, g.space.Stamp()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scene := g.space.Scene.BB()
	return int(scene.Width()), int(scene.Height())
}

func main() {
	tablePath := flag.String("table", "", "table layout (YAML), built-in table when empty")
	debug := flag.Bool("debug", false, "draw tentative bounding boxes and contacts")
	recordPath := flag.String("record", "", "write a msgpack recording of every frame on exit")
	flag.Parse()

	table := config.Default()
	if *tablePath != "" {
		var err error
		if table, err = config.Load(*tablePath); err != nil {
			log.Fatal(err)
		}
	}

	game, err := NewGame(table, *debug, *recordPath != "")
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(table.Scene.Width), int(table.Scene.Height))
	ebiten.SetWindowTitle("pinball")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	if game.recorder != nil {
		data, err := game.recorder.MarshalMsgpack()
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*recordPath, data, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %d frames to %s", game.recorder.Len(), *recordPath)
	}
}

func toRGBA(c pinball.FColor) color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}
