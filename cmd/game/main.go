package main

import (
	"flag"
	"log"

	"github.com/Garsondee/cover-shooter/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (hot reloaded)")
	levelPath := flag.String("level", "", "YAML level file (hot reloaded); embedded arena when empty")
	flag.Parse()

	g, err := view.New(*cfgPath, *levelPath)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	w, h := g.ScreenSize()
	ebiten.SetWindowTitle("Cover Shooter")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(g.TPS())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
