// Package viewer runs the board in an Ebiten window, re-rendering every
// frame and hot-reloading the memory images when their files change on disk.
package viewer

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/howeyc/fsnotify"

	"github.com/user-none/emtile/emu"
)

// Paths names the four memory image files. Empty paths mean the viewer was
// started on the built-in demo set and nothing is watched.
type Paths struct {
	AttrHigh string
	AttrLow  string
	Tiles    string
	Palette  string
}

func (p Paths) empty() bool {
	return p.AttrHigh == "" && p.AttrLow == "" && p.Tiles == "" && p.Palette == ""
}

// Viewer implements ebiten.Game around a board.
type Viewer struct {
	board *emu.Board
	paths Paths

	mu     sync.Mutex
	reload bool

	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// New creates a viewer for the given board.
func New(board *emu.Board, paths Paths) *Viewer {
	return &Viewer{board: board, paths: paths}
}

// Run opens the window and runs the viewer until it is closed.
func Run(board *emu.Board, paths Paths) error {
	v := New(board, paths)

	if !paths.empty() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := v.watch(watcher); err != nil {
			return err
		}
		go v.watchLoop(watcher)
	}

	ebiten.SetWindowSize(emu.ScreenWidth*2, emu.ScreenHeight*2)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	return ebiten.RunGame(v)
}

// watch registers the directories holding the image files. Watching the
// directory rather than the file survives editors that replace on save.
func (v *Viewer) watch(watcher *fsnotify.Watcher) error {
	dirs := map[string]bool{}
	for _, p := range []string{v.paths.AttrHigh, v.paths.AttrLow, v.paths.Tiles, v.paths.Palette} {
		dirs[filepath.Dir(filepath.Clean(p))] = true
	}
	for dir := range dirs {
		if err := watcher.Watch(dir); err != nil {
			return err
		}
	}
	return nil
}

// watchLoop debounces change events into a reload request.
func (v *Viewer) watchLoop(watcher *fsnotify.Watcher) {
	names := map[string]bool{}
	for _, p := range []string{v.paths.AttrHigh, v.paths.AttrLow, v.paths.Tiles, v.paths.Palette} {
		names[filepath.Clean(p)] = true
	}

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Event:
			if !ok {
				return
			}
			if names[filepath.Clean(ev.Name)] && !ev.IsAttrib() {
				pending = time.After(100 * time.Millisecond)
			}
		case err, ok := <-watcher.Error:
			if !ok {
				return
			}
			log.Printf("viewer: watcher: %v", err)
		case <-pending:
			pending = nil
			v.mu.Lock()
			v.reload = true
			v.mu.Unlock()
		}
	}
}

// Update implements ebiten.Game: reload images if requested, then run one
// board frame.
func (v *Viewer) Update() error {
	v.mu.Lock()
	doReload := v.reload
	v.reload = false
	v.mu.Unlock()

	if doReload {
		set, err := emu.LoadImageSet(v.paths.AttrHigh, v.paths.AttrLow, v.paths.Tiles, v.paths.Palette)
		if err != nil {
			log.Printf("viewer: reload: %v", err)
		} else if err := v.board.LoadImages(set); err != nil {
			log.Printf("viewer: reload: %v", err)
		} else {
			log.Printf("viewer: images reloaded")
		}
	}

	v.board.RunFrame()
	return nil
}

// Draw implements ebiten.Game: blit the framebuffer scaled to the window,
// preserving aspect ratio.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.offscreen == nil {
		v.offscreen = ebiten.NewImage(emu.ScreenWidth, emu.ScreenHeight)
	}
	v.offscreen.WritePixels(v.board.Framebuffer())

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	scaleX := float64(screenW) / emu.ScreenWidth
	scaleY := float64(screenH) / emu.ScreenHeight
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	offsetX := (float64(screenW) - emu.ScreenWidth*scale) / 2
	offsetY := (float64(screenH) - emu.ScreenHeight*scale) / 2

	v.drawOpts = ebiten.DrawImageOptions{}
	v.drawOpts.GeoM.Scale(scale, scale)
	v.drawOpts.GeoM.Translate(offsetX, offsetY)
	v.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(v.offscreen, &v.drawOpts)
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
