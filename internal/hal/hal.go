package hal

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/kapitanov/chip8core/internal/pacer"
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const DefaultScale = 16

var ErrQuit = errors.New("quit")

type Config struct {
	// Scale is the window size in host pixels per display pixel.
	Scale int
	FPS   int
}

func DefaultConfig() Config {
	return Config{
		Scale: DefaultScale,
		FPS:   pacer.DefaultFPS,
	}
}

func (c Config) Validate() error {
	if c.Scale < 1 {
		return fmt.Errorf("scale must be positive, got %d", c.Scale)
	}
	if c.FPS < 1 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int

	pacer *pacer.Pacer
}

func New(cfg Config) (*HAL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hal config: %w", err)
	}

	p, err := pacer.New(cfg.FPS)
	if err != nil {
		return nil, err
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	hal := &HAL{
		backBuffer:      make([]uint32, vm.ScreenWidth*vm.ScreenHeight),
		backBufferPitch: int(vm.ScreenWidth) * int(unsafe.Sizeof(uint32(0))),
		pacer:           p,
	}

	if err := hal.init(cfg); err != nil {
		hal.Shutdown()
		return nil, err
	}

	return hal, nil
}

func (hal *HAL) init(cfg Config) error {
	width := int32(vm.ScreenWidth * cfg.Scale)
	height := int32(vm.ScreenHeight * cfg.Scale)

	window, err := sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("failed to create sdl window: %w", err)
	}
	hal.window = window
	slog.Debug("hal: create window", "width", width, "height", height)

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("failed to create sdl renderer: %w", err)
	}
	hal.renderer = renderer

	if err := renderer.SetLogicalSize(vm.ScreenWidth, vm.ScreenHeight); err != nil {
		return fmt.Errorf("failed to resize sdl renderer: %w", err)
	}
	if err := renderer.SetDrawColor(0, 0, 0, 0xFF); err != nil {
		return fmt.Errorf("failed to set sdl draw color: %w", err)
	}
	slog.Debug("hal: create renderer")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, vm.ScreenWidth, vm.ScreenHeight)
	if err != nil {
		return fmt.Errorf("failed to create sdl texture: %w", err)
	}
	hal.texture = texture

	// Unlit pixels are transparent and show the black clear color.
	if err := texture.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return fmt.Errorf("failed to set sdl texture blend mode: %w", err)
	}
	slog.Debug("hal: create texture")

	return nil
}

func (hal *HAL) Shutdown() {
	if hal.texture != nil {
		if err := hal.texture.Destroy(); err != nil {
			slog.Error("failed to destroy sdl texture", "err", err)
		}
	}

	if hal.renderer != nil {
		if err := hal.renderer.Destroy(); err != nil {
			slog.Error("failed to destroy sdl renderer", "err", err)
		}
	}

	if hal.window != nil {
		if err := hal.window.Destroy(); err != nil {
			slog.Error("failed to destroy sdl window", "err", err)
		}
	}

	sdl.Quit()
}

// PollEvents drains the event queue. A close request or a released Escape
// key returns ErrQuit.
func (hal *HAL) PollEvents() error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.GetType() {
		case sdl.QUIT:
			slog.Debug("hal: exit requested")
			return ErrQuit

		case sdl.KEYUP:
			if e.(*sdl.KeyboardEvent).Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				slog.Debug("hal: escape released")
				return ErrQuit
			}
		}
	}

	return nil
}

func (hal *HAL) Draw(display *vm.Display) error {
	if err := display.Render(hal.backBuffer); err != nil {
		return err
	}

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}

func (hal *HAL) WaitForNextFrame() error {
	hal.pacer.Wait()
	return nil
}
