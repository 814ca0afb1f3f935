package vm

import "fmt"

const DefaultCyclesPerFrame = 1

type Config struct {
	// CyclesPerFrame is the number of instructions executed per host frame.
	CyclesPerFrame int
}

func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: DefaultCyclesPerFrame,
	}
}

func (c Config) Validate() error {
	if c.CyclesPerFrame < 1 {
		return fmt.Errorf("cycles per frame must be positive, got %d", c.CyclesPerFrame)
	}
	return nil
}
