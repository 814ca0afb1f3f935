package vm

import (
	"fmt"
)

type VM struct {
	state   *State
	display *Display
	config  Config

	looped bool // A jump to its own address has been seen
}

// New validates cfg and builds a machine with program loaded at
// ProgramStart.
func New(cfg Config, program []byte) (*VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vm config: %w", err)
	}

	state := NewState()
	if err := state.LoadBytes(program); err != nil {
		return nil, err
	}

	return &VM{
		state:   state,
		display: NewDisplay(),
		config:  cfg,
	}, nil
}

// HAL is the host the machine runs on.
type HAL interface {
	Draw(display *Display) error
	PollEvents() error
	WaitForNextFrame() error
}

func (vm *VM) State() *State {
	return vm.state
}

func (vm *VM) Display() *Display {
	return vm.display
}

// Looped reports whether the program has jumped to its own address.
func (vm *VM) Looped() bool {
	return vm.looped
}

// Run executes frames until the host or the program fails. Quit requests
// come back from the host as errors.
func (vm *VM) Run(hal HAL) error {
	for {
		if err := vm.runFrame(hal); err != nil {
			return err
		}
	}
}

func (vm *VM) runFrame(hal HAL) error {
	if err := hal.PollEvents(); err != nil {
		return err
	}

	if err := vm.Frame(); err != nil {
		return err
	}

	if vm.display.Dirty() {
		if err := hal.Draw(vm.display); err != nil {
			return fmt.Errorf("unable to present frame: %w", err)
		}
		vm.display.ClearDirty()
	}

	return hal.WaitForNextFrame()
}

// Frame runs the configured number of cycles.
func (vm *VM) Frame() error {
	for i := 0; i < vm.config.CyclesPerFrame; i++ {
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one fetch-decode-execute cycle.
func (vm *VM) Step() error {
	pc := vm.state.pc
	opcode, err := vm.state.fetch()
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	return vm.executeOpcode(pc, opcode)
}
