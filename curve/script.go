package curve

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ErrScriptNoOutput is returned when a curve script never assigns y.
var ErrScriptNoOutput = errors.New("curve: script does not assign y")

const (
	scriptInput  = "t"
	scriptOutput = "y"
)

// FromScript compiles a tengo curve script and samples it into a LUT.
// The script reads the ratio from t and writes the multiplier to y:
//
//	math := import("math")
//	y := math.sin(t * math.pi / 2)
func FromScript(src []byte, samples int) (*LUT, error) {
	script := tengo.NewScript(src)
	if err := script.Add(scriptInput, 0.0); err != nil {
		return nil, fmt.Errorf("curve: add script input: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("curve: compile script: %w", err)
	}

	var runErr error
	eval := Func(func(t float64) float64 {
		if runErr != nil {
			return 0
		}
		if err := compiled.Set(scriptInput, t); err != nil {
			runErr = err
			return 0
		}
		if err := compiled.Run(); err != nil {
			runErr = err
			return 0
		}
		v := compiled.Get(scriptOutput)
		if v.IsUndefined() {
			runErr = ErrScriptNoOutput
			return 0
		}
		return v.Float()
	})

	lut := Sample(eval, samples)
	if runErr != nil {
		return nil, fmt.Errorf("curve: run script: %w", runErr)
	}
	return lut, nil
}
