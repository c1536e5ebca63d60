package fitness

import "fmt"

type constructor func(data []float64) Training

var constructors = map[Code]constructor{
	CodeSwimming: func(d []float64) Training {
		return NewSwimming(int(d[0]), d[1], d[2], d[3], int(d[4]))
	},
	CodeRunning: func(d []float64) Training {
		return NewRunning(int(d[0]), d[1], d[2])
	},
	CodeWalking: func(d []float64) Training {
		return NewSportsWalking(int(d[0]), d[1], d[2], d[3])
	},
}

// ReadPackage builds the workout variant for code by binding data to the
// variant's fields in schema order. Packets must pass Validate first; a vector
// whose length does not match the schema is a programming error and panics.
func ReadPackage(code Code, data []float64) (Training, error) {
	build, ok := constructors[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, string(code))
	}
	if want := len(schemas[code]); len(data) != want {
		panic(fmt.Sprintf("fitness: unvalidated %s packet reached the factory with %d fields, want %d", code, len(data), want))
	}
	return build(data), nil
}
