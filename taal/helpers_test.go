package taal

import (
	"os"
	"testing"

	"github.com/RyanBlaney/taal-finder/logging"
)

func TestMain(m *testing.M) {
	logging.SetGlobalLogger(&logging.NoOpLogger{})
	os.Exit(m.Run())
}

func tile(pattern []float64, n int) []float64 {
	out := make([]float64, 0, len(pattern)*n)
	for range n {
		out = append(out, pattern...)
	}
	return out
}

// cycles builds a downbeat stream of n bars of length beats each, one beat
// every 0.5s starting at 0.5s.
func cycles(length, n int) []Downbeat {
	out := make([]Downbeat, 0, length*n)
	t := 0.5
	for range n {
		for pos := range length {
			out = append(out, Downbeat{Time: t, Position: pos})
			t += 0.5
		}
	}
	return out
}

func beatTimes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 + 0.5*float64(i)
	}
	return out
}

func mustDefinition(t *testing.T, name Name) Definition {
	t.Helper()
	def, ok := DefaultRegistry().Get(name)
	if !ok {
		t.Fatalf("%s not registered", name)
	}
	return def
}
