package taal

import (
	"slices"
	"testing"
)

func TestBuiltinDefinitionsInvariants(t *testing.T) {
	for _, def := range DefaultRegistry().All() {
		t.Run(def.Name.String(), func(t *testing.T) {
			sum := 0
			for _, v := range def.Vibhags {
				sum += v
			}
			if def.Matras != sum {
				t.Errorf("matras=%d != sum(vibhags)=%d", def.Matras, sum)
			}
			if def.SamPosition < 0 || def.SamPosition >= def.Matras {
				t.Errorf("sam position %d out of range", def.SamPosition)
			}
			for _, pos := range slices.Concat(def.KhaliPositions, def.TaliPositions) {
				if pos < 0 || pos >= def.Matras {
					t.Errorf("position %d out of range", pos)
				}
			}
			if boundaries := def.VibhagBoundaries(); boundaries[0] != 0 || len(boundaries) != len(def.Vibhags) {
				t.Errorf("boundaries = %v", boundaries)
			}
			if err := def.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestAllNamesRegistered(t *testing.T) {
	names := []Name{Dadra, Rupak, Keherwa, Jhaptaal, Ektaal, Deepchandi, Teentaal}
	if got := DefaultRegistry().Names(); !slices.Equal(got, names) {
		t.Errorf("Names() = %v, want %v", got, names)
	}
}

func TestVibhagBoundaries(t *testing.T) {
	tests := []struct {
		vibhags []int
		want    []int
	}{
		{[]int{3, 2, 2}, []int{0, 3, 5}},
		{[]int{4, 4, 4, 4}, []int{0, 4, 8, 12}},
		{[]int{2, 3, 2, 3}, []int{0, 2, 5, 7}},
		{nil, []int{0}},
	}
	for _, tt := range tests {
		def := Definition{Vibhags: tt.vibhags}
		if got := def.VibhagBoundaries(); !slices.Equal(got, tt.want) {
			t.Errorf("VibhagBoundaries(%v) = %v, want %v", tt.vibhags, got, tt.want)
		}
	}
}

func TestDefinitionHelpers(t *testing.T) {
	rupak := mustDefinition(t, Rupak)
	if got := rupak.VibhagString(); got != "3+2+2" {
		t.Errorf("VibhagString = %q", got)
	}
	if !rupak.IsSam(0) || !rupak.IsKhali(0) || !rupak.IsTali(3) || rupak.IsTali(1) {
		t.Error("rupak position predicates wrong")
	}
	if Rupak.Title() != "Rupak" || Madhya.Title() != "Madhya Laya" {
		t.Errorf("titles = %q, %q", Rupak.Title(), Madhya.Title())
	}
}

func TestRegistryQueries(t *testing.T) {
	reg := DefaultRegistry()

	if got := reg.CandidateMatraCounts(); !slices.Equal(got, []int{6, 7, 8, 10, 12, 14, 16}) {
		t.Errorf("CandidateMatraCounts = %v", got)
	}

	byMatras := reg.ByMatras(7)
	if len(byMatras) != 1 || byMatras[0].Name != Rupak {
		t.Errorf("ByMatras(7) = %v", byMatras)
	}
	if got := reg.ByMatras(99); len(got) != 0 {
		t.Errorf("ByMatras(99) = %v, want empty", got)
	}

	if _, ok := reg.Get("bhajani"); ok {
		t.Error("Get of unknown taal reported ok")
	}
}

func TestRegistryClosest(t *testing.T) {
	tests := []struct {
		cycleLength int
		want        Name
	}{
		{0, Dadra},
		{9, Keherwa}, // equidistant from 8 and 10, earlier entry wins
		{11, Jhaptaal},
		{15, Deepchandi},
		{99, Teentaal},
	}
	for _, tt := range tests {
		def, ok := DefaultRegistry().Closest(tt.cycleLength)
		if !ok || def.Name != tt.want {
			t.Errorf("Closest(%d) = %s, want %s", tt.cycleLength, def.Name, tt.want)
		}
	}

	empty, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := empty.Closest(7); ok {
		t.Error("empty registry Closest reported ok")
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := DefaultRegistry()
	def, _ := reg.Get(Teentaal)
	def.Vibhags[0] = 99
	def.KhaliPositions[0] = 1

	again, _ := reg.Get(Teentaal)
	if again.Vibhags[0] != 4 || again.KhaliPositions[0] != 8 {
		t.Errorf("registry mutated through returned definition: %+v", again)
	}
}

func TestNewRegistryRejectsBadDefinitions(t *testing.T) {
	good := Definition{Name: "a", Matras: 4, Vibhags: []int{2, 2}}

	tests := map[string][]Definition{
		"duplicate":     {good, good},
		"vibhag sum":    {{Name: "b", Matras: 5, Vibhags: []int{2, 2}}},
		"sam range":     {{Name: "c", Matras: 4, Vibhags: []int{4}, SamPosition: 4}},
		"khali range":   {{Name: "d", Matras: 4, Vibhags: []int{4}, KhaliPositions: []int{-1}}},
		"tali range":    {{Name: "e", Matras: 4, Vibhags: []int{4}, TaliPositions: []int{7}}},
		"empty name":    {{Matras: 4, Vibhags: []int{4}}},
		"zero matras":   {{Name: "f"}},
		"zero vibhag":   {{Name: "g", Matras: 4, Vibhags: []int{4, 0}}},
	}
	for name, defs := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRegistry(defs...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
