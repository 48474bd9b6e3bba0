// Package taal classifies the rhythmic cycle of a recording from its beat
// stream, downbeat stream and per-beat accent strengths.
package taal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Name identifies a known taal.
type Name string

const (
	Dadra      Name = "dadra"      // 6 matras: 3+3
	Rupak      Name = "rupak"      // 7 matras: 3+2+2
	Keherwa    Name = "keherwa"    // 8 matras: 4+4
	Jhaptaal   Name = "jhaptaal"   // 10 matras: 2+3+2+3
	Ektaal     Name = "ektaal"     // 12 matras: 2+2+2+2+2+2
	Deepchandi Name = "deepchandi" // 14 matras: 3+4+3+4
	Teentaal   Name = "teentaal"   // 16 matras: 4+4+4+4
)

func (n Name) String() string {
	return string(n)
}

// Title returns the name with its first letter upper-cased, e.g. "Rupak".
func (n Name) Title() string {
	if n == "" {
		return ""
	}
	s := string(n)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Laya is a tempo class.
type Laya string

const (
	Vilambit Laya = "vilambit"
	Madhya   Laya = "madhya"
	Drut     Laya = "drut"
)

// Title returns the human-readable label, e.g. "Madhya Laya".
func (l Laya) Title() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:] + " Laya"
}

// Definition is the structure of one taal. Positions are 0-indexed matras.
// Definitions handed out by a Registry are copies; mutating one does not
// affect the registry.
type Definition struct {
	Name           Name   `json:"name"`
	Matras         int    `json:"matras"`
	Vibhags        []int  `json:"vibhags"`
	SamPosition    int    `json:"sam_position"`
	KhaliPositions []int  `json:"khali_positions"`
	TaliPositions  []int  `json:"tali_positions"`
	CommonLayas    []Laya `json:"common_layas"`
	DisplayName    string `json:"display_name,omitempty"`
}

// VibhagBoundaries returns the starting matra of each vibhag, always
// beginning with 0.
func (d Definition) VibhagBoundaries() []int {
	if len(d.Vibhags) == 0 {
		return []int{0}
	}
	boundaries := make([]int, 0, len(d.Vibhags))
	start := 0
	for _, v := range d.Vibhags {
		boundaries = append(boundaries, start)
		start += v
	}
	return boundaries
}

// VibhagString renders the grouping as "3+2+2".
func (d Definition) VibhagString() string {
	parts := make([]string, len(d.Vibhags))
	for i, v := range d.Vibhags {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "+")
}

func (d Definition) IsSam(pos int) bool {
	return pos == d.SamPosition
}

func (d Definition) IsKhali(pos int) bool {
	return slices.Contains(d.KhaliPositions, pos)
}

func (d Definition) IsTali(pos int) bool {
	return slices.Contains(d.TaliPositions, pos)
}

// Validate checks the structural invariants of the definition.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("taal definition has empty name")
	}
	if d.Matras <= 0 {
		return fmt.Errorf("taal %s: matras must be positive, got %d", d.Name, d.Matras)
	}

	sum := 0
	for _, v := range d.Vibhags {
		if v <= 0 {
			return fmt.Errorf("taal %s: vibhag lengths must be positive, got %v", d.Name, d.Vibhags)
		}
		sum += v
	}
	if sum != d.Matras {
		return fmt.Errorf("taal %s: matras=%d != sum(vibhags)=%d", d.Name, d.Matras, sum)
	}

	if d.SamPosition < 0 || d.SamPosition >= d.Matras {
		return fmt.Errorf("taal %s: sam position %d outside [0, %d)", d.Name, d.SamPosition, d.Matras)
	}
	for _, pos := range d.KhaliPositions {
		if pos < 0 || pos >= d.Matras {
			return fmt.Errorf("taal %s: khali position %d outside [0, %d)", d.Name, pos, d.Matras)
		}
	}
	for _, pos := range d.TaliPositions {
		if pos < 0 || pos >= d.Matras {
			return fmt.Errorf("taal %s: tali position %d outside [0, %d)", d.Name, pos, d.Matras)
		}
	}

	return nil
}

func (d Definition) clone() Definition {
	d.Vibhags = slices.Clone(d.Vibhags)
	d.KhaliPositions = slices.Clone(d.KhaliPositions)
	d.TaliPositions = slices.Clone(d.TaliPositions)
	d.CommonLayas = slices.Clone(d.CommonLayas)
	return d
}

// BuiltinDefinitions returns the standard set of Hindustani taals in
// registry order.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{
			Name:           Dadra,
			Matras:         6,
			Vibhags:        []int{3, 3},
			SamPosition:    0,
			KhaliPositions: []int{3},
			TaliPositions:  []int{0},
			CommonLayas:    []Laya{Madhya, Drut},
			DisplayName:    "ताल दादरा",
		},
		{
			Name:    Rupak,
			Matras:  7,
			Vibhags: []int{3, 2, 2},
			// sam is also khali in rupak
			SamPosition:    0,
			KhaliPositions: []int{0},
			TaliPositions:  []int{3, 5},
			CommonLayas:    []Laya{Madhya, Drut},
			DisplayName:    "ताल रूपक",
		},
		{
			Name:           Keherwa,
			Matras:         8,
			Vibhags:        []int{4, 4},
			SamPosition:    0,
			KhaliPositions: []int{4},
			TaliPositions:  []int{0},
			CommonLayas:    []Laya{Madhya, Drut},
			DisplayName:    "ताल कहरवा",
		},
		{
			Name:           Jhaptaal,
			Matras:         10,
			Vibhags:        []int{2, 3, 2, 3},
			SamPosition:    0,
			KhaliPositions: []int{5},
			TaliPositions:  []int{0, 2, 7},
			CommonLayas:    []Laya{Vilambit, Madhya, Drut},
			DisplayName:    "ताल झपताल",
		},
		{
			Name:           Ektaal,
			Matras:         12,
			Vibhags:        []int{2, 2, 2, 2, 2, 2},
			SamPosition:    0,
			KhaliPositions: []int{2, 8},
			TaliPositions:  []int{0, 4, 6, 10},
			CommonLayas:    []Laya{Vilambit, Madhya, Drut},
			DisplayName:    "ताल एकताल",
		},
		{
			Name:           Deepchandi,
			Matras:         14,
			Vibhags:        []int{3, 4, 3, 4},
			SamPosition:    0,
			KhaliPositions: []int{7},
			TaliPositions:  []int{0, 3, 10},
			CommonLayas:    []Laya{Vilambit, Madhya},
			DisplayName:    "ताल दीपचंदी",
		},
		{
			Name:           Teentaal,
			Matras:         16,
			Vibhags:        []int{4, 4, 4, 4},
			SamPosition:    0,
			KhaliPositions: []int{8},
			TaliPositions:  []int{0, 4, 12},
			CommonLayas:    []Laya{Vilambit, Madhya, Drut},
			DisplayName:    "ताल तीनताल",
		},
	}
}
