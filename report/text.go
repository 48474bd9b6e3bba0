package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RyanBlaney/taal-finder/taal"
)

// maxAlternatives is how many runner-up taals the text report lists.
const maxAlternatives = 3

// Options control the text report.
type Options struct {
	// Verbose adds a per-beat table covering the first two cycles.
	Verbose bool
}

// WriteText renders r as a terminal report. registry resolves the detected
// and alternative taals; a nil registry uses the builtin taals.
func WriteText(w io.Writer, r *taal.Result, registry *taal.Registry, opts Options) error {
	if registry == nil {
		registry = taal.DefaultRegistry()
	}
	def, known := registry.Get(r.Taal)

	p := &printer{w: w}

	title := r.Taal.Title()
	if known && def.DisplayName != "" {
		title += " (" + def.DisplayName + ")"
	}

	p.printf("\n== Taal Detection Result ==\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p.fprintf(tw, "Detected Taal\t%s\n", title)
	p.fprintf(tw, "Confidence\t%s\n", percent(r.Confidence))
	p.fprintf(tw, "Tempo\t%.1f BPM (%s)\n", r.TempoBPM, r.Laya.Title())
	if known {
		p.fprintf(tw, "Matras/Cycle\t%d (%s)\n", def.Matras, def.VibhagString())
	}
	p.fprintf(tw, "Cycle Duration\t%.2fs\n", r.CycleDuration)
	p.fprintf(tw, "Matra Duration\t%.3fs\n", r.MatraDuration)
	if r.Fallback {
		p.fprintf(tw, "Note\tno template matched, closest cycle length shown\n")
	}
	p.flush(tw)

	if known {
		p.printf("\n== Beat Pattern ==\n%s\n\n%s\n", BeatPattern(def), legend)
	}

	if alternatives := r.AlternativeTaals; len(alternatives) > 0 {
		alternatives = alternatives[:min(len(alternatives), maxAlternatives)]
		p.printf("\n== Alternative Taals ==\n")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		p.fprintf(tw, "Taal\tMatras\tConfidence\n")
		for _, alt := range alternatives {
			matras := "?"
			if altDef, ok := registry.Get(alt.Taal); ok {
				matras = strconv.Itoa(altDef.Matras)
			}
			p.fprintf(tw, "%s\t%s\t%s\n", alt.Taal.Title(), matras, percent(alt.Confidence))
		}
		p.flush(tw)
	}

	if opts.Verbose && len(r.Beats) > 0 {
		limit := 32
		if known {
			limit = 2 * def.Matras
		}
		beats := r.Beats[:min(len(r.Beats), limit)]

		p.printf("\n== Beat Details (first 2 cycles) ==\n")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		p.fprintf(tw, "#\tTime (s)\tPosition\tType\tStrength\t\n")
		for i, b := range beats {
			p.fprintf(tw, "%d\t%.3f\t%d\t%s\t%.3f\t\n", i+1, b.Time, b.BeatPosition+1, beatType(b), b.Strength)
		}
		p.flush(tw)
	}

	p.printf("\n")
	return p.err
}

const legend = "X=Sam  0=Khali  2=Tali  .=Matra"

// BeatPattern draws one cycle of def: X for sam, 0 for khali, the vibhag
// number for tali, and . for other matras, with vibhags separated by |.
func BeatPattern(def taal.Definition) string {
	var sb strings.Builder
	pos := 0
	for vi, length := range def.Vibhags {
		if vi > 0 {
			sb.WriteString("  |  ")
		}
		for j := range length {
			if j > 0 {
				sb.WriteString("  ")
			}
			switch {
			case def.IsSam(pos):
				sb.WriteString("X")
			case def.IsKhali(pos):
				sb.WriteString("0")
			case def.IsTali(pos):
				sb.WriteString(strconv.Itoa(vi + 1))
			default:
				sb.WriteString(".")
			}
			pos++
		}
	}
	return sb.String()
}

func beatType(b taal.BeatInfo) string {
	switch {
	case b.IsSam:
		return "Sam"
	case b.IsKhali:
		return "Khali"
	default:
		return "Matra"
	}
}

func percent(confidence float64) string {
	return fmt.Sprintf("%.0f%%", confidence*100)
}

// printer keeps the first write error so rendering reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	p.fprintf(p.w, format, args...)
}

func (p *printer) fprintf(w io.Writer, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(w, format, args...)
}

func (p *printer) flush(tw *tabwriter.Writer) {
	if p.err != nil {
		return
	}
	p.err = tw.Flush()
}
