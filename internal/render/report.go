package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/mesh-intelligence/moodlog/internal/filestore"
	"github.com/mesh-intelligence/moodlog/internal/stats"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Output file names written by WriteFiles.
const (
	SVGFile    = "grafico.svg"
	ReadmeFile = "README.md"
)

// NoRecordsText replaces the statistics block for an empty journal.
const NoRecordsText = "Nenhum registro ainda."

const barUnit = "█"

// StatsMarkdown lists each feeling with its count, share and a bar of one
// block per five percent.
func StatsMarkdown(sum stats.Summary) string {
	if sum.Empty() {
		return NoRecordsText
	}
	lines := []string{
		fmt.Sprintf("\n📊 **Estatísticas** (%d dias registrados, %d registros)\n", sum.TotalDays, sum.TotalEntries),
	}
	for _, c := range sum.Counts {
		bar := strings.Repeat(barUnit, int(c.Percentage/5))
		lines = append(lines, fmt.Sprintf("- %s **%s**: %d registros (%.1f%%) %s", c.Emoji, c.Label(), c.Count, c.Percentage, bar))
	}
	return strings.Join(lines, "\n")
}

// Legend lists every feeling with its color.
func Legend(cat types.Catalog) string {
	lines := []string{"\n## 🎨 Legenda de Sentimentos\n"}
	for _, f := range cat.Feelings() {
		lines = append(lines, fmt.Sprintf("- %s **%s** `%s`", f.Emoji, f.Label(), f.Color))
	}
	return strings.Join(lines, "\n")
}

// ReadmeData fills the README template.
type ReadmeData struct {
	SVGPath string
	Legend  string
	Stats   string
	Updated time.Time
}

var readmeTmpl = template.Must(template.New("readme").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
}).Parse(`# 🎭 DEVertidamente

> Inspirado no filme **Divertidamente (Inside Out)**, este projeto registra meus sentimentos a cada dia.

## 📅 Mapa de Sentimentos

![Mapa de Sentimentos]({{.SVGPath}})

{{.Legend}}

{{.Stats}}

---

## 🚀 Como usar

1. **Registrar um sentimento:**
   ` + "```bash" + `
   moodlog record
   ` + "```" + `

2. **Atualizar o gráfico:**
   ` + "```bash" + `
   moodlog render
   ` + "```" + `

3. **Fazer commit:**
   ` + "```bash" + `
   git add .
   git commit -m "Sentimento do dia: [EMOJI] [SENTIMENTO]"
   git push
   ` + "```" + `

## 💡 Sobre o projeto

Este projeto é uma forma de acompanhar minha saúde emocional ao longo do tempo, identificando padrões e tendências nos meus sentimentos.

Última atualização: {{date .Updated}}
`))

// README renders the report document.
func README(data ReadmeData) (string, error) {
	if data.SVGPath == "" {
		data.SVGPath = SVGFile
	}
	var b strings.Builder
	if err := readmeTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering readme: %w", err)
	}
	return b.String(), nil
}

// Report is the pair of rendered artifacts.
type Report struct {
	SVG    string
	README string
}

// Build renders the heat-map and the README for one snapshot.
func Build(cal stats.Calendar, sum stats.Summary, cat types.Catalog, now time.Time) (Report, error) {
	readme, err := README(ReadmeData{
		SVGPath: SVGFile,
		Legend:  Legend(cat),
		Stats:   StatsMarkdown(sum),
		Updated: now,
	})
	if err != nil {
		return Report{}, err
	}
	return Report{SVG: SVG(cal, DefaultTitle), README: readme}, nil
}

// WriteFiles writes the report into dir, replacing each file atomically.
func WriteFiles(dir string, r Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := filestore.WriteFile(filepath.Join(dir, SVGFile), []byte(r.SVG)); err != nil {
		return fmt.Errorf("writing %s: %w", SVGFile, err)
	}
	if err := filestore.WriteFile(filepath.Join(dir, ReadmeFile), []byte(r.README)); err != nil {
		return fmt.Errorf("writing %s: %w", ReadmeFile, err)
	}
	return nil
}
