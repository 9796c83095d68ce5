package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"

	"github.com/delaneyj/weft/loom"
	"github.com/delaneyj/weft/memdom"
)

var (
	ww    = []int{1, 10, 100}
	hh    = []int{1, 10, 100}
	iters = 100
)

func main() {
	flag.Parse()

	f, err := os.Create("default.pgo")
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")
	benchmarkRenderCommit(true)
}

// buildTree makes width chains of depth boxes, each ending in a label
// carrying the pass number so update passes actually change something.
func buildTree(width, depth, pass int) *loom.Element {
	cols := make([]any, 0, width)
	for i := 0; i < width; i++ {
		leaf := loom.El(loom.Tag("label"), loom.Props{
			"value": fmt.Sprintf("%d-%d", i, pass),
		})
		chain := leaf
		for j := 0; j < depth; j++ {
			chain = loom.El(loom.Tag("box"), loom.Props{"depth": j}, chain)
		}
		cols = append(cols, chain)
	}
	return loom.El(loom.Tag("root"), nil, cols...)
}

func benchmarkRenderCommit(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("loom render+commit")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	type summaryRow struct {
		name     string
		nodes    int64
		updates  int64
		duration time.Duration
	}
	var summaries []summaryRow

	for _, w := range ww {
		for _, h := range hh {
			doc := memdom.New()
			e, err := loom.New(doc)
			if err != nil {
				log.Fatal(err)
			}

			if err := e.Render(buildTree(w, h, 0), doc.Body()); err != nil {
				log.Fatal(err)
			}
			if err := e.RunToIdle(); err != nil {
				log.Fatal(err)
			}

			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			totalStart := time.Now()
			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := e.Render(buildTree(w, h, i+1), doc.Body()); err != nil {
					log.Fatal(err)
				}
				if err := e.RunToIdle(); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}
			totalDuration := time.Since(totalStart)

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("update: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})

			var updates int64
			for _, op := range doc.Ops() {
				if op.Kind == memdom.OpUpdate {
					updates++
				}
			}
			summaries = append(summaries, summaryRow{
				name:     fmt.Sprintf("%dx%d", w, h),
				nodes:    int64(w * (h + 1)),
				updates:  updates,
				duration: totalDuration,
			})
		}
	}

	if !shouldRender {
		return
	}
	tbl.Render()

	summary := tablewriter.NewWriter(os.Stdout)
	summary.SetHeader([]string{"size", "nodes", "updates applied", "total time", "updates/ms"})
	for _, s := range summaries {
		rate := float64(s.updates) / (float64(s.duration) / float64(time.Millisecond))
		summary.Append([]string{
			s.name,
			humanize.Comma(s.nodes),
			humanize.Comma(s.updates),
			fmt.Sprint(s.duration),
			humanize.CommafWithDigits(rate, 1),
		})
	}
	summary.Render()
}
