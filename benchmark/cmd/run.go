package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type CLI struct {
	Dir       string `kong:"arg,optional,default='..',help='Directory holding the benchmarks'"`
	Count     int    `kong:"default='3',help='Runs per benchmark, averaged'"`
	BenchTime string `kong:"name='benchtime',default='100ms',help='Value passed to -benchtime'"`
	JSON      string `kong:"name='json',help='Also write the averaged results to this file'"`
}

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Aquinas": {text.FgGreen},
	"Do":      {text.FgYellow},
	"Dig":     {text.FgMagenta},
	"Fx":      {text.FgBlue},
}

var categoryTitles = map[string]string{
	"Provide_Simple":   "Registration (simple)",
	"Provide_Chain":    "Registration (dependency chain)",
	"Invoke_Singleton": "Resolution (cached singleton)",
	"Invoke_Chain":     "Resolution (dependency chain)",
	"Invoke_Clone":     "Resolution (cloned dock)",
	"Warm_10":          "Eager construction (10 services)",
	"Warm_50":          "Eager construction (50 services)",
	"WarmWithWork_10":  "Eager construction with work (10 services, 1ms each)",
}

var categoryOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Invoke_Singleton", "Invoke_Chain", "Invoke_Clone",
	"Warm_10", "Warm_50", "WarmWithWork_10",
}

func (c *CLI) Run() error {
	cmd := exec.Command(
		"go", "test", "-bench=.", "-benchmem",
		"-count="+strconv.Itoa(c.Count), "-benchtime="+c.BenchTime,
	)
	cmd.Dir = c.Dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("benchmark failed: %s", exitErr.Stderr)
		}
		return err
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}
	printSummary(grouped)

	if c.JSON != "" {
		return exportJSON(c.JSON, results)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(
		&cli,
		kong.Name("run"),
		kong.Description("Run the dependency injection benchmarks and compare frameworks"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

func parseResults(output []byte) []BenchmarkResult {
	benchPattern := regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)

	seen := make(map[string][]BenchmarkResult)
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			continue
		}

		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
		seen[name] = append(
			seen[name], BenchmarkResult{
				Name:       name,
				Framework:  parts[len(parts)-1],
				Category:   parts[0],
				Scenario:   strings.Join(parts[1:len(parts)-1], "_"),
				Iterations: iterations,
				NsPerOp:    nsPerOp,
				BytesPerOp: bytesPerOp,
				AllocsOp:   allocsOp,
			},
		)
	}

	results := make([]BenchmarkResult, 0, len(names))
	for _, name := range names {
		runs := seen[name]

		var totalNs float64
		var totalBytes, totalAllocs int64
		for _, r := range runs {
			totalNs += r.NsPerOp
			totalBytes += r.BytesPerOp
			totalAllocs += r.AllocsOp
		}
		count := float64(len(runs))

		avg := runs[0]
		avg.NsPerOp = totalNs / count
		avg.BytesPerOp = int64(float64(totalBytes) / count)
		avg.AllocsOp = int64(float64(totalAllocs) / count)
		results = append(results, avg)
	}
	return results
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	var keys []string
	for _, r := range results {
		key := r.Category
		if r.Scenario != "" {
			key += "_" + r.Scenario
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	slices.SortStableFunc(
		keys, func(a, b string) int {
			return rank(a) - rank(b)
		},
	)

	ordered := make([]CategoryResults, 0, len(keys))
	for _, key := range keys {
		res := groups[key]
		slices.SortFunc(
			res, func(a, b BenchmarkResult) int {
				switch {
				case a.NsPerOp < b.NsPerOp:
					return -1
				case a.NsPerOp > b.NsPerOp:
					return 1
				default:
					return 0
				}
			},
		)
		ordered = append(ordered, CategoryResults{Category: key, Results: res})
	}
	return ordered
}

func rank(category string) int {
	if i := slices.Index(categoryOrder, category); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

func printCategory(cat CategoryResults) {
	title, ok := categoryTitles[cat.Category]
	if !ok {
		title = strings.ReplaceAll(cat.Category, "_", " ")
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Framework", "Time/op", "Bytes/op", "Allocs/op", "Relative"})
	tw.SetColumnConfigs(
		[]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		},
	)

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		name := r.Framework
		if colors, ok := frameworkColors[r.Framework]; ok {
			name = colors.Sprint(r.Framework)
		}

		tw.AppendRow(table.Row{name, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsOp, relative})
	}

	tw.Render()
	fmt.Println()
}

func formatNs(ns float64) string {
	if ns >= 1_000_000 {
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	}
	if ns >= 1_000 {
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		wins[cat.Results[0].Framework]++
	}

	frameworks := make([]string, 0, len(wins))
	for name := range wins {
		frameworks = append(frameworks, name)
	}
	slices.SortFunc(
		frameworks, func(a, b string) int {
			if wins[a] != wins[b] {
				return wins[b] - wins[a]
			}
			return strings.Compare(a, b)
		},
	)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Summary")
	tw.AppendHeader(table.Row{"Framework", "Fastest in"})
	for _, name := range frameworks {
		tw.AppendRow(table.Row{name, fmt.Sprintf("%d/%d", wins[name], len(groups))})
	}
	tw.Render()
}

func exportJSON(path string, results []BenchmarkResult) error {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("results exported to %s\n", path)
	return nil
}
