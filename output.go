package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"osustars/mods"
)

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

func mapTitle(r Result) string {
	if r.Metadata.Title == "" {
		return r.Input
	}

	return fmt.Sprintf("%s - %s [%s]", r.Metadata.Artist, r.Metadata.Title, r.Metadata.Version)
}

// printResults renders one row per successfully evaluated map.
func printResults(w io.Writer, m mods.Mods, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Map", "Mods", "Stars", "Aim", "Speed", "FL", "AR", "OD", "HP", "Combo", "Objects", "Time"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		if r.Err != nil {
			continue
		}

		a := r.Attrs
		elapsed := r.Elapsed.Round(time.Microsecond).String()
		if r.Cached {
			elapsed = "cached"
		}

		table.Append([]string{
			mapTitle(r),
			m.String(),
			ftoa(a.Stars),
			ftoa(a.AimRating),
			ftoa(a.SpeedRating),
			ftoa(a.FlashlightRating),
			ftoa(a.AR),
			ftoa(a.OD),
			ftoa(a.HP),
			humanize.Comma(int64(a.MaxCombo)) + "x",
			humanize.Comma(int64(a.NCircles + a.NSliders + a.NSpinners)),
			elapsed,
		})
	}

	table.Render()
}

// printStrains renders the strain series of a map, one row per section.
func printStrains(w io.Writer, r Result) {
	if r.Strains == nil {
		return
	}

	s := r.Strains

	fmt.Fprintf(w, "\n%s: %d sections of %vms\n", mapTitle(r), len(s.Strains), s.SectionLength)

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	header := []string{"Section", "Time", "Aim", "Speed"}
	if s.Flashlight != nil {
		header = append(header, "FL")
	}
	header = append(header, "Total")
	table.SetHeader(header)

	for i, v := range s.Strains {
		row := []string{
			strconv.Itoa(i),
			formatTime(s.FirstSectionEnd + float32(i)*s.SectionLength),
			ftoa(s.Aim[i]),
			ftoa(s.Speed[i]),
		}
		if s.Flashlight != nil {
			row = append(row, ftoa(s.Flashlight[i]))
		}
		row = append(row, ftoa(v))

		table.Append(row)
	}

	table.Render()
}

// formatTime prints a millisecond offset as m:ss.
func formatTime(ms float32) string {
	total := int(ms / 1000)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
