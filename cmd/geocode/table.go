package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/manzanit0/geocoding/pkg/geocode"
	"github.com/olekukonko/tablewriter"
)

func renderResults(w io.Writer, results []geocode.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}

	b := bytes.NewBuffer([]byte{})
	table := tablewriter.NewWriter(b)
	table.SetHeader([]string{"Label", "Longitude", "Latitude"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, r := range results {
		table.Append([]string{
			r.Label,
			strconv.FormatFloat(r.Coordinate.Longitude, 'f', 6, 64),
			strconv.FormatFloat(r.Coordinate.Latitude, 'f', 6, 64),
		})
	}

	table.Render()

	_, err := w.Write(b.Bytes())
	return err
}
