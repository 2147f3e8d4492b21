// Package failures splits a geocoded dataset into what is usable and what still needs an operator.
package failures

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"vending-locator/internal/dataset"
	"vending-locator/internal/models"
)

// Report partitions a dataset by coordinate state. Every input record lands in exactly one list,
// in input order.
type Report struct {
	Resolved   []models.Location
	Unresolved []models.Location
	// Anomalous holds records with exactly one zero coordinate.
	Anomalous []models.Location
}

// Partition classifies records without modifying them.
func Partition(records []models.Location) Report {
	r := Report{
		Resolved:   []models.Location{},
		Unresolved: []models.Location{},
		Anomalous:  []models.Location{},
	}
	for _, loc := range records {
		switch loc.Coordinates().State() {
		case models.Resolved:
			r.Resolved = append(r.Resolved, loc)
		case models.Unresolved:
			r.Unresolved = append(r.Unresolved, loc)
		default:
			r.Anomalous = append(r.Anomalous, loc)
		}
	}
	return r
}

// Total is the number of partitioned records.
func (r Report) Total() int {
	return len(r.Resolved) + len(r.Unresolved) + len(r.Anomalous)
}

const listingHeader = "FAILED GEOCODING - NEED MANUAL COORDINATES"

// WriteListing writes one numbered block per record for an operator to work through.
func WriteListing(w io.Writer, records []models.Location) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, listingHeader)
	fmt.Fprintln(bw, strings.Repeat("=", 50))
	fmt.Fprintln(bw)

	for i, loc := range records {
		fmt.Fprintf(bw, "%d. %s\n", i+1, loc.Name)
		fmt.Fprintf(bw, "   Address: %s, %s, %s\n", loc.Address, loc.City, loc.State)
		fmt.Fprintf(bw, "   ID: %s\n", loc.ID)
		fmt.Fprintf(bw, "   Machine ID: %s\n", loc.MachineID)
		fmt.Fprintln(bw, strings.Repeat("-", 40))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failures: failed to write listing: %w", err)
	}
	return nil
}

// Track partitions the dataset at in, saves the unresolved records to jsonOut and writes the
// operator listing to textOut.
func Track(in, jsonOut, textOut string) (Report, error) {
	records, err := dataset.Load(in)
	if err != nil {
		return Report{}, fmt.Errorf("failures: %w", err)
	}

	report := Partition(records)

	if err := dataset.Save(jsonOut, report.Unresolved); err != nil {
		return report, fmt.Errorf("failures: %w", err)
	}

	var listing bytes.Buffer
	if err := WriteListing(&listing, report.Unresolved); err != nil {
		return report, err
	}
	if err := dataset.WriteFile(textOut, listing.Bytes()); err != nil {
		return report, fmt.Errorf("failures: listing: %w", err)
	}
	return report, nil
}
