// Package reconcile merges the automatically geocoded dataset with the manually geocoded one into
// the authoritative dataset.
package reconcile

import (
	"errors"
	"fmt"

	"vending-locator/internal/dataset"
	"vending-locator/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrLengthMismatch aborts a merge whose inputs have different record counts.
var ErrLengthMismatch = errors.New("reconcile: datasets have different numbers of locations")

// Mismatch describes an automated record with no manual counterpart, or a repeat of an id
// already merged.
type Mismatch struct {
	Index int
	ID    string
}

// Result is the merged dataset and the warnings raised while building it.
type Result struct {
	Records []models.Location
	// Mismatches lists automated records skipped because no manual record shares their id or
	// because their id was already merged.
	Mismatches []Mismatch
	// StillMissing lists ids that neither source resolved. They are included in Records with
	// the unresolved sentinel.
	StillMissing []string
	// Anomalous lists ids whose automated coordinates were partially resolved and that the manual
	// dataset did not resolve. Their partial pair is replaced by the sentinel.
	Anomalous []string
}

// Total is the number of merged records.
func (r Result) Total() int {
	return len(r.Records)
}

// Resolved counts merged records with resolved coordinates.
func (r Result) Resolved() int {
	n := 0
	for _, loc := range r.Records {
		if loc.Coordinates().IsResolved() {
			n++
		}
	}
	return n
}

// Missing counts merged records without resolved coordinates.
func (r Result) Missing() int {
	return r.Total() - r.Resolved()
}

// Merge combines auto and manual. Records are paired by id rather than by position, so a
// reordered manual file still merges; output follows the order of auto.
//
// Coordinates come from auto when resolved there, otherwise from manual when resolved there,
// otherwise the record keeps the sentinel and its id is reported as still missing. Every other
// field comes from auto. An id repeated in auto is merged once; later repeats are mismatches.
func Merge(auto, manual []models.Location) (Result, error) {
	if len(auto) != len(manual) {
		return Result{}, fmt.Errorf("%w: %d automated vs %d manual", ErrLengthMismatch, len(auto), len(manual))
	}

	byID := make(map[string]models.Location, len(manual))
	for _, loc := range manual {
		if _, dup := byID[loc.ID]; dup {
			log.Warn().Str("id", loc.ID).Msg("reconcile: duplicate id in manual dataset, keeping first")
			continue
		}
		byID[loc.ID] = loc
	}

	res := Result{
		Records:      make([]models.Location, 0, len(auto)),
		Mismatches:   []Mismatch{},
		StillMissing: []string{},
		Anomalous:    []string{},
	}

	merged := make(map[string]struct{}, len(auto))
	for i, a := range auto {
		if _, dup := merged[a.ID]; dup {
			log.Warn().Int("index", i).Str("id", a.ID).Msg("reconcile: duplicate id in automated dataset, skipping")
			res.Mismatches = append(res.Mismatches, Mismatch{Index: i, ID: a.ID})
			continue
		}

		m, ok := byID[a.ID]
		if !ok {
			log.Warn().Int("index", i).Str("id", a.ID).Str("manual_id", manual[i].ID).
				Msg("reconcile: id mismatch, skipping")
			res.Mismatches = append(res.Mismatches, Mismatch{Index: i, ID: a.ID})
			continue
		}

		out := a
		switch {
		case a.Coordinates().IsResolved():
		case m.Coordinates().IsResolved():
			out.SetCoordinates(m.Coordinates())
		default:
			if a.Coordinates().State() == models.Partial {
				log.Warn().Str("id", a.ID).Float64("lat", a.Latitude).Float64("lon", a.Longitude).
					Msg("reconcile: partially resolved coordinates not fixed manually, resetting")
				res.Anomalous = append(res.Anomalous, a.ID)
			}
			log.Warn().Str("id", a.ID).Msg("reconcile: still missing coordinates in both datasets")
			out.SetCoordinates(models.Sentinel)
			res.StillMissing = append(res.StillMissing, a.ID)
		}
		merged[a.ID] = struct{}{}
		res.Records = append(res.Records, out)
	}

	return res, nil
}

// MergeFiles merges the datasets at autoPath and manualPath and writes the result to outPath.
// Nothing is written when the merge fails.
func MergeFiles(autoPath, manualPath, outPath string) (Result, error) {
	auto, err := dataset.Load(autoPath)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: automated dataset: %w", err)
	}
	manual, err := dataset.Load(manualPath)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: manual dataset: %w", err)
	}

	res, err := Merge(auto, manual)
	if err != nil {
		return Result{}, err
	}

	if err := dataset.Save(outPath, res.Records); err != nil {
		return res, fmt.Errorf("reconcile: %w", err)
	}
	return res, nil
}
