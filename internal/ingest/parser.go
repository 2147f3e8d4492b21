// Package ingest turns free-text vending-machine listings into draft location records.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"vending-locator/internal/models"

	"golang.org/x/text/unicode/norm"
)

// Location types assigned at parse time.
const (
	TypeGrocery = "grocery"
	TypeRetail  = "retail"
)

// DateLayout is the format of Location.LastVerified.
const DateLayout = "2006-01-02"

// minTokens is retailer, machine id, street address and "city, state".
const minTokens = 4

// separator is a tab or a run of two or more spaces. Non-breaking spaces count.
var separator = regexp.MustCompile(`\t|[\s\p{Zs}]{2,}`)

// Parser converts listing lines into locations.
type Parser struct {
	fallbackState string
	grocery       map[string]struct{}
	verifiedOn    time.Time
}

// NewParser creates a parser. fallbackState is used when a line carries no state, retailers
// listed in grocery are typed "grocery" and every record is stamped with verifiedOn.
func NewParser(fallbackState string, grocery []string, verifiedOn time.Time) *Parser {
	set := make(map[string]struct{}, len(grocery))
	for _, r := range grocery {
		set[strings.TrimSpace(r)] = struct{}{}
	}
	return &Parser{
		fallbackState: fallbackState,
		grocery:       set,
		verifiedOn:    verifiedOn,
	}
}

// Result is the outcome of parsing a listing.
type Result struct {
	Records []models.Location
	// Dropped counts non-blank lines with too few fields.
	Dropped int
}

// ParseLine parses one listing line. It reports false when the line has fewer than four fields.
func (p *Parser) ParseLine(line string) (models.Location, bool) {
	tokens := tokenize(line)
	if len(tokens) < minTokens {
		return models.Location{}, false
	}

	retailer, machineID, address, cityState := tokens[0], tokens[1], tokens[2], tokens[3]

	city, state, found := strings.Cut(cityState, ", ")
	if !found {
		city, state = cityState, p.fallbackState
	}

	return models.Location{
		ID:           models.LocationID(retailer, machineID),
		Retailer:     retailer,
		MachineID:    machineID,
		Name:         retailer,
		Address:      address,
		City:         city,
		State:        state,
		ZipCode:      "",
		Latitude:     models.Sentinel.Latitude,
		Longitude:    models.Sentinel.Longitude,
		Type:         p.classify(retailer),
		LastVerified: p.verifiedOn.Format(DateLayout),
		IsActive:     true,
	}, true
}

// Parse reads a newline-delimited listing. Blank lines are ignored; lines with too few fields are
// counted in Result.Dropped. Records keep input order.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	res := Result{Records: []models.Location{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		loc, ok := p.ParseLine(line)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, loc)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("ingest: failed to read listing: %w", err)
	}
	return res, nil
}

func (p *Parser) classify(retailer string) string {
	if _, ok := p.grocery[retailer]; ok {
		return TypeGrocery
	}
	return TypeRetail
}

func tokenize(line string) []string {
	parts := separator.Split(strings.TrimSpace(line), -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(norm.NFC.String(part))
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
