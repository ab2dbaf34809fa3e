package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RowError describes one rejected import row. Row numbers are 1-based and
// count data rows, not the header.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	ValidCount int        `json:"valid_count"`
	ErrorCount int        `json:"error_count"`
	Errors     []RowError `json:"errors,omitempty"`
}

// importCols maps recognized CSV header names to Client fields. Headers are
// matched case-insensitively with surrounding whitespace ignored.
var importCols = map[string]func(*Client, string){
	"first_name":          func(c *Client, v string) { c.FirstName = v },
	"last_name":           func(c *Client, v string) { c.LastName = v },
	"dob":                 func(c *Client, v string) { c.DOB = v },
	"gender":              func(c *Client, v string) { c.Gender = v },
	"phone":               func(c *Client, v string) { c.Phone = v },
	"email":               func(c *Client, v string) { c.Email = v },
	"address":             func(c *Client, v string) { c.Address = v },
	"status":              func(c *Client, v string) { c.Status = v },
	"insurance_payer":     func(c *Client, v string) { c.InsurancePayer = v },
	"insurance_member_id": func(c *Client, v string) { c.InsuranceMemberID = v },
}

// Import reads a client CSV, validates each data row independently, and
// creates every valid row. Invalid rows are reported but never block the
// rest of the file.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	setters := make([]func(*Client, string), len(header))
	for i, h := range header {
		setters[i] = importCols[strings.ToLower(strings.TrimSpace(h))]
	}

	result := &ImportResult{}
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}

		c := &Client{Status: StatusActive}
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](c, strings.TrimSpace(v))
			}
		}
		if _, err := s.Create(ctx, c); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}
		result.ValidCount++
	}
	s.logger.Info().
		Int("valid", result.ValidCount).
		Int("errors", result.ErrorCount).
		Msg("client import finished")
	return result, nil
}

// ExportHeader is the column order for client CSV exports.
var ExportHeader = []string{"id", "first_name", "last_name", "dob", "gender", "phone",
	"email", "address", "status", "insurance_payer", "insurance_member_id", "provider_name", "last_visit"}

// ExportRow renders one client in ExportHeader order.
func ExportRow(c *Client) []string {
	lastVisit := ""
	if c.LastVisit != nil {
		lastVisit = c.LastVisit.Format("2006-01-02")
	}
	return []string{
		fmt.Sprintf("%d", c.ID), c.FirstName, c.LastName, c.DOB, c.Gender, c.Phone,
		c.Email, c.Address, c.Status, c.InsurancePayer, c.InsuranceMemberID, c.ProviderName, lastVisit,
	}
}
