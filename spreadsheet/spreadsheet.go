// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/results"
)

// Download file names
const (
	VotedFilename    = "voted_users.xlsx"
	NotVotedFilename = "not_voted_users.xlsx"
	ContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const votedAtLayout = "2006-01-02 15:04:05"

var (
	ErrEmptySheet    = errors.New("spreadsheet has no data rows")
	ErrMissingHeader = errors.New("spreadsheet must have email and phone columns")
)

var (
	votedHeader    = []interface{}{"Name", "Email", "Gender", "Hostel", "Choice", "Voted At"}
	notVotedHeader = []interface{}{"Name", "Email", "Gender", "Hostel"}
)

// ParseDirectory reads directory rows from the first sheet of an xlsx
// workbook. Columns are found by header name, case-insensitively. Rows
// missing an email or phone, or with an unrecognised gender, are skipped.
func ParseDirectory(r io.Reader) ([]models.AuthorizedIdentity, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, ErrEmptySheet
	}

	cols := make(map[string]int)
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["email"]; !ok {
		return nil, 0, ErrMissingHeader
	}
	if _, ok := cols["phone"]; !ok {
		return nil, 0, ErrMissingHeader
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var entries []models.AuthorizedIdentity
	skipped := 0
	for _, row := range rows[1:] {
		email := auth.NormalizeEmail(cell(row, "email"))
		phone := cell(row, "phone")
		if email == "" || phone == "" {
			skipped++
			continue
		}

		gender := strings.ToLower(cell(row, "gender"))
		if gender == "" {
			gender = models.GenderMale
		}
		if gender != models.GenderMale && gender != models.GenderFemale {
			skipped++
			continue
		}

		entry := models.AuthorizedIdentity{
			Email:     email,
			Phone:     phone,
			FullName:  optional(cell(row, "full_name")),
			Gender:    gender,
			IsVisible: true,
		}
		if gender == models.GenderFemale {
			entry.Hostel = optional(cell(row, "hostel"))
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// WriteVoted writes one row per vote detail.
func WriteVoted(w io.Writer, details []results.VoteDetail) error {
	rows := make([][]interface{}, 0, len(details))
	for _, d := range details {
		rows = append(rows, []interface{}{
			d.VoterName, d.VoterEmail, d.Gender, d.Hostel, d.OptionText, d.VotedAt.UTC().Format(votedAtLayout),
		})
	}
	return write(w, "Voted", votedHeader, rows)
}

// WriteNotVoted writes one row per directory entry that has not voted.
func WriteNotVoted(w io.Writer, entries []models.AuthorizedIdentity) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		name := e.Email
		if e.FullName != nil && *e.FullName != "" {
			name = *e.FullName
		}
		hostel := "—"
		if e.Hostel != nil && *e.Hostel != "" {
			hostel = *e.Hostel
		}
		rows = append(rows, []interface{}{name, e.Email, e.Gender, hostel})
	}
	return write(w, "Not Voted", notVotedHeader, rows)
}

func write(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
