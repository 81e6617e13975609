// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package spreadsheet reads the voter directory from xlsx uploads and writes
results downloads.

Import expects a header row on the first sheet. Recognised columns are
email, phone, full_name, gender and hostel, in any order and any case.
Gender defaults to male; hostel is kept only for female rows.

Exports use a single sheet:

	voted_users.xlsx      Name, Email, Gender, Hostel, Choice, Voted At
	not_voted_users.xlsx  Name, Email, Gender, Hostel
*/
package spreadsheet
