// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results aggregates a poll's vote ledger for the admin console.

Aggregate is pure: given options, votes, profiles and the directory it
returns per-option counts with whole-number percentages, one detail row per
vote, gender and hostel cohorts per option, and the directory entries that
have not voted.

	res := results.Aggregate(in, results.Options{VisibleOnly: true})

VisibleOnly hides opted-out identities from the detail rows, cohorts and the
not-voted list. Counts and percentages still include their votes.

Service.Load reads the four inputs in parallel with errgroup.
*/
package results
