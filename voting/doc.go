// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting decides whether a user may vote on today's poll and records
the vote.

# States

	loading ─┬─> no_poll_today
	         ├─> before_window   (now < start)
	         ├─> after_window    (now >= end)
	         ├─> already_voted   (terminal)
	         └─> open_unvoted ──submit──> already_voted

Windows are half-open in minutes of the service time zone: a poll running
16:00-19:00 accepts votes at 16:00 and refuses them at 19:00. Before the
window the message counts down:

	The poll opens in 1h 0m. Come back at 16:00.

The hours part is dropped below one hour ("The poll opens in 45m. ...").

# Submitting

Submit re-derives the state from the store before inserting, so a closed or
not yet open window is refused server-side. The vote ledger's UNIQUE
(poll_id, user_id) constraint settles double submissions: the loser gets
ErrAlreadyVoted and the already_voted view.
*/
package voting
