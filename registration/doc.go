// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registration turns pre-approved directory entries into accounts.

# First Login Is Registration

Voters are never sent credentials. The admin loads the directory with each
voter's email and phone, and the phone doubles as the initial password:

	session, err := svc.Login(ctx, "alice@x.com", "555")

Login first tries SignIn. If the account does not exist yet it calls
Register, which:

 1. Looks up the email in the directory (ErrNotAuthorized if absent)
 2. Refuses already registered entries (ErrAlreadyRegistered)
 3. Claims the entry with a compare-and-swap on is_registered
 4. Creates the account, profile and user role in one transaction,
    hashing the directory's stored phone as the password
 5. Releases the claim if provisioning failed

Concurrent first logins for the same email race on the claim; exactly one
provisions the account. A registered email with the wrong password maps to
ErrWrongPassword so clients can prompt for the phone number.

# Admin

SetupAdmin creates the single admin account. The store enforces "one admin"
with a partial unique index, so a concurrent second bootstrap also fails
with ErrAdminExists.

IsAdmin answers from the role cache when possible and re-queries the store
on a miss.
*/
package registration
