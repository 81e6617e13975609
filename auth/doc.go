// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session tokens and ID generation.

# Passwords

Account passwords are bcrypt hashes:

	hash, err := auth.HashPassword(phone)
	ok := auth.VerifyPassword(input, hash)

For voters the password is the phone number stored in the directory, so the
first successful login doubles as registration.

# Session Tokens

TokenIssuer signs HS256 JWTs with a key derived from SESSION_SECRET:

	issuer := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	token, err := issuer.Issue(userID, email)
	session, err := issuer.Validate(token)

Tokens carry the user ID as subject and the email as a custom claim.
Expired, tampered or foreign tokens fail with ErrInvalidToken.

# Bearer Headers

	token, err := auth.BearerToken(r.Header.Get("Authorization"))

# IDs and Emails

	id := auth.GenerateID()               // random UUID
	email := auth.NormalizeEmail(" A@x ") // "a@x"
*/
package auth
