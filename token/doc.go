// Package token issues and validates the signed session token the
// engine attaches once a login fully completes. The token is the
// opaque proof a restored session presents; an expired or tampered
// token degrades the restore to anonymous instead of failing it.
package token
