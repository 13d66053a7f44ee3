// Package staging reclaims disk space left behind by interrupted renders:
// per-request work directories and hidden partial outputs.
package staging
