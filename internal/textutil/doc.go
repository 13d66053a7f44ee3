// Package textutil sanitizes user text for use in file names and catalog keys.
package textutil
