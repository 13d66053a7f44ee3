// Package deps locates the external binaries reelsmith shells out to.
package deps
