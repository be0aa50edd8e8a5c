// Package quota holds the daily upload limit decision.
package quota

// Allow reports whether an account that has made count uploads today may
// make another one. A zero limit rejects everything.
func Allow(count, limit int) bool {
	return count < limit
}
